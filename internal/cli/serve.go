package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdime/folio/internal/config"
	"github.com/pdime/folio/internal/server"
	"github.com/pdime/folio/internal/watch"
)

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site locally with caching disabled",
		Long: `Serve the output directory over HTTP for local preview. Responses carry
no-cache headers so edits show up on reload. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.cfg.Paths.OutputDir); err != nil {
				return fmt.Errorf("output directory not found, run `folio build` first: %w", err)
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			srv := server.New(a.cfg.Paths.OutputDir, a.cfg.Server.Host, a.cfg.Server.Port, a.logger)
			fmt.Fprintf(cmd.OutOrStdout(), "serving %s at http://%s\n", a.cfg.Paths.OutputDir, displayAddr(srv.Addr()))
			return srv.Run(ctx)
		},
	}
	config.RegisterServerFlags(cmd.Flags())
	return cmd
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// watchTargets maps source locations to the steps that consume them.
func (a *app) watchTargets() []watch.Target {
	p := a.cfg.Paths
	templated := []string{stepPalette, stepArt, stepDreams, stepMusic, stepPublications}

	targets := []watch.Target{
		{Name: stepConvert, Path: a.cfg.SourcePath(p.Art)},
		{Name: stepArt, Path: a.cfg.SourcePath(p.Art)},
		{Name: stepIcons, Path: a.cfg.LogoPath()},
		{Name: stepPalette, Path: a.cfg.LogoPath()},
		{Name: stepDreams, Path: a.cfg.SourcePath(p.Dreams)},
		{Name: stepMusic, Path: filepath.Dir(a.cfg.SourcePath(p.MusicEmbeds))},
		{Name: stepMusic, Path: a.cfg.SourcePath(p.Melotations)},
		{Name: stepPublications, Path: a.cfg.SourcePath(p.Prose)},
		{Name: stepPublications, Path: a.cfg.SourcePath(p.Poetry)},
	}
	if p.Templates != "" {
		for _, name := range templated {
			targets = append(targets, watch.Target{Name: name, Path: p.Templates})
		}
	}
	return targets
}

func newWatchCmd(a *app) *cobra.Command {
	var initial bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild affected pages when source material changes",
		Long: `Watch the source tree and templates directory. After a burst of changes
settles, only the steps fed by the changed paths are rerun, followed by the
navigation fix. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			out := cmd.OutOrStdout()

			if initial {
				if err := a.runSteps(ctx, out, buildOrder); err != nil {
					return err
				}
			}

			w := watch.New(a.watchTargets(), a.cfg.Watch.Debounce, a.rebuild(out), a.logger)
			fmt.Fprintln(out, "watching for changes, press Ctrl+C to stop")
			return w.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&initial, "build", false, "run a full build before watching")
	return cmd
}

// rebuild reruns the named steps and refreshes navigation.
func (a *app) rebuild(out io.Writer) watch.RebuildFunc {
	return func(ctx context.Context, names []string) error {
		return a.runSteps(ctx, out, slices.Concat(names, []string{stepNav}))
	}
}
