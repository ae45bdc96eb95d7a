package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdime/folio/internal/convert"
	"github.com/pdime/folio/internal/icons"
	"github.com/pdime/folio/internal/site"
)

// Build step names, also used as watch targets.
const (
	stepConvert      = "convert"
	stepIcons        = "icons"
	stepPalette      = "palette"
	stepArt          = "art"
	stepDreams       = "dreams"
	stepMusic        = "music"
	stepPublications = "publications"
	stepNav          = "nav"
)

// buildOrder is the sequence `folio build` runs.
var buildOrder = []string{
	stepConvert, stepIcons, stepPalette, stepArt, stepDreams, stepMusic, stepPublications, stepNav,
}

type stepFunc func(ctx context.Context, a *app, out io.Writer) error

func (a *app) steps() map[string]stepFunc {
	return map[string]stepFunc{
		stepConvert:      runConvert,
		stepIcons:        runIcons,
		stepPalette:      func(_ context.Context, a *app, out io.Writer) error { return a.writePalette(out, "", false) },
		stepArt:          runArt,
		stepDreams:       runDreams,
		stepMusic:        runMusic,
		stepPublications: runPublications,
		stepNav:          runNav,
	}
}

// runSteps executes names in build order, stopping at the first error.
func (a *app) runSteps(ctx context.Context, out io.Writer, names []string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	steps := a.steps()
	for _, name := range buildOrder {
		if !want[name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		a.logger.Debug("running step", "step", name)
		if err := steps[name](ctx, a, out); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) site() *site.Generator {
	return site.NewGenerator(a.cfg, a.logger)
}

func runConvert(_ context.Context, a *app, out io.Writer) error {
	src := a.cfg.SourcePath(a.cfg.Paths.Art)
	dst := a.cfg.OutputPath("assets", "img", "art")
	res, err := convert.New(a.cfg.Convert.MaxDimension, a.logger).Run(src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "HEIC files: %d found, %d converted, %d skipped, %d failed\n",
		res.Found, res.Converted, res.Skipped, res.Failed)
	return nil
}

func runIcons(_ context.Context, a *app, out io.Writer) error {
	written, err := icons.New(a.cfg.Icons, a.logger).Generate(a.cfg.LogoPath(), a.cfg.Paths.OutputDir)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintf(out, "wrote %s\n", p)
	}
	return nil
}

func runArt(_ context.Context, a *app, out io.Writer) error {
	res, err := a.site().Art()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "art: %d images (%d copied, %d already present) -> %s\n",
		res.Images, res.Copied, res.Skipped, res.Page)
	return nil
}

func runDreams(_ context.Context, a *app, out io.Writer) error {
	res, err := a.site().Dreams()
	if err != nil {
		return err
	}
	if res.Page == "" {
		fmt.Fprintln(out, "dreams: no dream journals found, page not generated")
		return nil
	}
	fmt.Fprintf(out, "dreams: %d entries -> %s\n", res.Dreams, res.Page)
	return nil
}

func runMusic(_ context.Context, a *app, out io.Writer) error {
	res, err := a.site().Music()
	if err != nil {
		return err
	}
	if res.Page == "" {
		fmt.Fprintf(out, "music: no tracks found, page not generated (%d melotations)\n", res.Melotations)
		return nil
	}
	fmt.Fprintf(out, "music: %d tracks, %d melotations -> %s\n", res.Tracks, res.Melotations, res.Page)
	return nil
}

func runPublications(_ context.Context, a *app, out io.Writer) error {
	res, err := a.site().Publications()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "publications: %d prose, %d poetry, %d skipped -> %s\n",
		res.Prose, res.Poetry, res.Skipped, res.Page)
	return nil
}

func runNav(_ context.Context, a *app, out io.Writer) error {
	res, err := a.site().FixNavigation()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "navigation: %d updated, %d without a nav container\n", res.Updated, res.Skipped)
	return nil
}

// stepCmd wires a build step to a command that takes no arguments.
func stepCmd(a *app, use, short, long string, step stepFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return step(cmd.Context(), a, cmd.OutOrStdout())
		},
	}
}
