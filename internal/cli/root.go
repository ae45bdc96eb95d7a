// Package cli provides the command-line interface for folio.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/pdime/folio/internal/config"
	"github.com/pdime/folio/internal/version"
)

// app carries the state shared by every command once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	cfg    *config.Config
	logger hclog.Logger
}

// NewRootCmd builds the folio command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "folio",
		Short: "Build the portfolio site from its source material",
		Long: `folio builds a static portfolio site from a tree of source material.

It extracts a colour theme from the site logo, converts HEIC photographs,
renders favicons and the Open Graph image, and generates the art, dreams,
music and publications pages. It can also serve the result locally, rebuild
on change and package it for deployment.

Examples:
  # Build everything into docs/
  folio build

  # Regenerate only the art gallery
  folio art

  # Preview the site on port 8080
  folio serve -p 8080`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "path to the site configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	config.RegisterPathFlags(flags)

	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(
		newBuildCmd(a),
		newPaletteCmd(a),
		newConvertCmd(a),
		newIconsCmd(a),
		newArtCmd(a),
		newDreamsCmd(a),
		newMusicCmd(a),
		newPublicationsCmd(a),
		newDescriptionsCmd(a),
		newNavCmd(a),
		newTemplatesCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newPackageCmd(a),
		newVersionCmd(),
	)
	return root
}

// init builds the logger and loads configuration for the running command.
func (a *app) init(cmd *cobra.Command) error {
	level := hclog.Info
	switch {
	case a.verbose:
		level = hclog.Debug
	case a.quiet:
		level = hclog.Error
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "folio",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})

	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(a.configPath); err != nil {
			return fmt.Errorf("config file not accessible: %w", err)
		}
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	a.logger.Debug("configuration loaded", "path", a.configPath,
		"source", cfg.Paths.SourceDir, "output", cfg.Paths.OutputDir)
	return nil
}
