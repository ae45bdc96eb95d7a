package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdime/folio/internal/colour"
	"github.com/pdime/folio/internal/output/css"
)

func newPaletteCmd(a *app) *cobra.Command {
	var (
		dryRun bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "palette [image]",
		Short: "Extract the site colour theme from the logo",
		Long: `Extract a ranked colour palette from the site logo (or the given image) and
write the CSS variables file the stylesheet builds on.

Colours are counted on a thumbnail, near-white, near-black and rare colours
are dropped, the rest are clustered greedily by RGB distance and split into
chromatic (primary) and grayscale (secondary) streams.

Examples:
  # Extract from the configured logo and write assets/css/variables.css
  folio palette

  # Show the palette of another image without writing anything
  folio palette --dry-run photo.png

  # Print the palette as JSON
  folio palette --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			switch format {
			case "text":
				return a.writePalette(cmd.OutOrStdout(), source, dryRun)
			case "json":
				return a.printPaletteJSON(cmd.OutOrStdout(), source)
			default:
				return fmt.Errorf("invalid format %q (valid: text, json)", format)
			}
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the palette without writing the CSS file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}

func (a *app) extractPalette(source string) (string, *colour.Palette, error) {
	if source == "" {
		source = a.cfg.LogoPath()
	}
	a.logger.Info("extracting palette", "source", source)

	p, err := colour.NewExtractor(a.cfg.Palette.ExtractorConfig, a.logger).ExtractFile(source)
	if err != nil {
		var inputErr *colour.InputError
		if errors.As(err, &inputErr) {
			return "", nil, fmt.Errorf("cannot read logo: %w", err)
		}
		return "", nil, err
	}
	return source, p, nil
}

// writePalette lists the palette and, unless dryRun, writes the CSS file.
func (a *app) writePalette(out io.Writer, source string, dryRun bool) error {
	source, p, err := a.extractPalette(source)
	if err != nil {
		return err
	}

	fmt.Fprint(out, p.StringWithPreview(isTerminal(out)))

	theme := colour.DeriveTheme(p)
	if theme.HasBrand() {
		fmt.Fprintf(out, "Brand: %s  Accent: %s  Text on brand: %s\n",
			theme.Brand.Hex(), hexOrNone(theme.Accent), theme.TextOnBrand.Hex())
	}

	content, err := css.NewGenerator(a.cfg.Site.Name, a.cfg.Paths.Templates, a.cfg.Palette.CSSColours, a.logger).
		Generate(source, p)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(content))
		return nil
	}

	path := a.cfg.CSSPath()
	if err := css.Write(path, content); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func (a *app) printPaletteJSON(out io.Writer, source string) error {
	_, p, err := a.extractPalette(source)
	if err != nil {
		return err
	}
	data, err := p.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func hexOrNone(c *colour.RGB) string {
	if c == nil {
		return "none"
	}
	return c.Hex()
}

// isTerminal reports whether w is a terminal, so ANSI swatches are only
// written where they render.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - File descriptors fit in int
}
