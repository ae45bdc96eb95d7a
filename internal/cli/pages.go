package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	return stepCmd(a, "convert", "Convert HEIC photographs to web PNGs",
		`Convert every HEIC file below the art source directory to a PNG at the
same relative path under assets/img/art, limiting both edges to the configured
maximum dimension. Existing PNGs are left alone; a file that fails to convert
is reported and the run continues.`, runConvert)
}

func newIconsCmd(a *app) *cobra.Command {
	return stepCmd(a, "icons", "Generate favicons and the Open Graph image",
		`Render favicon.png, favicon.ico, apple-touch-icon.png and
assets/img/og-image.png from the site logo, and copy the logo into assets/img.`, runIcons)
}

func newArtCmd(a *app) *cobra.Command {
	return stepCmd(a, "art", "Generate the art gallery page",
		`Copy gallery images from the art source directory and its immediate
subfolders into assets/img/art (existing files are kept) and render art.html
with one tab per folder.`, runArt)
}

func newDreamsCmd(a *app) *cobra.Command {
	return stepCmd(a, "dreams", "Generate the dreams page",
		`Copy dream journal PDFs into assets/pdfs/dreams and render dreams.html,
newest first. File names of the form YYYY-MM-DD_Title_Words.pdf supply the
date and title.`, runDreams)
}

func newMusicCmd(a *app) *cobra.Command {
	return stepCmd(a, "music", "Generate the music page",
		`Copy melotation PDFs into assets/pdfs/melotations and render music.html
from the SoundCloud embed list. Nothing is rendered when the list has no tracks.`, runMusic)
}

func newPublicationsCmd(a *app) *cobra.Command {
	return stepCmd(a, "publications", "Generate the publications page",
		`Read the prose and poetry summary CSVs, copy covers and fallback PDFs into
assets, and render publications.html.`, runPublications)
}

func newNavCmd(a *app) *cobra.Command {
	return stepCmd(a, "nav", "Refresh the navigation bar on every page",
		`Replace the navigation container of every HTML page in the output root
with the current navigation, marking each page's own link active.`, runNav)
}

func newDescriptionsCmd(a *app) *cobra.Command {
	return stepCmd(a, "descriptions", "Apply card descriptions to publication metadata",
		`Read the folder to description map from the descriptions YAML file and write
each description into the matching prose folder's metadata JSON, keeping every
other key as it was. Run "folio publications" afterwards to refresh the page.`,
		func(_ context.Context, a *app, out io.Writer) error {
			res, err := a.site().Descriptions()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "descriptions: %d updated, %d folders missing or without metadata\n",
				res.Updated, res.Missing)
			return nil
		})
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run every build step",
		Long: `Run convert, icons, palette, art, dreams, music, publications and nav in
that order, stopping at the first failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSteps(cmd.Context(), cmd.OutOrStdout(), buildOrder)
		},
	}
}
