package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdime/folio/internal/archive"
)

func newPackageCmd(a *app) *cobra.Command {
	var output string
	var list, verify bool
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Bundle the generated site into a .tar.xz archive",
		Long: `Write every regular file under the output directory into an xz-compressed
tarball, with paths relative to the output root in sorted order.

Examples:
  folio package
  folio package -o release/site-2024.tar.xz
  folio package --list --verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if output == "" {
				output = a.cfg.Package.Name + archive.Extension
			}

			n, err := archive.Create(a.cfg.Paths.OutputDir, output)
			if err != nil {
				return err
			}
			a.logger.Debug("archive written", "path", output, "files", n)
			fmt.Fprintf(out, "packaged %d files from %s into %s\n", n, a.cfg.Paths.OutputDir, output)

			if verify {
				if err := verifyArchive(output, n); err != nil {
					return err
				}
				fmt.Fprintln(out, "archive verified")
			}

			if list {
				names, err := archive.List(output)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default: <package.name>.tar.xz)")
	cmd.Flags().BoolVar(&list, "list", false, "print the archive contents after writing")
	cmd.Flags().BoolVar(&verify, "verify", false, "extract the archive to a temporary directory and check the file count")
	return cmd
}

// verifyArchive unpacks path into a scratch directory and checks it holds
// want files.
func verifyArchive(path string, want int) error {
	dir, err := os.MkdirTemp("", "folio-verify-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	got, err := archive.Extract(path, dir)
	if err != nil {
		return fmt.Errorf("archive verification failed: %w", err)
	}
	if got != want {
		return fmt.Errorf("archive verification failed: extracted %d files, expected %d", got, want)
	}
	return nil
}
