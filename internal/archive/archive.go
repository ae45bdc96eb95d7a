// Package archive bundles the generated site as a tar.xz file.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ulikunitz/xz"

	"github.com/pdime/folio/internal/security"
)

// Extension is appended to package names.
const Extension = ".tar.xz"

// MaxEntrySize bounds a single extracted file.
const MaxEntrySize = 512 * 1024 * 1024

// Files returns the regular files below dir as slash-separated relative
// paths in sorted order.
func Files(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// Create writes the regular files below srcDir to a tar.xz archive at dst
// and returns the number of entries. Owner information is omitted. dst is
// skipped if it lies inside srcDir, and removed again if writing fails.
func Create(srcDir, dst string) (int, error) {
	files, err := Files(srcDir)
	if err != nil {
		return 0, err
	}

	absDst, _ := filepath.Abs(dst)

	out, err := os.Create(dst) // #nosec G304 - Archive path chosen by the user
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	fail := func(err error) (int, error) {
		out.Close()
		os.Remove(dst)
		return 0, err
	}

	xw, err := xz.NewWriter(out)
	if err != nil {
		return fail(fmt.Errorf("failed to create xz writer: %w", err))
	}
	tw := tar.NewWriter(xw)

	count := 0
	for _, rel := range files {
		path := filepath.Join(srcDir, filepath.FromSlash(rel))
		if abs, _ := filepath.Abs(path); abs == absDst {
			continue
		}
		if err := addFile(tw, path, rel); err != nil {
			return fail(err)
		}
		count++
	}

	if err := tw.Close(); err != nil {
		return fail(fmt.Errorf("failed to finish tar stream: %w", err))
	}
	if err := xw.Close(); err != nil {
		return fail(fmt.Errorf("failed to finish xz stream: %w", err))
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("failed to close archive: %w", err)
	}
	return count, nil
}

// openFile is replaced in tests.
var openFile = os.Open

func addFile(tw *tar.Writer, path, name string) error {
	f, err := openFile(path) // #nosec G304 - Walking the site output directory
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     info.Size(),
		Mode:     int64(info.Mode().Perm()),
		ModTime:  info.ModTime().UTC().Truncate(1e9),
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// List returns the entry names of a tar.xz archive in stored order.
func List(path string) ([]string, error) {
	var names []string
	err := walk(path, func(hdr *tar.Header, _ io.Reader) error {
		names = append(names, hdr.Name)
		return nil
	})
	return names, err
}

// Extract unpacks the regular files of a tar.xz archive below destDir.
// Entries that would escape destDir or exceed MaxEntrySize are rejected.
func Extract(path, destDir string) (int, error) {
	count := 0
	err := walk(path, func(hdr *tar.Header, r io.Reader) error {
		if hdr.Typeflag != tar.TypeReg {
			return nil
		}
		if err := security.ValidateRelativePath(hdr.Name, destDir); err != nil {
			return fmt.Errorf("unsafe archive entry: %w", err)
		}

		dest := filepath.Join(destDir, filepath.FromSlash(hdr.Name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil { // #nosec G301 - Extracted site directories need standard permissions
			return fmt.Errorf("failed to create directory for %s: %w", dest, err)
		}
		out, err := os.Create(dest) // #nosec G304 - Destination validated against destDir
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}

		_, copyErr := io.Copy(out, security.NewLimitedReader(r, MaxEntrySize))
		closeErr := out.Close()
		if copyErr != nil {
			return fmt.Errorf("failed to extract %s: %w", hdr.Name, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close %s: %w", dest, closeErr)
		}
		count++
		return nil
	})
	return count, err
}

func walk(path string, fn func(*tar.Header, io.Reader) error) error {
	f, err := os.Open(path) // #nosec G304 - Archive path chosen by the user
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}
	tr := tar.NewReader(xr)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}
