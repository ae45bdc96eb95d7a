package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyFile copies src to dst, creating parent directories and overwriting
// any existing file. The modification time is carried over.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - Source paths come from the site tree
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot copy directory %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { // #nosec G301 - Site output directories need standard permissions
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	out, err := os.Create(dst) // #nosec G304 - Destination under the output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to copy %s: %w", src, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", dst, closeErr)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set times on %s: %w", dst, err)
	}
	return nil
}

// CopyIfMissing copies src to dst unless dst already exists. It reports
// whether a copy was made.
func CopyIfMissing(src, dst string) (bool, error) {
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", dst, err)
	}
	if err := CopyFile(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

// ListFiles returns the regular files directly inside dir whose names satisfy
// match, sorted by name. Subdirectories are not entered.
func ListFiles(dir string, match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if match == nil || match(e.Name()) {
			files = append(files, full)
		}
	}

	slices.Sort(files)
	return files, nil
}

// ListDirs returns the names of the subdirectories directly inside dir, sorted.
func ListDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var dirs []string
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err == nil && info.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}

	slices.Sort(dirs)
	return dirs, nil
}

// HasExt returns a matcher for ListFiles accepting the given extensions,
// ignoring case.
func HasExt(exts ...string) func(string) bool {
	return func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		return slices.Contains(exts, ext)
	}
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Site output directories need standard permissions
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Site output is world-readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
