// Package security provides path and size guards for untrusted inputs such
// as CSV-supplied file names and archive entries.
package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrSizeLimit is returned once a LimitedReader has been exhausted.
var ErrSizeLimit = errors.New("size limit exceeded")

// ValidateRelativePath checks that name, taken from user-supplied data, is a
// relative path that stays inside baseDir once joined to it.
func ValidateRelativePath(name, baseDir string) error {
	if name == "" {
		return fmt.Errorf("empty file path")
	}

	if filepath.IsAbs(name) {
		return fmt.Errorf("absolute paths are not allowed: %s", name)
	}

	for _, part := range strings.FieldsFunc(name, isSeparator) {
		if part == ".." {
			return fmt.Errorf("file path contains directory traversal (..) - not allowed: %s", name)
		}
	}

	return ValidateWithin(filepath.Join(baseDir, name), baseDir)
}

// ValidateWithin checks that path resolves to baseDir or somewhere below it.
func ValidateWithin(path, baseDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	absBase, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return fmt.Errorf("invalid base directory: %w", err)
	}

	if absPath != absBase && !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path %s would escape %s", path, baseDir)
	}

	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// LimitedReader wraps an io.Reader and fails once more than Remaining bytes
// have been requested.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, ErrSizeLimit
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}

// ReadFileLimited reads a whole file, failing if it is larger than maxBytes.
func ReadFileLimited(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 - Caller validates the path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// One byte of slack so a file of exactly maxBytes still reaches EOF.
	data, err := io.ReadAll(NewLimitedReader(f, maxBytes+1))
	if errors.Is(err, ErrSizeLimit) {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrSizeLimit, maxBytes)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
