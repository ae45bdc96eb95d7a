package security

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateRelativePath(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain file", "cover.jpg", false},
		{"nested file", "covers/front.png", false},
		{"dotted name", "my..cover.png", false},
		{"empty", "", true},
		{"parent traversal", "../secret.txt", true},
		{"nested traversal", "covers/../../secret.txt", true},
		{"windows traversal", `..\secret.txt`, true},
		{"absolute", filepath.Join(base, "x.png"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelativePath(tt.path, base)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelativePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWithin(t *testing.T) {
	base := t.TempDir()

	if err := ValidateWithin(base, base); err != nil {
		t.Errorf("base itself should be within base: %v", err)
	}
	if err := ValidateWithin(filepath.Join(base, "a", "b"), base); err != nil {
		t.Errorf("child should be within base: %v", err)
	}
	if err := ValidateWithin(filepath.Dir(base), base); err == nil {
		t.Error("parent should not be within base")
	}
	if err := ValidateWithin(base+"-sibling", base); err == nil {
		t.Error("sibling with shared prefix should not be within base")
	}
}

func TestLimitedReader(t *testing.T) {
	r := NewLimitedReader(strings.NewReader("hello world"), 5)

	data, err := io.ReadAll(r)
	if !errors.Is(err, ErrSizeLimit) {
		t.Errorf("expected ErrSizeLimit, got %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("read %q, want hello", data)
	}
}

func TestReadFileLimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	if data, err := ReadFileLimited(path, 10); err != nil || string(data) != "0123456789" {
		t.Errorf("exact size: data %q, err %v", data, err)
	}
	if _, err := ReadFileLimited(path, 9); !errors.Is(err, ErrSizeLimit) {
		t.Errorf("oversized: expected ErrSizeLimit, got %v", err)
	}
	if _, err := ReadFileLimited(filepath.Join(dir, "missing"), 10); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing: expected ErrNotExist, got %v", err)
	}
}
