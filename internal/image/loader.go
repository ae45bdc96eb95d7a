// Package image provides utilities for loading, resizing and encoding images.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "github.com/gen2brain/avif" // Register AVIF format
	_ "github.com/gen2brain/heic" // Register HEIC format
	_ "golang.org/x/image/bmp"    // Register BMP format
	_ "golang.org/x/image/tiff"   // Register TIFF format
	_ "golang.org/x/image/webp"   // Register WebP format
)

// ErrImageNotFound is wrapped by Load when the source file does not exist.
var ErrImageNotFound = errors.New("image file not found")

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF, HEIC, AVIF.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}

// GetImageDimensions returns the width and height of an image without fully loading it.
func GetImageDimensions(path string) (width, height int, err error) {
	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}

	return config.Width, config.Height, nil
}

// WebImageExtensions returns the extensions published as gallery images.
func WebImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".webp"}
}

// IsWebImage checks if a file has a gallery image extension, ignoring case.
func IsWebImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(WebImageExtensions(), ext)
}

// IsHEIC checks if a file has a .heic extension, ignoring case.
func IsHEIC(path string) bool {
	return strings.HasSuffix(strings.ToUpper(path), ".HEIC")
}

// ScanDirectoryForImages lists the gallery images directly inside dirPath,
// sorted by name. It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}

		if IsWebImage(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	slices.Sort(imageFiles)
	return imageFiles, nil
}
