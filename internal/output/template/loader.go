// Package template loads embedded page and stylesheet templates, preferring
// custom overrides from the site's templates directory.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// ErrCustomExists is returned by DumpTemplate when an override is already in place.
var ErrCustomExists = errors.New("custom template already exists")

// Loader reads templates for one group (for example "css" or "site").
// Overrides live in {customBase}/{group}/{filename}; anything not overridden
// comes from the embedded filesystem.
type Loader struct {
	group      string
	embedFS    fs.FS
	customBase string
	logger     hclog.Logger
}

// New creates a loader for group backed by embedFS. Overrides are looked up
// under customBase; an empty customBase disables them.
func New(group string, embedFS fs.FS, customBase string) *Loader {
	return &Loader{
		group:      group,
		embedFS:    embedFS,
		customBase: customBase,
		logger:     hclog.NewNullLogger(),
	}
}

// WithLogger sets the logger used to report which template source was chosen.
func (l *Loader) WithLogger(logger hclog.Logger) *Loader {
	if logger != nil {
		l.logger = logger.Named("template")
	}
	return l
}

// Load reads a template file, checking for a custom override first.
// It reports whether the content came from an override.
func (l *Loader) Load(filename string) (content []byte, fromCustom bool, err error) {
	if l.customBase != "" {
		customPath := l.CustomPath(filename)
		if content, err := os.ReadFile(customPath); err == nil { // #nosec G304 - Override path under the configured templates directory
			l.logger.Debug("using custom template", "path", customPath)
			return content, true, nil
		}
	}

	l.logger.Debug("using embedded template", "group", l.group, "name", filename)

	content, err = fs.ReadFile(l.embedFS, filename)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load template %q: %w", filename, err)
	}

	return content, false, nil
}

// CustomPath returns the path where an override for filename would be located.
func (l *Loader) CustomPath(filename string) string {
	return filepath.Join(l.customBase, l.group, filename)
}

// CustomDir returns the directory holding overrides for this group.
func (l *Loader) CustomDir() string {
	return filepath.Join(l.customBase, l.group)
}

// HasCustomTemplate checks if an override exists for filename.
func (l *Loader) HasCustomTemplate(filename string) bool {
	if l.customBase == "" {
		return false
	}
	_, err := os.Stat(l.CustomPath(filename))
	return err == nil
}

// ListEmbeddedTemplates returns every embedded .tmpl file, in lexical order.
func (l *Loader) ListEmbeddedTemplates() ([]string, error) {
	var templates []string

	err := fs.WalkDir(l.embedFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".tmpl" {
			templates = append(templates, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded templates: %w", err)
	}

	return templates, nil
}

// DumpTemplate writes an embedded template to the override directory.
// Without force an existing override is left untouched and ErrCustomExists
// is returned.
func (l *Loader) DumpTemplate(filename string, force bool) error {
	content, err := fs.ReadFile(l.embedFS, filename)
	if err != nil {
		return fmt.Errorf("failed to read embedded template %q: %w", filename, err)
	}

	outputPath := l.CustomPath(filename)

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrCustomExists, outputPath)
		}
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil { // #nosec G301 - Template directories need standard permissions
		return fmt.Errorf("failed to create directory %q: %w", outputDir, err)
	}

	if err := os.WriteFile(outputPath, content, 0o644); err != nil { // #nosec G306 - Templates are not sensitive
		return fmt.Errorf("failed to write template to %q: %w", outputPath, err)
	}

	return nil
}

// DumpAllTemplates writes every embedded template to the override directory
// and returns the paths written. Without force, existing overrides are left
// alone and returned as kept.
func (l *Loader) DumpAllTemplates(force bool) (dumped, kept []string, err error) {
	templates, err := l.ListEmbeddedTemplates()
	if err != nil {
		return nil, nil, err
	}

	for _, tmpl := range templates {
		if err := l.DumpTemplate(tmpl, force); err != nil {
			if errors.Is(err, ErrCustomExists) {
				kept = append(kept, l.CustomPath(tmpl))
				continue
			}
			return dumped, kept, err
		}
		dumped = append(dumped, l.CustomPath(tmpl))
	}
	return dumped, kept, nil
}

// TemplateInfo describes where a template would be loaded from.
type TemplateInfo struct {
	Filename       string
	EmbeddedExists bool
	CustomExists   bool
	CustomPath     string
}

// GetInfo returns information about a specific template.
func (l *Loader) GetInfo(filename string) TemplateInfo {
	_, embeddedErr := fs.Stat(l.embedFS, filename)
	return TemplateInfo{
		Filename:       filename,
		EmbeddedExists: embeddedErr == nil,
		CustomExists:   l.HasCustomTemplate(filename),
		CustomPath:     l.CustomPath(filename),
	}
}
