// Package watch rebuilds parts of the site when source files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// Target ties a source path to the name of the build step it feeds.
type Target struct {
	Name string
	Path string
}

// RebuildFunc rebuilds the named steps.
type RebuildFunc func(ctx context.Context, names []string) error

// Watcher monitors source trees and triggers debounced rebuilds.
type Watcher struct {
	targets  []Target
	debounce time.Duration
	rebuild  RebuildFunc
	logger   hclog.Logger
}

// New creates a watcher. Changes below a target's path mark that target for
// rebuild once no further events arrive for the debounce interval.
func New(targets []Target, debounce time.Duration, rebuild RebuildFunc, logger hclog.Logger) *Watcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Watcher{
		targets:  targets,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logger.Named("watch"),
	}
}

// Affected returns the names of targets whose path contains file, sorted and
// without duplicates.
func (w *Watcher) Affected(file string) []string {
	var names []string
	for _, t := range w.targets {
		if within(file, t.Path) && !slices.Contains(names, t.Name) {
			names = append(names, t.Name)
		}
	}
	slices.Sort(names)
	return names
}

func within(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	for _, t := range w.targets {
		if err := w.add(fsw, t.Path); err != nil {
			return err
		}
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.add(fsw, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			names := w.Affected(event.Name)
			if len(names) == 0 {
				continue
			}
			w.logger.Debug("change", "op", event.Op.String(), "path", event.Name, "targets", names)
			for _, n := range names {
				pending[n] = true
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			slices.Sort(names)
			clear(pending)

			w.logger.Info("rebuilding", "targets", names)
			if err := w.rebuild(ctx, names); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}
		}
	}
}

// add watches path and, for a directory, every directory below it. A file
// is watched through its parent directory so replacing it by rename keeps
// the watch alive; Affected filters out its siblings. A path whose parent
// does not exist is skipped.
func (w *Watcher) add(fsw *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		parent := filepath.Dir(path)
		if pinfo, perr := os.Stat(parent); perr != nil || !pinfo.IsDir() {
			w.logger.Warn("not watching missing path", "path", path)
			return nil
		}
		return w.watchOne(fsw, parent)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watchOne(fsw, p)
	})
}

func (w *Watcher) watchOne(fsw *fsnotify.Watcher, path string) error {
	if slices.Contains(fsw.WatchList(), path) {
		return nil
	}
	if err := fsw.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.logger.Debug("watching", "path", path)
	return nil
}
