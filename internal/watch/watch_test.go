package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestWatcher_Affected(t *testing.T) {
	w := New([]Target{
		{Name: "art", Path: "/src/art"},
		{Name: "convert", Path: "/src/art"},
		{Name: "palette", Path: "/src/branding/logo.png"},
		{Name: "music", Path: "/src/productions"},
	}, time.Millisecond, nil, nil)

	tests := []struct {
		path string
		want []string
	}{
		{"/src/art/sub/a.png", []string{"art", "convert"}},
		{"/src/branding/logo.png", []string{"palette"}},
		{"/src/branding/other.png", nil},
		{"/src/productions-melotations/a.pdf", nil},
		{"/src/productions/embeds.html", []string{"music"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := w.Affected(filepath.FromSlash(tt.path))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Affected(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcher_RunDebouncesRebuilds(t *testing.T) {
	dir := t.TempDir()
	art := filepath.Join(dir, "art")
	if err := os.MkdirAll(art, 0o755); err != nil {
		t.Fatal(err)
	}

	rebuilt := make(chan []string, 10)
	w := New([]Target{{Name: "art", Path: art}}, 100*time.Millisecond,
		func(_ context.Context, names []string) error {
			rebuilt <- names
			return nil
		}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register its directories.
	time.Sleep(200 * time.Millisecond)
	for i := range 3 {
		name := filepath.Join(art, "img"+string(rune('a'+i))+".png")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case names := <-rebuilt:
		if !reflect.DeepEqual(names, []string{"art"}) {
			t.Errorf("unexpected rebuild targets %v", names)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild triggered")
	}

	select {
	case names := <-rebuilt:
		t.Errorf("burst of writes should trigger one rebuild, got another for %v", names)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWatcher_FileTargetSurvivesAtomicSaves(t *testing.T) {
	dir := t.TempDir()
	branding := filepath.Join(dir, "branding")
	if err := os.MkdirAll(branding, 0o755); err != nil {
		t.Fatal(err)
	}
	logo := filepath.Join(branding, "logo.png")
	if err := os.WriteFile(logo, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	rebuilt := make(chan []string, 10)
	w := New([]Target{{Name: "palette", Path: logo}}, 100*time.Millisecond,
		func(_ context.Context, names []string) error {
			rebuilt <- names
			return nil
		}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(200 * time.Millisecond)

	save := func(content string) {
		t.Helper()
		tmp := filepath.Join(branding, ".logo.png.tmp")
		if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, logo); err != nil {
			t.Fatal(err)
		}
	}

	for i, content := range []string{"v1", "v2"} {
		save(content)
		select {
		case names := <-rebuilt:
			if !reflect.DeepEqual(names, []string{"palette"}) {
				t.Errorf("save %d: unexpected rebuild targets %v", i+1, names)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("save %d: no rebuild triggered", i+1)
		}
	}

	if err := os.WriteFile(filepath.Join(branding, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case names := <-rebuilt:
		t.Errorf("sibling file change triggered rebuild of %v", names)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
