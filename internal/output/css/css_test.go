package css

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdime/folio/internal/colour"
)

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}
	return string(data)
}

func TestGenerate_Golden(t *testing.T) {
	tests := []struct {
		name    string
		palette *colour.Palette
		golden  string
	}{
		{
			name: "full palette",
			palette: &colour.Palette{
				Chromatic: []colour.ColourCount{
					{Colour: colour.RGB{R: 200, G: 175, B: 153}, Count: 100},
					{Colour: colour.RGB{R: 202, G: 52, B: 52}, Count: 50},
				},
				Grayscale: []colour.ColourCount{
					{Colour: colour.RGB{R: 100, G: 100, B: 100}, Count: 20},
				},
			},
			golden: "full.css.golden",
		},
		{
			name:    "empty palette",
			palette: &colour.Palette{},
			golden:  "empty.css.golden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator("Perry Dime", "", DefaultColours, nil)
			got, err := g.Generate("source/branding/perrydime-logo.png", tt.palette)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if want := readGolden(t, tt.golden); string(got) != want {
				t.Errorf("Generate() mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}

func TestGenerate_CapsColours(t *testing.T) {
	p := &colour.Palette{}
	for i := range 8 {
		p.Chromatic = append(p.Chromatic, colour.ColourCount{Colour: colour.RGB{R: uint8(30 * i), B: 200}, Count: 10 - i})
	}

	got, err := NewGenerator("Perry Dime", "", 0, nil).Generate("logo.png", p)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := string(got)
	if !strings.Contains(out, "--color-primary-5:") {
		t.Error("expected five primary colours")
	}
	if strings.Contains(out, "--color-primary-6:") {
		t.Error("expected at most five primary colours")
	}
}

func TestGenerate_TextOnLightBrand(t *testing.T) {
	p := &colour.Palette{
		Chromatic: []colour.ColourCount{{Colour: colour.RGB{R: 250, G: 230, B: 120}, Count: 1}},
	}

	got, err := NewGenerator("Perry Dime", "", DefaultColours, nil).Generate("logo.png", p)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(got), "--color-text-on-brand: #000000;") {
		t.Error("expected black text on a light brand colour")
	}
}

func TestGenerate_CustomTemplate(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, TemplateGroup, TemplateName)
	if err := os.MkdirAll(filepath.Dir(custom), 0o755); err != nil {
		t.Fatal(err)
	}
	tmpl := "{{range .Primary}}{{.Index}}={{hex .Colour}};{{end}}"
	if err := os.WriteFile(custom, []byte(tmpl), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &colour.Palette{Chromatic: []colour.ColourCount{{Colour: colour.RGB{R: 1, G: 2, B: 3}, Count: 1}}}
	got, err := NewGenerator("Perry Dime", dir, DefaultColours, nil).Generate("logo.png", p)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(got) != "1=#010203;" {
		t.Errorf("Generate() = %q", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	g := NewGenerator("Perry Dime", "", DefaultColours, nil)
	if _, err := g.Generate("logo.png", nil); err == nil {
		t.Error("expected error for nil palette")
	}

	dir := t.TempDir()
	custom := filepath.Join(dir, TemplateGroup, TemplateName)
	if err := os.MkdirAll(filepath.Dir(custom), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(custom, []byte("{{.Missing"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewGenerator("Perry Dime", dir, DefaultColours, nil).Generate("logo.png", &colour.Palette{}); err == nil {
		t.Error("expected parse error for a broken custom template")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets", "css", "variables.css")
	if err := Write(path, []byte(":root {}")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != ":root {}" {
		t.Errorf("read back %q, err %v", data, err)
	}
}
