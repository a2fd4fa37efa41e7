package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/benreynwar/veifa/pkg/errors"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		base   string
		format string
		n      int
		want   string
	}{
		{"default", "", "out/scene", "svg", 1, "out/scene.svg"},
		{"single explicit", "pic.svg", "scene", "svg", 1, "pic.svg"},
		{"multiple base", "pic.svg", "scene", "png", 2, "pic.png"},
		{"multiple no ext", "pic", "scene", "json", 3, "pic.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.base, tt.format, tt.n); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderScene(t *testing.T) {
	c, dir := newTestCLI(t)
	path := writeFile(t, dir, "scene.json", sceneJSON)

	if _, err := execute(t, c, "render", path, "-f", "svg,png"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "scene.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Error("scene.svg is not an SVG")
	}
	if !bytes.Contains(svg, []byte(">title<")) {
		t.Error("labels should be drawn by default")
	}
	png, err := os.ReadFile(filepath.Join(dir, "scene.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("scene.png is not a PNG")
	}
}

func TestRenderLayoutFile(t *testing.T) {
	c, dir := newTestCLI(t)
	path := writeFile(t, dir, "scene.json", sceneJSON)
	if _, err := execute(t, c, "place", path); err != nil {
		t.Fatal(err)
	}

	layout := filepath.Join(dir, "scene.layout.json")
	out := filepath.Join(dir, "final.svg")
	if _, err := execute(t, c, "render", layout, "-o", out, "--labels=false"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(svg, []byte(">title<")) {
		t.Error("--labels=false should omit labels")
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	c, dir := newTestCLI(t)
	path := writeFile(t, dir, "scene.json", sceneJSON)

	_, err := execute(t, c, "render", path, "-f", "pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f pdf error = %v, want INVALID_FORMAT", err)
	}
}
