package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/scene"
)

func TestLayoutPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"scene.json", "scene.layout.json"},
		{"dir/scene.toml", "dir/scene.layout.json"},
		{"scene.yaml", "scene.layout.json"},
		{"noext", "noext.layout.json"},
	}
	for _, tt := range tests {
		if got := layoutPath(tt.in); got != tt.want {
			t.Errorf("layoutPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceCommand(t *testing.T) {
	c, dir := newTestCLI(t)
	path := writeFile(t, dir, "scene.json", sceneJSON)

	if _, err := execute(t, c, "place", path); err != nil {
		t.Fatalf("place: %v", err)
	}

	out := filepath.Join(dir, "scene.layout.json")
	res, err := scene.ReadResultFile(out)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(res.Placements) != 4 {
		t.Errorf("placements = %d, want 4", len(res.Placements))
	}
	if res.Seed != 11 {
		t.Errorf("seed = %d, want 11", res.Seed)
	}

	// Placing again reuses the cached layout byte for byte.
	first, _ := os.ReadFile(out)
	if _, err := execute(t, c, "place", path); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(out)
	if !bytes.Equal(first, second) {
		t.Error("seeded scene should produce an identical layout file")
	}
}

func TestPlaceSeedOverride(t *testing.T) {
	c, dir := newTestCLI(t)
	path := writeFile(t, dir, "scene.json", sceneJSON)
	out := filepath.Join(dir, "custom.json")

	if _, err := execute(t, c, "place", path, "--seed", "99", "-o", out); err != nil {
		t.Fatalf("place: %v", err)
	}
	res, err := scene.ReadResultFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed != 99 {
		t.Errorf("seed = %d, want 99", res.Seed)
	}
}

func TestPlaceTOMLScene(t *testing.T) {
	c, dir := newTestCLI(t)
	path := writeFile(t, dir, "scene.toml", `seed = 3

[container]
height = 80
width = 80

[[items]]
id = "x"
size = { height = 10, width = 10 }

[[items]]
id = "y"
size = { height = 10, width = 10 }
`)

	if _, err := execute(t, c, "place", path, "--no-cache"); err != nil {
		t.Fatalf("place: %v", err)
	}
	res, err := scene.ReadResultFile(filepath.Join(dir, "scene.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Find("y"); !ok {
		t.Error("missing item y")
	}
}

func TestPlaceErrors(t *testing.T) {
	c, dir := newTestCLI(t)

	_, err := execute(t, c, "place", filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing scene error = %v, want FILE_NOT_FOUND", err)
	}

	dup := strings.Replace(sceneJSON, `"id": "b"`, `"id": "a"`, 1)
	path := writeFile(t, dir, "dup.json", dup)
	if _, err := execute(t, c, "place", path); !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("duplicate id error = %v, want INVALID_SCENE", err)
	}

	path = writeFile(t, dir, "ok.json", sceneJSON)
	if _, err := execute(t, c, "place", path, "--growth-factor", "0.9"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad growth factor error = %v, want INVALID_CONFIG", err)
	}
}
