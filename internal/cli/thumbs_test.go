package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/scene"
	"github.com/benreynwar/veifa/pkg/thumbs"
)

const documentJSON = `{
  "format": "veifatext 0.1",
  "pages": ["[[little red]] met a [[wolf]]."],
  "annotated_items": {
    "little red": [
      {"type": "text", "thumbtext": "LRRH", "content": "The heroine."},
      {"type": "text", "thumbtext": "", "content": ""},
      {"type": "youtube", "code": "abc123", "caption": "trailer"}
    ]
  }
}`

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"little red", "little_red"},
		{"wolf", "wolf"},
		{"a/b:c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestThumbsCommand(t *testing.T) {
	c, dir := newTestCLI(t)
	doc := writeFile(t, dir, "story.json", documentJSON)

	if _, err := execute(t, c, "thumbs", doc, "little red", "-f", "svg"); err != nil {
		t.Fatalf("thumbs: %v", err)
	}

	out := filepath.Join(dir, "little_red.thumbs.json")
	res, err := scene.ReadResultFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Find(thumbs.TitleID); !ok {
		t.Error("layout missing title")
	}
	// The empty annotation gets no thumb.
	if _, ok := res.Find(thumbs.ThumbID(1)); ok {
		t.Error("empty annotation should not be placed")
	}
	for _, id := range []string{thumbs.ThumbID(0), thumbs.ThumbID(2)} {
		if _, ok := res.Find(id); !ok {
			t.Errorf("missing %s", id)
		}
	}
	if res.Container.Height < 100 || res.Container.Width < 100 {
		t.Errorf("container = %s, want at least 100x100", res.Container)
	}
	if _, err := os.Stat(filepath.Join(dir, "little_red.thumbs.svg")); err != nil {
		t.Errorf("svg not written: %v", err)
	}
}

func TestThumbsErrors(t *testing.T) {
	c, dir := newTestCLI(t)
	doc := writeFile(t, dir, "story.json", documentJSON)

	if _, err := execute(t, c, "thumbs", doc, "wolf"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown item error = %v, want NOT_FOUND", err)
	}
	if _, err := execute(t, c, "thumbs", filepath.Join(dir, "none.json"), "x"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing document error = %v, want FILE_NOT_FOUND", err)
	}
	bad := writeFile(t, dir, "bad.json", `{"format": "other 1.0"}`)
	if _, err := execute(t, c, "thumbs", bad, "x"); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("bad format error = %v, want INVALID_DOCUMENT", err)
	}
}
