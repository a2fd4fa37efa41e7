package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/scene"
)

func testResult() *scene.Result {
	return &scene.Result{
		ID:        "run-1",
		Container: placement.Size{Height: 100, Width: 120},
		Placements: []scene.Placement{
			{ID: "title", Top: 40, Left: 30, Height: 20, Width: 60, Fixed: true},
			{ID: "a<b>", Top: 5, Left: 5, Height: 20, Width: 20},
			{ID: "c", Top: 70, Left: 90, Height: 20, Width: 20},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		FormatJSON: "application/json",
	}
	for f, want := range tests {
		if got := ContentType(f); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", f, got, want)
		}
	}
}

func TestNewOptions(t *testing.T) {
	if o := NewOptions(); o.Scale != 1 || o.Labels {
		t.Errorf("NewOptions() = %+v", o)
	}
	if o := NewOptions(WithScale(-2)); o.Scale != 1 {
		t.Errorf("negative scale should fall back to 1, got %v", o.Scale)
	}
	if o := NewOptions(WithScale(2), WithLabels(true)); o.Scale != 2 || !o.Labels {
		t.Errorf("NewOptions(2, labels) = %+v", o)
	}
}

func TestSVG(t *testing.T) {
	svg := string(SVG(testResult(), WithLabels(true), WithScale(2)))

	for _, want := range []string{
		`viewBox="0 0 240.0 200.0"`,
		`class="fixed" x="60.00" y="80.00" width="120.00" height="40.00"`,
		`id="p-a&lt;b&gt;"`,
		`>a&lt;b&gt;</text>`,
		`fill="#bbbbbb"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "stroke-dasharray") {
		t.Error("frame should be solid below max size")
	}
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("rect count = %d, want 4", got)
	}
}

func TestSVGAtMaxSize(t *testing.T) {
	res := testResult()
	res.AtMaxSize = true
	if !bytes.Contains(SVG(res), []byte("stroke-dasharray")) {
		t.Error("frame should be dashed at max size")
	}
	if bytes.Contains(SVG(res), []byte("<text")) {
		t.Error("labels are off by default")
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(testResult(), WithScale(0.5), WithLabels(true))
	if err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 50 {
		t.Errorf("image size = %dx%d, want 60x50", b.Dx(), b.Dy())
	}
}

func TestPNGRejectsHugeCanvas(t *testing.T) {
	res := testResult()
	res.Container = placement.Size{Height: 1000, Width: 1000}
	if _, err := PNG(res, WithScale(10)); err == nil {
		t.Error("PNG() should refuse a 10000px canvas")
	}
	res.Container = placement.Size{}
	if _, err := PNG(res); err == nil {
		t.Error("PNG() should refuse an empty canvas")
	}
}

func TestRender(t *testing.T) {
	for _, f := range Formats {
		t.Run(f, func(t *testing.T) {
			data, err := Render(testResult(), f)
			if err != nil {
				t.Fatalf("Render(%s) error: %v", f, err)
			}
			if len(data) == 0 {
				t.Error("empty output")
			}
		})
	}
	if _, err := Render(testResult(), "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(testResult())
	if err != nil {
		t.Fatal(err)
	}
	var back scene.Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != "run-1" || len(back.Placements) != 3 {
		t.Errorf("JSON() = %+v", back)
	}
}
