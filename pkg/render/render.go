package render

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/scene"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON}

// ValidateFormat rejects unknown output formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}

// Options holds render settings.
type Options struct {
	// Scale multiplies every coordinate. Default: 1.
	Scale float64 `json:"scale"`

	// Labels draws placement IDs inside their rects.
	Labels bool `json:"labels"`
}

// Option configures rendering.
type Option func(*Options)

// WithScale sets the scale factor.
func WithScale(s float64) Option { return func(o *Options) { o.Scale = s } }

// WithLabels toggles placement labels.
func WithLabels(on bool) Option { return func(o *Options) { o.Labels = on } }

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{Scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.Scale > 0) {
		o.Scale = 1
	}
	return o
}

// Render produces one format.
func Render(res *scene.Result, format string, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return SVG(res, opts...), nil
	case FormatPNG:
		return PNG(res, opts...)
	case FormatJSON:
		return JSON(res)
	}
	return nil, ValidateFormat(format)
}

// JSON encodes the result as indented JSON.
func JSON(res *scene.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return append(data, '\n'), nil
}

type rgb struct{ r, g, b uint8 }

func (c rgb) hex() string { return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b) }

func (c rgb) float() (float64, float64, float64) {
	return float64(c.r) / 255, float64(c.g) / 255, float64(c.b) / 255
}

var (
	frameColor = rgb{0x33, 0x33, 0x33}
	fixedColor = rgb{0xbb, 0xbb, 0xbb}
	textColor  = rgb{0x22, 0x22, 0x22}
	palette    = []rgb{
		{0x8e, 0xc0, 0xe4},
		{0xf4, 0xb6, 0x8a},
		{0xa8, 0xd8, 0xa0},
		{0xe4, 0xa8, 0xd0},
		{0xf2, 0xe2, 0x8c},
		{0xb8, 0xae, 0xe8},
	}
)

// fillFor picks the fill of the i-th non-fixed placement.
func fillFor(p scene.Placement, i int) rgb {
	if p.Fixed {
		return fixedColor
	}
	return palette[i%len(palette)]
}
