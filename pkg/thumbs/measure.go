package thumbs

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/benreynwar/veifa/pkg/annotation"
	"github.com/benreynwar/veifa/pkg/placement"
)

// Measurer sizes thumbs and titles.
type Measurer interface {
	MeasureThumb(t annotation.Thumb) placement.Size
	MeasureTitle(title string) placement.Size
}

// FixedMeasurer estimates sizes from character counts, for use where no
// real text layout is available.
type FixedMeasurer struct {
	CharWidth  float64
	LineHeight float64
	Padding    float64

	// MaxWidth wraps text thumbs onto further lines.
	MaxWidth float64

	// ImageSize is used for every image thumb.
	ImageSize placement.Size
}

// DefaultMeasurer approximates a 12px sans-serif font and YouTube's
// 120x90 stills.
func DefaultMeasurer() FixedMeasurer {
	return FixedMeasurer{
		CharWidth:  7,
		LineHeight: 16,
		Padding:    8,
		MaxWidth:   160,
		ImageSize:  placement.Size{Height: 90, Width: 120},
	}
}

// MeasureThumb sizes an image thumb as ImageSize and a text thumb by its
// wrapped line count.
func (m FixedMeasurer) MeasureThumb(t annotation.Thumb) placement.Size {
	if t.ImageURL != "" {
		return m.ImageSize
	}
	return m.text(t.Text)
}

// MeasureTitle sizes a title as a single line of text.
func (m FixedMeasurer) MeasureTitle(title string) placement.Size {
	w := float64(utf8.RuneCountInString(title))*m.CharWidth + 2*m.Padding
	return placement.Size{Height: m.LineHeight + 2*m.Padding, Width: w}
}

func (m FixedMeasurer) text(s string) placement.Size {
	inner := m.MaxWidth - 2*m.Padding
	var lines, widest float64
	for _, line := range strings.Split(s, "\n") {
		w := float64(utf8.RuneCountInString(line)) * m.CharWidth
		n := 1.0
		if inner > 0 && w > inner {
			n = math.Ceil(w / inner)
			w = inner
		}
		lines += n
		widest = max(widest, w)
	}
	return placement.Size{
		Height: lines*m.LineHeight + 2*m.Padding,
		Width:  widest + 2*m.Padding,
	}
}
