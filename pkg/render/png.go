package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/benreynwar/veifa/pkg/scene"
)

// maxPixels bounds the PNG canvas edge.
const maxPixels = 8192

// PNG rasterizes the result.
func PNG(res *scene.Result, opts ...Option) ([]byte, error) {
	o := NewOptions(opts...)
	s := o.Scale
	w := int(math.Ceil(res.Container.Width * s))
	h := int(math.Ceil(res.Container.Height * s))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png: empty canvas %dx%d", w, h)
	}
	if w > maxPixels || h > maxPixels {
		return nil, fmt.Errorf("png: canvas %dx%d exceeds %d pixels per edge", w, h, maxPixels)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	item := 0
	for _, p := range res.Placements {
		fill := fillFor(p, item)
		if !p.Fixed {
			item++
		}
		r, g, b := fill.float()
		dc.SetRGBA(r, g, b, 0.85)
		dc.DrawRectangle(p.Left*s, p.Top*s, p.Width*s, p.Height*s)
		dc.FillPreserve()
		dc.SetRGB(frameColor.float())
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	if o.Labels {
		dc.SetRGB(textColor.float())
		for _, p := range res.Placements {
			dc.DrawStringAnchored(p.ID, (p.Left+p.Width/2)*s, (p.Top+p.Height/2)*s, 0.5, 0.5)
		}
	}

	dc.SetRGB(frameColor.float())
	dc.SetLineWidth(2)
	if res.AtMaxSize {
		dc.SetDash(6, 4)
	}
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}
	return buf.Bytes(), nil
}
