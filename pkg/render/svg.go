package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/benreynwar/veifa/pkg/scene"
)

// SVG draws the result as an SVG document.
func SVG(res *scene.Result, opts ...Option) []byte {
	o := NewOptions(opts...)
	s := o.Scale
	w, h := res.Container.Width*s, res.Container.Height*s

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)

	dash := ""
	if res.AtMaxSize {
		dash = ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(&buf, `  <rect class="container" x="0" y="0" width="%.2f" height="%.2f" fill="white" stroke="%s" stroke-width="2"%s/>`+"\n",
		w, h, frameColor.hex(), dash)

	item := 0
	for _, p := range res.Placements {
		fill := fillFor(p, item)
		class := "item"
		if p.Fixed {
			class = "fixed"
		} else {
			item++
		}
		fmt.Fprintf(&buf, `  <rect id="%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.85" stroke="%s"/>`+"\n",
			escapeXML("p-"+p.ID), class, p.Left*s, p.Top*s, p.Width*s, p.Height*s, fill.hex(), frameColor.hex())
	}

	if o.Labels {
		for _, p := range res.Placements {
			cx, cy := (p.Left+p.Width/2)*s, (p.Top+p.Height/2)*s
			fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
				cx, cy, 12*s, textColor.hex(), escapeXML(p.ID))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
