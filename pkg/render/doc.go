// Package render draws placement results.
//
// Three output formats are supported:
//
//   - svg: a vector drawing with one rect per placement, see [SVG]
//   - png: a raster drawing made with fogleman/gg, see [PNG]
//   - json: the result itself, indented, see [JSON]
//
// All formats share the same [Option] set, so a render request can be
// expressed once and fanned out:
//
//	for _, f := range render.Formats {
//	    data, err := render.Render(result, f, render.WithScale(2))
//	    ...
//	}
//
// Fixed obstacles are drawn in grey, placed items in a rotating palette.
// When the container reached its maximum size, the frame is drawn dashed to
// signal that items may overlap.
package render
