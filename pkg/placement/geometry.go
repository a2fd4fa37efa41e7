package placement

import "fmt"

// Size is the extent of a rectangle. Both dimensions are non-negative.
type Size struct {
	Height float64 `json:"height" toml:"height" yaml:"height"`
	Width  float64 `json:"width" toml:"width" yaml:"width"`
}

// Point is a position in container coordinates, measured from the top-left
// corner.
type Point struct {
	Top  float64 `json:"top" toml:"top" yaml:"top"`
	Left float64 `json:"left" toml:"left" yaml:"left"`
}

// Scale holds per-axis multiplicative factors.
type Scale struct {
	Top  float64
	Left float64
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Uniform returns a scale with the same factor on both axes.
func Uniform(f float64) Scale { return Scale{Top: f, Left: f} }

// Half returns the half-extent of s.
func (s Size) Half() Size { return Size{Height: s.Height / 2, Width: s.Width / 2} }

// Max returns the component-wise maximum of s and o.
func (s Size) Max(o Size) Size {
	return Size{Height: max(s.Height, o.Height), Width: max(s.Width, o.Width)}
}

// Min returns the component-wise minimum of s and o.
func (s Size) Min(o Size) Size {
	return Size{Height: min(s.Height, o.Height), Width: min(s.Width, o.Width)}
}

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.Height, s.Width) }

// Add returns p translated by s.
func (p Point) Add(s Size) Point { return Point{Top: p.Top + s.Height, Left: p.Left + s.Width} }

// Sub returns p translated by -s.
func (p Point) Sub(s Size) Point { return Point{Top: p.Top - s.Height, Left: p.Left - s.Width} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.Top, p.Left) }

// Size returns the extent of the box.
func (b Bounds) Size() Size {
	return Size{Height: b.Max.Top - b.Min.Top, Width: b.Max.Left - b.Min.Left}
}
