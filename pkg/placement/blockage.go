package placement

import "fmt"

// Surface receives the on-screen position of a blockage. Implementations
// wrap whatever visual element the blockage stands for.
type Surface interface {
	MoveTo(topLeft Point)
}

// Blockage is a positioned rectangle used as a collision obstacle.
//
// The size is fixed at construction. The center changes through
// [Blockage.PositionAt] and [Blockage.ShiftBy]; bounds are computed from the
// center on every read.
type Blockage struct {
	center  Point
	size    Size
	surface Surface
}

// NewBlockage creates a blockage centered at center. The surface may be nil
// when nothing needs to be kept in sync.
func NewBlockage(center Point, size Size, surface Surface) *Blockage {
	return &Blockage{center: center, size: size, surface: surface}
}

// Center returns the current center.
func (b *Blockage) Center() Point { return b.center }

// Size returns the fixed extent.
func (b *Blockage) Size() Size { return b.size }

// Surface returns the wrapped surface, or nil.
func (b *Blockage) Surface() Surface { return b.surface }

// Min returns the top-left corner.
func (b *Blockage) Min() Point { return b.center.Sub(b.size.Half()) }

// Max returns the bottom-right corner.
func (b *Blockage) Max() Point { return b.center.Add(b.size.Half()) }

// Bounds returns the bounding box.
func (b *Blockage) Bounds() Bounds { return Bounds{Min: b.Min(), Max: b.Max()} }

// FitsIn reports whether the blockage lies strictly inside a container of
// size c. A blockage flush against an edge does not fit.
func (b *Blockage) FitsIn(c Size) bool {
	lo, hi := b.Min(), b.Max()
	return lo.Top > 0 && lo.Left > 0 && hi.Top < c.Height && hi.Left < c.Width
}

// PositionAt moves the blockage so that its top-left corner is at topLeft.
func (b *Blockage) PositionAt(topLeft Point) {
	b.center = topLeft.Add(b.size.Half())
}

// ShiftBy re-centers the blockage proportionally to its distance from the
// origin: each center coordinate c becomes c + c*(factor-1).
func (b *Blockage) ShiftBy(s Scale) {
	b.center.Top += b.center.Top * (s.Top - 1)
	b.center.Left += b.center.Left * (s.Left - 1)
}

// Overlaps reports whether the two blockages intersect on both axes.
// Touching edges do not count.
func (b *Blockage) Overlaps(o *Blockage) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := o.Min(), o.Max()
	top := bMax.Top > oMin.Top && bMin.Top < oMax.Top
	left := bMax.Left > oMin.Left && bMin.Left < oMax.Left
	return top && left
}

// Apply pushes the current top-left corner to the surface.
func (b *Blockage) Apply() {
	if b.surface != nil {
		b.surface.MoveTo(b.Min())
	}
}

func (b *Blockage) String() string {
	return fmt.Sprintf("Blockage{center=%s size=%s}", b.center, b.size)
}
