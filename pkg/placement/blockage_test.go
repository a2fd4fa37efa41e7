package placement

import "testing"

type recordingSurface struct {
	moves []Point
}

func (s *recordingSurface) MoveTo(p Point) { s.moves = append(s.moves, p) }

func (s *recordingSurface) last() Point { return s.moves[len(s.moves)-1] }

func TestBlockageBounds(t *testing.T) {
	b := NewBlockage(Point{Top: 50, Left: 40}, Size{Height: 20, Width: 10}, nil)

	if got, want := b.Min(), (Point{Top: 40, Left: 35}); got != want {
		t.Errorf("Min() = %v, want %v", got, want)
	}
	if got, want := b.Max(), (Point{Top: 60, Left: 45}); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}
	if got, want := b.Bounds().Size(), b.Size(); got != want {
		t.Errorf("Bounds().Size() = %v, want %v", got, want)
	}
}

func TestBlockageFitsIn(t *testing.T) {
	container := Size{Height: 100, Width: 100}
	tests := []struct {
		name   string
		center Point
		size   Size
		want   bool
	}{
		{"interior", Point{Top: 50, Left: 50}, Size{Height: 20, Width: 20}, true},
		{"flush top", Point{Top: 10, Left: 50}, Size{Height: 20, Width: 20}, false},
		{"flush left", Point{Top: 50, Left: 10}, Size{Height: 20, Width: 20}, false},
		{"flush bottom", Point{Top: 90, Left: 50}, Size{Height: 20, Width: 20}, false},
		{"flush right", Point{Top: 50, Left: 90}, Size{Height: 20, Width: 20}, false},
		{"outside", Point{Top: 150, Left: 50}, Size{Height: 20, Width: 20}, false},
		{"larger than container", Point{Top: 50, Left: 50}, Size{Height: 120, Width: 20}, false},
		{"one unit margin", Point{Top: 11, Left: 89}, Size{Height: 20, Width: 20}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlockage(tt.center, tt.size, nil)
			if got := b.FitsIn(container); got != tt.want {
				t.Errorf("FitsIn(%v) = %v, want %v", container, got, tt.want)
			}
		})
	}
}

func TestBlockagePositionAt(t *testing.T) {
	b := NewBlockage(Point{}, Size{Height: 20, Width: 30}, nil)
	b.PositionAt(Point{Top: 5, Left: 7})

	if got, want := b.Center(), (Point{Top: 15, Left: 22}); got != want {
		t.Errorf("Center() = %v, want %v", got, want)
	}
	if got, want := b.Min(), (Point{Top: 5, Left: 7}); got != want {
		t.Errorf("Min() = %v, want %v", got, want)
	}
	if got, want := b.Max(), (Point{Top: 25, Left: 37}); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}
}

func TestBlockageShiftBy(t *testing.T) {
	tests := []struct {
		name   string
		center Point
		scale  Scale
		want   Point
	}{
		{"origin stays", Point{}, Uniform(1.5), Point{}},
		{"uniform", Point{Top: 10, Left: 20}, Uniform(2), Point{Top: 20, Left: 40}},
		{"non-uniform", Point{Top: 10, Left: 20}, Scale{Top: 1.5, Left: 1}, Point{Top: 15, Left: 20}},
		{"identity", Point{Top: 3, Left: 4}, Uniform(1), Point{Top: 3, Left: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlockage(tt.center, Size{Height: 2, Width: 2}, nil)
			b.ShiftBy(tt.scale)
			if got := b.Center(); got != tt.want {
				t.Errorf("Center() = %v, want %v", got, tt.want)
			}
			if got, want := b.Min(), tt.want.Sub(Size{Height: 1, Width: 1}); got != want {
				t.Errorf("Min() = %v, want %v", got, want)
			}
		})
	}
}

func TestBlockageOverlaps(t *testing.T) {
	size := Size{Height: 10, Width: 10}
	a := NewBlockage(Point{Top: 10, Left: 10}, size, nil)

	tests := []struct {
		name  string
		other Point
		want  bool
	}{
		{"same place", Point{Top: 10, Left: 10}, true},
		{"partial", Point{Top: 15, Left: 15}, true},
		{"touching vertically", Point{Top: 20, Left: 10}, false},
		{"touching horizontally", Point{Top: 10, Left: 20}, false},
		{"touching corner", Point{Top: 20, Left: 20}, false},
		{"overlap on top axis only", Point{Top: 12, Left: 40}, false},
		{"overlap on left axis only", Point{Top: 40, Left: 12}, false},
		{"apart", Point{Top: 50, Left: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlockage(tt.other, size, nil)
			if got := a.Overlaps(b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := b.Overlaps(a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockageContained(t *testing.T) {
	outer := NewBlockage(Point{Top: 50, Left: 50}, Size{Height: 80, Width: 80}, nil)
	inner := NewBlockage(Point{Top: 50, Left: 50}, Size{Height: 10, Width: 10}, nil)
	if !outer.Overlaps(inner) || !inner.Overlaps(outer) {
		t.Error("containment should count as overlap")
	}
}

func TestBlockageApply(t *testing.T) {
	s := &recordingSurface{}
	b := NewBlockage(Point{Top: 20, Left: 30}, Size{Height: 10, Width: 20}, s)
	b.Apply()

	if len(s.moves) != 1 {
		t.Fatalf("MoveTo calls = %d, want 1", len(s.moves))
	}
	if got, want := s.last(), (Point{Top: 15, Left: 20}); got != want {
		t.Errorf("MoveTo(%v), want %v", got, want)
	}

	// A blockage without a surface is a no-op.
	NewBlockage(Point{}, Size{}, nil).Apply()
}
