package scene

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benreynwar/veifa/pkg/placement"
)

// Result is the outcome of a placement run.
type Result struct {
	ID         string         `json:"id"`
	Seed       uint64         `json:"seed"`
	Container  placement.Size `json:"container"`
	AtMaxSize  bool           `json:"at_max_size"`
	Grows      int            `json:"grows"`
	Attempts   int            `json:"attempts"`
	Placements []Placement    `json:"placements"`
}

// Placement is the final position of one rectangle. Fixed obstacles come
// first, then items, each in input order.
type Placement struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Fixed  bool    `json:"fixed,omitempty"`

	// Moves counts how often the rectangle was repositioned on screen.
	Moves int `json:"moves"`
}

// Bounds returns the placement's bounding box.
func (p Placement) Bounds() placement.Bounds {
	return placement.Bounds{
		Min: placement.Point{Top: p.Top, Left: p.Left},
		Max: placement.Point{Top: p.Top + p.Height, Left: p.Left + p.Width},
	}
}

// Find returns the placement with the given ID.
func (r *Result) Find(id string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// surface records where the placer last moved a rectangle.
type surface struct {
	topLeft placement.Point
	moves   int
}

func (s *surface) MoveTo(p placement.Point) {
	s.topLeft = p
	s.moves++
}

// EffectiveSeed returns the numeric seed the scene runs with, and false when the
// scene is unseeded.
func (s *Scene) EffectiveSeed() (uint64, bool) {
	switch {
	case s.Seed != nil:
		return *s.Seed, true
	case s.SeedKey != "":
		return placement.SeedFromString(s.SeedKey), true
	}
	return 0, false
}

// Run validates the scene and places its items. Unseeded scenes draw a
// fresh seed, which is reported in the result so the run can be replayed.
func Run(s *Scene, cfg placement.Config, logger *log.Logger) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	seed, ok := s.EffectiveSeed()
	if !ok {
		seed = rand.Uint64()
	}

	fixed := make([]*placement.Blockage, len(s.Fixed))
	for i, f := range s.Fixed {
		sf := &surface{topLeft: f.Center.Sub(f.Size.Half())}
		fixed[i] = placement.NewBlockage(f.Center, f.Size, sf)
	}
	items := make([]*placement.Blockage, len(s.Items))
	for i, it := range s.Items {
		items[i] = placement.NewBlockage(placement.Point{}, it.Size, &surface{})
	}

	opts := []placement.Option{placement.WithConfig(cfg), placement.WithSeed(seed)}
	if logger != nil {
		opts = append(opts, placement.WithLogger(logger))
	}
	p := placement.New(s.Container, fixed, opts...)
	p.PlaceItems(items)

	res := &Result{
		ID:         uuid.NewString(),
		Seed:       seed,
		Container:  p.ContainerSize(),
		AtMaxSize:  p.AtMaxSize(),
		Grows:      p.Grows(),
		Attempts:   p.Attempts(),
		Placements: make([]Placement, 0, len(fixed)+len(items)),
	}
	for i, b := range fixed {
		res.Placements = append(res.Placements, newPlacement(s.Fixed[i].ID, b, true))
	}
	for i, b := range items {
		res.Placements = append(res.Placements, newPlacement(s.Items[i].ID, b, false))
	}

	if logger != nil {
		logger.Debug("placed scene", "id", res.ID, "items", len(items), "grows", res.Grows, "attempts", res.Attempts, "at_max", res.AtMaxSize)
	}
	return res, nil
}

func newPlacement(id string, b *placement.Blockage, fixed bool) Placement {
	tl := b.Min()
	sz := b.Size()
	return Placement{
		ID:     id,
		Top:    tl.Top,
		Left:   tl.Left,
		Height: sz.Height,
		Width:  sz.Width,
		Fixed:  fixed,
		Moves:  b.Surface().(*surface).moves,
	}
}
