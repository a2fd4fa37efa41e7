package scene

import (
	"math"

	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/placement"
)

// Scene is a placement request.
type Scene struct {
	Container placement.Size `json:"container" toml:"container" yaml:"container"`
	Fixed     []Fixed        `json:"fixed,omitempty" toml:"fixed" yaml:"fixed,omitempty"`
	Items     []Item         `json:"items" toml:"items" yaml:"items"`

	// Seed makes the run reproducible. SeedKey does the same from a string
	// and is ignored when Seed is set.
	Seed    *uint64 `json:"seed,omitempty" toml:"seed" yaml:"seed,omitempty"`
	SeedKey string  `json:"seed_key,omitempty" toml:"seed_key" yaml:"seed_key,omitempty"`
}

// Fixed is an obstacle with a known center.
type Fixed struct {
	ID     string          `json:"id" toml:"id" yaml:"id"`
	Center placement.Point `json:"center" toml:"center" yaml:"center"`
	Size   placement.Size  `json:"size" toml:"size" yaml:"size"`
}

// Item is a rectangle to be placed.
type Item struct {
	ID   string         `json:"id" toml:"id" yaml:"id"`
	Size placement.Size `json:"size" toml:"size" yaml:"size"`
}

// Deterministic reports whether the scene is seeded.
func (s *Scene) Deterministic() bool {
	return s.Seed != nil || s.SeedKey != ""
}

// Validate checks sizes, centers and IDs. IDs must be unique across fixed
// obstacles and items.
func (s *Scene) Validate() error {
	if err := validateSize("container", s.Container); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Fixed)+len(s.Items))
	checkID := func(kind, id string) error {
		if err := errors.ValidateID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s id", kind)
		}
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate id %q", id)
		}
		seen[id] = true
		return nil
	}

	for _, f := range s.Fixed {
		if err := checkID("fixed", f.ID); err != nil {
			return err
		}
		if err := validateSize("fixed "+f.ID, f.Size); err != nil {
			return err
		}
		if err := validatePoint("fixed "+f.ID, f.Center); err != nil {
			return err
		}
	}
	for _, it := range s.Items {
		if err := checkID("item", it.ID); err != nil {
			return err
		}
		if err := validateSize("item "+it.ID, it.Size); err != nil {
			return err
		}
	}
	return nil
}

func validateSize(name string, s placement.Size) error {
	if err := errors.ValidateDimension(name+" height", s.Height); err != nil {
		return err
	}
	return errors.ValidateDimension(name+" width", s.Width)
}

// Centers may lie anywhere, but must be finite.
func validatePoint(name string, p placement.Point) error {
	for _, v := range []float64{p.Top, p.Left} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidScene, "%s center must be finite", name)
		}
	}
	return nil
}
