package placement

import (
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
)

// Placer places items at random non-overlapping positions, growing its
// container when an item does not fit.
type Placer struct {
	cfg       Config
	container Container
	size      Size
	blockages []*Blockage
	atMax     bool
	rng       Source
	logger    *log.Logger

	fixed    int
	grows    int
	attempts int
}

// Stats summarizes a placement run.
type Stats struct {
	Container Size `json:"container"`
	AtMaxSize bool `json:"at_max_size"`
	Grows     int  `json:"grows"`
	Attempts  int  `json:"attempts"`
	Placed    int  `json:"placed"`
}

// New creates a placer for a container of the given size with fixed
// obstacles already positioned in container coordinates.
//
// The container starts at hint clamped to [Config.MinSize, Config.MaxSize].
// It then grows until every fixed obstacle lies strictly inside it, or until
// it reaches the maximum size.
func New(hint Size, fixed []*Blockage, opts ...Option) *Placer {
	p := &Placer{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(p)
	}
	p.cfg = p.cfg.withDefaults()
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if p.logger == nil {
		p.logger = discardLogger()
	}

	p.size = hint.Max(p.cfg.MinSize).Min(p.cfg.MaxSize)
	p.atMax = p.size == p.cfg.MaxSize
	if p.size != hint && p.container != nil {
		p.container.Resize(p.size)
	}

	p.blockages = slices.Clone(fixed)
	p.fixed = len(fixed)
	p.growToFit()
	return p
}

// PlaceItems places each item in order. Every placed item becomes an
// obstacle for the items after it. Items are always placed; overlap is
// accepted only once the container is at its maximum size.
func (p *Placer) PlaceItems(items []*Blockage) {
	for _, item := range items {
		p.place(item)
	}
}

func (p *Placer) place(item *Blockage) {
	for {
		for range p.cfg.MaxAttempts {
			item.PositionAt(p.randomPosition(item.Size()))
			p.attempts++
			if p.atMax || !p.collides(item) {
				item.Apply()
				p.blockages = append(p.blockages, item)
				return
			}
		}
		p.grow()
	}
}

// growToFit grows the container until every fixed obstacle is interior.
func (p *Placer) growToFit() {
	for _, b := range p.blockages {
		for !b.FitsIn(p.size) && !p.atMax {
			p.grow()
		}
	}
}

// grow enlarges the container once and re-centers every blockage.
func (p *Placer) grow() {
	g := p.cfg.GrowthFactor
	scale := Uniform(g)

	p.size = Size{
		Height: min(p.size.Height*g, p.cfg.MaxSize.Height),
		Width:  min(p.size.Width*g, p.cfg.MaxSize.Width),
	}
	if p.size == p.cfg.MaxSize {
		p.atMax = true
	}
	p.grows++
	if p.container != nil {
		p.container.Resize(p.size)
	}

	for _, b := range p.blockages {
		b.ShiftBy(scale)
		b.Apply()
	}
	p.logger.Debug("grew container", "size", p.size, "at_max", p.atMax, "blockages", len(p.blockages))
}

// randomPosition draws a top-left corner that keeps an item of the given
// size inside the container. The range collapses to 0 on any axis where the
// item is larger than the container.
func (p *Placer) randomPosition(item Size) Point {
	return Point{
		Top:  p.rng.Float64() * max(0, p.size.Height-item.Height),
		Left: p.rng.Float64() * max(0, p.size.Width-item.Width),
	}
}

func (p *Placer) collides(item *Blockage) bool {
	for _, b := range p.blockages {
		if item.Overlaps(b) {
			return true
		}
	}
	return false
}

// ContainerSize returns the current container size.
func (p *Placer) ContainerSize() Size { return p.size }

// AtMaxSize reports whether the container has reached its maximum size.
func (p *Placer) AtMaxSize() bool { return p.atMax }

// Blockages returns the fixed obstacles followed by the placed items.
func (p *Placer) Blockages() []*Blockage { return slices.Clone(p.blockages) }

// Grows returns the number of growth steps so far.
func (p *Placer) Grows() int { return p.grows }

// Attempts returns the number of random draws so far.
func (p *Placer) Attempts() int { return p.attempts }

// Config returns the effective placement constants.
func (p *Placer) Config() Config { return p.cfg }

// Stats returns a summary of the run.
func (p *Placer) Stats() Stats {
	return Stats{
		Container: p.size,
		AtMaxSize: p.atMax,
		Grows:     p.grows,
		Attempts:  p.attempts,
		Placed:    len(p.blockages) - p.fixed,
	}
}
