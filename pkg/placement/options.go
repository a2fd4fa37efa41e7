package placement

import (
	"io"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
)

// Default placement constants.
const (
	DefaultMaxAttempts  = 50
	DefaultGrowthFactor = 1.2
	DefaultMinSize      = 50.0
	DefaultMaxHeight    = 1000.0
	DefaultMaxWidth     = 1000.0
)

// Config holds the tunable constants of a placement run.
type Config struct {
	// MaxAttempts is the number of random draws per item before the
	// container grows. Default: 50.
	MaxAttempts int

	// GrowthFactor multiplies both container dimensions on each growth
	// step. Must be greater than 1. Default: 1.2.
	GrowthFactor float64

	// MinSize is the smallest container the placer starts from.
	// Default: 50x50.
	MinSize Size

	// MaxSize caps container growth. Default: 1000x1000.
	MaxSize Size
}

// DefaultConfig returns the default placement constants.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  DefaultMaxAttempts,
		GrowthFactor: DefaultGrowthFactor,
		MinSize:      Size{Height: DefaultMinSize, Width: DefaultMinSize},
		MaxSize:      Size{Height: DefaultMaxHeight, Width: DefaultMaxWidth},
	}
}

// withDefaults replaces unusable values so that a run always terminates.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if !(c.GrowthFactor > 1) {
		c.GrowthFactor = d.GrowthFactor
	}
	if !(c.MinSize.Height > 0) {
		c.MinSize.Height = d.MinSize.Height
	}
	if !(c.MinSize.Width > 0) {
		c.MinSize.Width = d.MinSize.Width
	}
	if !(c.MaxSize.Height > 0) {
		c.MaxSize.Height = d.MaxSize.Height
	}
	if !(c.MaxSize.Width > 0) {
		c.MaxSize.Width = d.MaxSize.Width
	}
	c.MinSize = c.MinSize.Min(c.MaxSize)
	return c
}

// Source supplies uniformly distributed values in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Container receives every change of the container size.
type Container interface {
	Resize(size Size)
}

// Option configures a [Placer].
type Option func(*Placer)

// WithConfig overrides the placement constants. Zero or invalid fields fall
// back to their defaults.
func WithConfig(cfg Config) Option {
	return func(p *Placer) { p.cfg = cfg }
}

// WithSeed makes the run reproducible from a numeric seed.
func WithSeed(seed uint64) Option {
	return func(p *Placer) { p.rng = NewRand(seed) }
}

// WithSeedString makes the run reproducible from a string key such as an
// annotated item ID.
func WithSeedString(key string) Option {
	return WithSeed(SeedFromString(key))
}

// WithRand injects a random source.
func WithRand(src Source) Option {
	return func(p *Placer) { p.rng = src }
}

// WithContainer attaches the container surface that receives resizes.
func WithContainer(c Container) Option {
	return func(p *Placer) { p.container = c }
}

// WithLogger enables debug logging of growth steps.
func WithLogger(l *log.Logger) Option {
	return func(p *Placer) { p.logger = l }
}

// NewRand returns the PCG generator used for seeded runs.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// SeedFromString derives a numeric seed from a string key.
func SeedFromString(key string) uint64 {
	return xxhash.Sum64String(key)
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
