// Package pipeline runs the layout → render pipeline with caching.
//
// The CLI and the HTTP server both go through a [Runner] so that cache
// keys, defaults and validation are the same everywhere.
//
// # Stages
//
//  1. Layout: validate a scene and place its items. Seeded scenes are
//     deterministic, so their results are cached by scene hash and
//     placement settings. Unseeded scenes always run.
//  2. Render: produce SVG, PNG or JSON from a layout. Formats render
//     concurrently and each artifact is cached by layout hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, sc, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benreynwar/veifa/pkg/cache"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/render"
	"github.com/benreynwar/veifa/pkg/scene"
)

// DefaultTTL is how long layouts and artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Options configures a pipeline run. The JSON fields are the ones an API
// caller may set; the rest come from server or CLI configuration.
type Options struct {
	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Refresh skips cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Placement placement.Config `json:"-"`
	TTL       time.Duration    `json:"-"`
	Logger    *log.Logger      `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the placement result.
	Layout *scene.Result

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Grows      int
	Attempts   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetLayoutDefaults fills unset placement settings with the package defaults.
func (o *Options) SetLayoutDefaults() {
	def := placement.DefaultConfig()
	p := &o.Placement
	if p.MaxAttempts == 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.GrowthFactor == 0 {
		p.GrowthFactor = def.GrowthFactor
	}
	if p.MinSize == (placement.Size{}) {
		p.MinSize = def.MinSize
	}
	if p.MaxSize == (placement.Size{}) {
		p.MaxSize = def.MaxSize
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and checks the placement settings.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	p := o.Placement
	switch {
	case p.MaxAttempts < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max_attempts must be positive, got %d", p.MaxAttempts)
	case !(p.GrowthFactor > 1):
		return errors.New(errors.ErrCodeInvalidConfig, "growth_factor must be greater than 1, got %g", p.GrowthFactor)
	case p.MinSize.Height < 0 || p.MinSize.Width < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "min_size must not be negative, got %s", p.MinSize)
	case p.MinSize.Height > p.MaxSize.Height || p.MinSize.Width > p.MaxSize.Width:
		return errors.New(errors.ErrCodeInvalidConfig, "min_size %s exceeds max_size %s", p.MinSize, p.MaxSize)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if !(o.Scale > 0) {
		o.Scale = 1
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets defaults and checks the render settings.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// RenderOptions converts the render settings for [render.Render].
func (o *Options) RenderOptions() []render.Option {
	return []render.Option{render.WithScale(o.Scale), render.WithLabels(o.Labels)}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxAttempts:  o.Placement.MaxAttempts,
		GrowthFactor: o.Placement.GrowthFactor,
		MinHeight:    o.Placement.MinSize.Height,
		MinWidth:     o.Placement.MinSize.Width,
		MaxHeight:    o.Placement.MaxSize.Height,
		MaxWidth:     o.Placement.MaxSize.Width,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: o.Labels,
	}
}
