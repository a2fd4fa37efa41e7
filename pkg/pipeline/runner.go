package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/benreynwar/veifa/pkg/cache"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/observability"
	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/render"
	"github.com/benreynwar/veifa/pkg/scene"
	"github.com/benreynwar/veifa/pkg/thumbs"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner can serve many
// goroutines. Each layout builds its own placer.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out the scene and renders every requested format.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	result := &Result{}

	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.Items = len(s.Items)
	result.Stats.Grows = layout.Grows
	result.Stats.Attempts = layout.Attempts
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("placed items",
		"items", len(s.Items),
		"container", layout.Container,
		"grows", layout.Grows,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.LayoutHash, _ = cache.HashJSON(layout)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo places the scene and reports whether the result came
// from the cache. Only deterministic scenes are read from or written to the
// cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (*scene.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if err := s.Validate(); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	hooks := observability.Placement()
	hooks.OnLayoutStart(ctx, len(s.Items))
	start := time.Now()

	var cacheKey string
	if s.Deterministic() {
		sceneHash, err := cache.HashJSON(s)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
		}
		cacheKey = r.Keyer.LayoutKey(sceneHash, opts.LayoutKeyOpts())

		if !opts.Refresh {
			var cached scene.Result
			if err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				hooks.OnLayoutComplete(ctx, layoutEvent(s, &cached, true), time.Since(start), nil)
				return &cached, true, nil
			} else if err != cache.ErrCacheMiss {
				opts.Logger.Warn("layout cache read failed", "err", err)
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		}
	}

	res, err := scene.Run(s, opts.Placement, opts.Logger)
	if err != nil {
		hooks.OnLayoutComplete(ctx, observability.LayoutEvent{Items: len(s.Items)}, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, layoutEvent(s, res, false), time.Since(start), nil)

	if cacheKey != "" {
		r.store(ctx, cacheKey, keyTypeLayout, res, opts)
	}
	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, s *scene.Scene, opts Options) (*scene.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, s, opts)
	return res, err
}

// Thumbs lays out one annotated item's thumbs. Thumb scenes are seeded from
// the item ID, so they are always cacheable. Placement settings default to
// those in cfg.
func (r *Runner) Thumbs(ctx context.Context, req thumbs.Request, cfg thumbs.Config, opts Options) (*scene.Result, bool, error) {
	if err := errors.ValidateID(req.ItemID); err != nil {
		return nil, false, err
	}
	if opts.Placement == (placement.Config{}) {
		opts.Placement = cfg.Placement
	}
	return r.LayoutWithCacheInfo(ctx, req.Scene(cfg), opts)
}

// RenderWithCacheInfo renders every format in opts concurrently and reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout *scene.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutHash, err := cache.HashJSON(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}

	hooks := observability.Placement()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		hits      int
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, hit, err := r.renderOne(gctx, layout, layoutHash, format, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			mu.Lock()
			defer mu.Unlock()
			artifacts[format] = data
			if hit {
				hits++
			}
			return nil
		})
	}
	err = g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, hits == len(opts.Formats), nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout *scene.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

func (r *Runner) renderOne(ctx context.Context, layout *scene.Result, layoutHash, format string, opts Options) ([]byte, bool, error) {
	cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := render.Render(layout, format, opts.RenderOptions()...)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, data, opts.TTL); err != nil {
		opts.Logger.Warn("artifact cache write failed", "format", format, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, opts Options) {
	data, err := json.Marshal(v)
	if err != nil {
		opts.Logger.Warn("encode cache entry", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func layoutEvent(s *scene.Scene, res *scene.Result, cached bool) observability.LayoutEvent {
	return observability.LayoutEvent{
		Items:     len(s.Items),
		Grows:     res.Grows,
		Attempts:  res.Attempts,
		AtMaxSize: res.AtMaxSize,
		Cached:    cached,
	}
}
