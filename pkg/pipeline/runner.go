package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gauravm26/vishmaker/pkg/cache"
	"github.com/gauravm26/vishmaker/pkg/canvas"
	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/observability"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// Cache key types reported to observability hooks.
const (
	keyTypeCanvas   = "canvas"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete ingest → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1+2: Ingest and layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.ProjectID, len(opts.Flows))
	c, layoutHit, err := r.BuildCanvasWithCacheInfo(ctx, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.ProjectID, len(c.Nodes), time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Canvas = c
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(c.Nodes)
	result.Stats.EdgeCount = len(c.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := canvas.Marshal(c); err == nil {
		result.CanvasHash = cache.Hash(data)
	}

	r.Logger.Info("computed canvas",
		"tables", len(c.Nodes),
		"edges", len(c.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildCanvasWithCacheInfo normalizes the tree, runs the transformer with
// caching, and reports whether the canvas came from cache.
func (r *Runner) BuildCanvasWithCacheInfo(ctx context.Context, opts Options) (canvas.Canvas, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return canvas.Canvas{}, false, err
	}
	r.applyLogger(&opts)

	// A nil flows list is preserved: the transformer treats it as the one
	// malformed-input case and yields an empty canvas.
	flows := opts.Flows
	if flows != nil {
		flows = project.NormalizeFlows(project.CloneFlows(flows))
	}

	// Cache key from the normalized tree content plus geometry.
	treeHash, err := hashFlows(opts.ProjectID, flows)
	if err != nil {
		return canvas.Canvas{}, false, errors.Wrap(errors.ErrCodeInternal, err, "hash project tree")
	}
	cacheKey := r.Keyer.CanvasKey(treeHash, opts.CanvasKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := canvas.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeCanvas)
				return cached, true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeCanvas)
	}

	c := canvas.Build(opts.ProjectID, flows,
		canvas.WithGeometry(opts.EffectiveGeometry()),
		canvas.WithLogger(opts.Logger))

	if data, err := canvas.Marshal(c); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLCanvas)
		observability.Cache().OnCacheSet(ctx, keyTypeCanvas, len(data))
	}

	return c, false, nil
}

// BuildCanvas is a convenience wrapper that discards the cache hit info.
func (r *Runner) BuildCanvas(ctx context.Context, opts Options) (canvas.Canvas, error) {
	c, _, err := r.BuildCanvasWithCacheInfo(ctx, opts)
	return c, err
}

// RenderWithCacheInfo renders artifacts with caching and reports whether all
// of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c canvas.Canvas, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	data, err := canvas.Marshal(c)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize canvas for cache key")
	}
	canvasHash := cache.Hash(data)

	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(canvasHash, opts.ArtifactKeyOpts(format))
			if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = cached
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := RenderCanvas(c, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(canvasHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c canvas.Canvas, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return artifacts, err
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

// hashFlows produces the content hash of the normalized tree used in canvas
// cache keys.
func hashFlows(projectID string, flows []project.Flow) (string, error) {
	data, err := json.Marshal(struct {
		ProjectID string         `json:"project_id"`
		Flows     []project.Flow `json:"flows"`
	}{projectID, flows})
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
