package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/movegraph/pkg/cache"
	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/observability"
	"github.com/matzehuels/movegraph/pkg/render/scene"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine layout.Engine
	Logger *log.Logger

	// Entry lifetimes; NewRunner sets the package defaults.
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default scheme, and a nil engine uses the native engines.
func NewRunner(c cache.Cache, keyer cache.Keyer, engine layout.Engine, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if engine == nil {
		engine, _ = NewEngine(EngineNative, logger)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Engine:      engine,
		Logger:      logger,
		LayoutTTL:   cache.LayoutTTL,
		ArtifactTTL: cache.ArtifactTTL,
	}
}

// Execute runs load → build → layout → render.
func (r *Runner) Execute(ctx context.Context, src moves.Source, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	start := time.Now()
	ms, err := moves.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Moveset = ms
	result.Stats.LoadTime = time.Since(start)

	g, hit, err := r.BuildWithCacheInfo(ctx, ms, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.GraphHash = graph.Hash(g)
	result.CacheInfo.GraphHit = hit
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	r.Logger.Info("loaded moveset",
		"source", src.Describe(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	start = time.Now()
	res, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(start)
	r.Logger.Info("computed layout",
		"mode", res.Mode,
		"refined", res.Refined,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	result.Scene = BuildScene(g, res, opts)
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Scene, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds the graph for ms, reusing a cached graph for an
// identical moveset.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, ms moves.Moveset, opts Options) (*graph.Graph, bool, error) {
	key := r.Keyer.GraphKey(cache.HashJSON(ms))
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if g, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				return g, true, nil
			}
		}
	}

	g := graph.Build(ms)
	if data, err := graph.MarshalGraph(g); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.GraphTTL)
	}
	return g, false, nil
}

// Build is BuildWithCacheInfo without the cache flag.
func (r *Runner) Build(ctx context.Context, ms moves.Moveset, opts Options) (*graph.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, ms, opts)
	return g, err
}

// cachedLayout is the stored form of a layout result.
type cachedLayout struct {
	Mode      layout.Mode      `json:"mode"`
	Seed      layout.Positions `json:"seed"`
	Positions layout.Positions `json:"positions,omitempty"`
	Refined   bool             `json:"refined"`
}

// LayoutWithCacheInfo lays out g. Only complete layouts are cached: a run
// whose engine was unavailable is recomputed next time.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (layout.Result, bool, error) {
	opts.SetDefaults()
	key := r.Keyer.LayoutKey(graph.Hash(g), opts.LayoutKeyOpts(r.Engine.Name()))

	if !opts.Refresh {
		var cl cachedLayout
		if err := cache.GetJSON(ctx, r.Cache, key, &cl); err == nil {
			return layout.Result{Mode: cl.Mode, Seed: cl.Seed, Positions: cl.Positions, Refined: cl.Refined}, true, nil
		}
	}

	res, err := ComputeLayout(ctx, r.Engine, g, opts)
	if err != nil {
		return layout.Result{}, false, err
	}
	if res.Refined || res.Mode == layout.ModeConcentric {
		cl := cachedLayout{Mode: res.Mode, Seed: res.Seed, Positions: res.Positions, Refined: res.Refined}
		_ = cache.SetJSON(ctx, r.Cache, key, cl, r.LayoutTTL)
	}
	return res, false, nil
}

// Layout is LayoutWithCacheInfo without the cache flag.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// RenderWithCacheInfo renders sc, serving artifacts from the cache when all
// requested formats are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc scene.Scene, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	layoutHash := cache.HashJSON(res.Final())

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, ok, err := r.Cache.Get(ctx, key)
			if err != nil || !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, sc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, r.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
