package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/graph"
	"github.com/graphscape/graphscape/pkg/layout"
	"github.com/graphscape/graphscape/pkg/lod"
	"github.com/graphscape/graphscape/pkg/observability"
	"github.com/graphscape/graphscape/pkg/store"
)

// Runner encapsulates pipeline execution with caching and optional
// persistence. Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.LayoutStore
	Logger *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If st is nil, layout runs are not persisted.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.LayoutStore, logger *log.Logger) *Runner {
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
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → filter pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{RunID: uuid.NewString()}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.LoadGraph(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Content hash for cache keys, the store, and API responses.
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	result.GraphHash = cache.Hash(graphData)

	r.Logger.Info("loaded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"hash", result.GraphHash[:12],
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutRes, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layoutRes
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	result.Graph, _ = layout.Apply(g, layoutRes.Positions)

	r.Logger.Info("computed layout",
		"iterations", layoutRes.Iterations,
		"converged", layoutRes.Converged,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Persist the run when a store is wired. Best effort: a store failure
	// does not fail the pipeline.
	if r.Store != nil && !layoutHit {
		if err := r.persistLayout(ctx, result, opts); err != nil {
			r.Logger.Warn("persist layout", "err", err)
		}
	}

	// Stage 3: Filter
	if opts.NoFilter {
		result.Level = AutoLevel
		return result, nil
	}

	filterStart := time.Now()
	view, level, filterHit, err := r.FilterGraphWithCacheInfo(ctx, result.Graph, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Filtered = view
	result.Level = level
	result.Stats.FilterTime = time.Since(filterStart)
	result.CacheInfo.FilterHit = filterHit

	r.Logger.Info("filtered graph",
		"level", level,
		"visible_nodes", len(view.VisibleNodes),
		"hidden_nodes", view.HiddenNodeCount,
		"cached", filterHit,
		"duration", result.Stats.FilterTime)

	return result, nil
}

// LoadGraph reads the graph named by the options, preferring an in-memory
// graph over a file path.
func (r *Runner) LoadGraph(ctx context.Context, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Graph != nil {
		if err := opts.Graph.Validate(); err != nil {
			return nil, err
		}
		return opts.Graph, nil
	}
	return graph.ReadGraphFile(opts.GraphPath)
}

// ComputeLayoutWithCacheInfo runs the simulation with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (*layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			// Corrupt entry: fall through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	cfg := opts.LayoutConfig()
	observability.Simulation().OnSimulationStart(ctx, opts.Algorithm, g.NodeCount())
	start := time.Now()
	res, err := layout.Run(ctx, g, cfg)
	observability.Simulation().OnSimulationComplete(ctx, opts.Algorithm,
		resIterations(res), resConverged(res), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return res, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (*layout.Result, error) {
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, cache.Hash(graphData), opts)
	return res, err
}

// FilterGraphWithCacheInfo filters the graph with caching, returning the
// view, the resolved detail level, and cache hit info.
func (r *Runner) FilterGraphWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (*lod.Result, int, bool, error) {
	if err := opts.ValidateForFilter(); err != nil {
		return nil, 0, false, err
	}
	r.applyLogger(&opts)

	filterOpts := opts.FilterOptions(g.NodeCount())
	cacheKey := r.Keyer.FilterKey(graphHash, opts.FilterKeyOpts(g.NodeCount()))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached lod.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "filter")
				return &cached, filterOpts.Level, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "filter")

	observability.Filter().OnFilterStart(ctx, filterOpts.Level, g.NodeCount())
	start := time.Now()
	view, err := lod.Filter(g, filterOpts)
	if err != nil {
		observability.Filter().OnFilterComplete(ctx, filterOpts.Level, 0, 0, time.Since(start), err)
		return nil, 0, false, err
	}
	observability.Filter().OnFilterComplete(ctx, filterOpts.Level,
		len(view.VisibleNodes), view.HiddenNodeCount, time.Since(start), nil)

	if data, err := json.Marshal(view); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLFilter)
		observability.Cache().OnCacheSet(ctx, "filter", len(data))
	}

	return view, filterOpts.Level, false, nil
}

// FilterGraph is a convenience wrapper that discards the cache hit info.
func (r *Runner) FilterGraph(ctx context.Context, g *graph.Graph, opts Options) (*lod.Result, error) {
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	view, _, _, err := r.FilterGraphWithCacheInfo(ctx, g, cache.Hash(graphData), opts)
	return view, err
}

// persistLayout writes the run to the layout store, keyed by graph content
// and config.
func (r *Runner) persistLayout(ctx context.Context, result *Result, opts Options) error {
	cfgData, err := json.Marshal(opts.LayoutKeyOpts())
	if err != nil {
		return err
	}
	return r.Store.Save(ctx, &store.LayoutRecord{
		RunID:      result.RunID,
		GraphHash:  result.GraphHash,
		ConfigHash: cache.Hash(cfgData),
		Positions:  result.Layout.Positions,
		Stats: store.RunStats{
			Iterations:  result.Layout.Iterations,
			FinalEnergy: result.Layout.FinalEnergy,
			Converged:   result.Layout.Converged,
			DurationMS:  result.Layout.Duration.Milliseconds(),
		},
	})
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

func resIterations(res *layout.Result) int {
	if res == nil {
		return 0
	}
	return res.Iterations
}

func resConverged(res *layout.Result) bool {
	if res == nil {
		return false
	}
	return res.Converged
}
