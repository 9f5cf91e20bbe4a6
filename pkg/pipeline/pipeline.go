// Package pipeline provides the core layout pipeline for graphscape.
//
// This package implements the complete load → layout → filter pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the canonical graph from a file or in-memory value
//  2. Layout: Run the force-directed simulation and project positions back
//  3. Filter: Compute the visible view at the requested detail level
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	opts := pipeline.Options{
//	    GraphPath: "repo.json",
//	    Level:     pipeline.AutoLevel,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positions := result.Layout.Positions
//
// Run individual stages:
//
//	// Load only
//	g, err := runner.LoadGraph(ctx, opts)
//
//	// Layout with an existing graph
//	res, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Filter with an existing graph
//	view, err := runner.FilterGraph(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/graph"
	"github.com/graphscape/graphscape/pkg/layout"
	"github.com/graphscape/graphscape/pkg/lod"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

// AutoLevel asks the pipeline to pick the detail level from the node count.
const AutoLevel = -1

// Algorithm name constants accepted by Options.Algorithm.
const (
	AlgorithmExact     = "exact"
	AlgorithmBarnesHut = "barnes-hut"
)

// ValidAlgorithms is the set of supported repulsion algorithms.
var ValidAlgorithms = map[string]bool{
	AlgorithmExact:     true,
	AlgorithmBarnesHut: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. GraphPath is read from disk; Graph, when set, takes
	// precedence and skips the read.
	GraphPath string       `json:"graph_path,omitempty"`
	Graph     *graph.Graph `json:"graph,omitempty"`

	// Layout options. Zero values mean the layout defaults.
	Algorithm          string  `json:"algorithm,omitempty"`
	RepulsionStrength  float64 `json:"repulsion_strength,omitempty"`
	AttractionStrength float64 `json:"attraction_strength,omitempty"`
	LinkDistance       float64 `json:"link_distance,omitempty"`
	CenterGravity      float64 `json:"center_gravity,omitempty"`
	Damping            float64 `json:"damping,omitempty"`
	TimeStep           float64 `json:"time_step,omitempty"`
	MinVelocity        float64 `json:"min_velocity,omitempty"`
	MaxIterations      int     `json:"max_iterations,omitempty"`
	Theta              float64 `json:"theta,omitempty"`
	Disable3D          bool    `json:"disable_3d,omitempty"`
	Seed               int64   `json:"seed,omitempty"`

	// Filter options. Level AutoLevel picks a tier from the node count.
	Level          int  `json:"level,omitempty"`
	SkipAncestors  bool `json:"skip_ancestors,omitempty"`
	SkipCollapse   bool `json:"skip_collapse,omitempty"`
	MinNodesForLOD int  `json:"min_nodes_for_lod,omitempty"`
	NoFilter       bool `json:"no_filter,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger         `json:"-"`
	OnProgress layout.ProgressFunc `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Graph is the loaded graph with simulated positions applied.
	Graph *graph.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the simulation outcome (positions, convergence, bounds).
	Layout *layout.Result

	// Filtered is the detail-level view, nil when filtering is skipped.
	Filtered *lod.Result

	// Level is the detail level the filter actually used.
	Level int

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	FilterTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout result came from cache
	FilterHit bool // Whether the filtered view came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForFilter(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a graph source is present.
func (o *Options) ValidateForLoad() error {
	if o.Graph == nil && o.GraphPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "graph or graph_path is required")
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForLayout validates the algorithm name and the layout knobs.
func (o *Options) ValidateForLayout() error {
	if o.Algorithm == "" {
		o.Algorithm = AlgorithmExact
	}
	if !ValidAlgorithms[o.Algorithm] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid algorithm: %q (must be one of: exact, barnes-hut)", o.Algorithm)
	}
	o.setLoggerDefault()
	// Remaining layout knobs are defaulted by LayoutConfig and checked by
	// the simulator's own validation.
	return o.LayoutConfig().Validate()
}

// ValidateForFilter validates the detail level and fills filter defaults.
func (o *Options) ValidateForFilter() error {
	if o.Level != AutoLevel {
		if o.Level < graph.MinDetailLevel || o.Level > graph.MaxDetailLevel {
			return errors.New(errors.ErrCodeInvalidLevel,
				"detail level %d out of range [%d, %d]",
				o.Level, graph.MinDetailLevel, graph.MaxDetailLevel)
		}
	}
	if o.MinNodesForLOD == 0 {
		o.MinNodesForLOD = lod.DefaultMinNodes
	}
	o.setLoggerDefault()
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutConfig converts the options into a simulator configuration,
// filling unset knobs with the layout defaults.
func (o *Options) LayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	if o.Algorithm == AlgorithmBarnesHut {
		cfg.Algorithm = layout.AlgorithmBarnesHut
	}
	if o.RepulsionStrength != 0 {
		cfg.RepulsionStrength = o.RepulsionStrength
	}
	if o.AttractionStrength != 0 {
		cfg.AttractionStrength = o.AttractionStrength
	}
	if o.LinkDistance != 0 {
		cfg.LinkDistance = o.LinkDistance
	}
	if o.CenterGravity != 0 {
		cfg.CenterGravity = o.CenterGravity
	}
	if o.Damping != 0 {
		cfg.Damping = o.Damping
	}
	if o.TimeStep != 0 {
		cfg.TimeStep = o.TimeStep
	}
	if o.MinVelocity != 0 {
		cfg.MinVelocity = o.MinVelocity
	}
	if o.MaxIterations != 0 {
		cfg.MaxIterations = o.MaxIterations
	}
	if o.Theta != 0 {
		cfg.Theta = o.Theta
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	cfg.Enable3D = !o.Disable3D
	cfg.OnProgress = o.OnProgress
	return cfg
}

// FilterOptions converts the options into filter settings for a graph of
// the given size, resolving AutoLevel.
func (o *Options) FilterOptions(nodeCount int) lod.Options {
	level := o.Level
	if level == AutoLevel {
		level = lod.RecommendedLevel(nodeCount)
	}
	return lod.Options{
		Level:            level,
		IncludeAncestors: !o.SkipAncestors,
		CollapseEdges:    !o.SkipCollapse,
		MinNodes:         o.MinNodesForLOD,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	return cache.LayoutKeyOpts{
		Algorithm:          cfg.Algorithm.String(),
		RepulsionStrength:  cfg.RepulsionStrength,
		AttractionStrength: cfg.AttractionStrength,
		LinkDistance:       cfg.LinkDistance,
		CenterGravity:      cfg.CenterGravity,
		Damping:            cfg.Damping,
		TimeStep:           cfg.TimeStep,
		MinVelocity:        cfg.MinVelocity,
		MaxIterations:      cfg.MaxIterations,
		Theta:              cfg.Theta,
		Enable3D:           cfg.Enable3D,
		Seed:               cfg.Seed,
	}
}

// FilterKeyOpts returns cache key options for the filter stage at the
// resolved level.
func (o *Options) FilterKeyOpts(nodeCount int) cache.FilterKeyOpts {
	fo := o.FilterOptions(nodeCount)
	return cache.FilterKeyOpts{
		Level:            fo.Level,
		IncludeAncestors: fo.IncludeAncestors,
		CollapseEdges:    fo.CollapseEdges,
		MinNodes:         fo.MinNodes,
	}
}
