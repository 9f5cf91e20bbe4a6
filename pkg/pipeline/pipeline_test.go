package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
	"github.com/graphscape/graphscape/pkg/store"
)

func testGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "repo", DetailLevel: 0},
			{ID: "pkg", DetailLevel: 1, ParentID: "repo", Position: geometry.Vector3{X: 10}},
			{ID: "file", DetailLevel: 3, ParentID: "pkg", Position: geometry.Vector3{X: 20}},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "pkg", Target: "repo", Category: graph.EdgeImports},
			{ID: "e2", Source: "file", Target: "pkg", Category: graph.EdgeImports},
		},
	}
}

func fastOptions(g *graph.Graph) Options {
	return Options{
		Graph:         g,
		MaxIterations: 10,
		Level:         AutoLevel,
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Run("MissingGraph", func(t *testing.T) {
		opts := Options{Level: AutoLevel}
		if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})

	t.Run("BadAlgorithm", func(t *testing.T) {
		opts := fastOptions(testGraph())
		opts.Algorithm = "quantum"
		if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
		}
	})

	t.Run("BadLevel", func(t *testing.T) {
		opts := fastOptions(testGraph())
		opts.Level = 9
		if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidLevel) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidLevel)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		opts := fastOptions(testGraph())
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatalf("first validate: %v", err)
		}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatalf("second validate: %v", err)
		}
	})
}

func TestLayoutConfigDefaults(t *testing.T) {
	opts := Options{Graph: testGraph(), Level: AutoLevel}
	cfg := opts.LayoutConfig()

	if cfg.MaxIterations == 0 || cfg.Damping == 0 || cfg.TimeStep == 0 {
		t.Errorf("unset knobs not defaulted: %+v", cfg)
	}
	if !cfg.Enable3D {
		t.Error("Enable3D should default to true")
	}

	opts.Disable3D = true
	opts.MaxIterations = 7
	cfg = opts.LayoutConfig()
	if cfg.Enable3D {
		t.Error("Disable3D not honored")
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("MaxIterations = %d, want 7", cfg.MaxIterations)
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), fastOptions(testGraph()))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID not assigned")
	}
	if res.GraphHash == "" {
		t.Error("GraphHash not computed")
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Layout == nil || len(res.Layout.Positions) != 3 {
		t.Fatalf("layout missing positions: %+v", res.Layout)
	}
	// Positions applied back onto the result graph.
	for _, n := range res.Graph.Nodes {
		if n.Position != res.Layout.Positions[n.ID] {
			t.Errorf("node %s: graph position %v != layout %v", n.ID, n.Position, res.Layout.Positions[n.ID])
		}
	}
	// 3 nodes < 50 recommends full detail; small graph is identity-filtered.
	if res.Level != 5 {
		t.Errorf("auto level = %d, want 5", res.Level)
	}
	if res.Filtered == nil || len(res.Filtered.VisibleNodes) != 3 {
		t.Errorf("filtered view missing: %+v", res.Filtered)
	}
}

func TestRunnerExecuteNoFilter(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)

	opts := fastOptions(testGraph())
	opts.NoFilter = true
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Filtered != nil {
		t.Error("Filtered should be nil with NoFilter")
	}
}

func TestRunnerLayoutCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil, nil)
	defer r.Close()

	ctx := context.Background()

	first, err := r.Execute(ctx, fastOptions(testGraph()))
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.FilterHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, fastOptions(testGraph()))
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.FilterHit {
		t.Error("second run should hit the filter cache")
	}
	for id, p := range first.Layout.Positions {
		if second.Layout.Positions[id] != p {
			t.Errorf("node %s: cached position %v != %v", id, second.Layout.Positions[id], p)
		}
	}

	// Different config misses.
	opts := fastOptions(testGraph())
	opts.Algorithm = AlgorithmBarnesHut
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("different config should miss the layout cache")
	}

	// Refresh bypasses reads.
	opts = fastOptions(testGraph())
	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("fourth Execute: %v", err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("Refresh should bypass the layout cache")
	}
}

func TestRunnerPersistsToStore(t *testing.T) {
	st := store.NewMemoryStore()
	r := NewRunner(nil, nil, st, nil)

	ctx := context.Background()
	res, err := r.Execute(ctx, fastOptions(testGraph()))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	cfgHash := configHashFor(t, fastOptions(testGraph()))
	rec, err := st.Load(ctx, res.GraphHash, cfgHash)
	if err != nil {
		t.Fatalf("store Load: %v", err)
	}
	if rec.RunID != res.RunID {
		t.Errorf("stored RunID = %s, want %s", rec.RunID, res.RunID)
	}
	if len(rec.Positions) != 3 {
		t.Errorf("stored %d positions, want 3", len(rec.Positions))
	}
}

func TestRunnerLoadGraphFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := graph.WriteGraphFile(testGraph(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	r := NewRunner(nil, nil, nil, nil)
	opts := Options{GraphPath: path, MaxIterations: 5, Level: AutoLevel}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", res.Stats.NodeCount)
	}
}

func configHashFor(t *testing.T, opts Options) string {
	t.Helper()
	data, err := json.Marshal(opts.LayoutKeyOpts())
	if err != nil {
		t.Fatalf("marshal key opts: %v", err)
	}
	return cache.Hash(data)
}
