package layout

import (
	"context"
	"testing"

	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
)

func lineGraph() *graph.Graph {
	// n1 → n2 → n3 linearly connected by import edges, all at distinct
	// starting points.
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "n1", Position: geometry.Vector3{X: 0, Y: 0, Z: 0}},
			{ID: "n2", Position: geometry.Vector3{X: 10, Y: 0, Z: 0}},
			{ID: "n3", Position: geometry.Vector3{X: 20, Y: 0, Z: 0}},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "n1", Target: "n2", Category: graph.EdgeImports},
			{ID: "e2", Source: "n2", Target: "n3", Category: graph.EdgeImports},
		},
	}
}

func TestSimulator_TerminatesWithinCap(t *testing.T) {
	for _, maxIter := range []int{1, 7, 100} {
		cfg := DefaultConfig()
		cfg.MaxIterations = maxIter
		// Unreachable convergence threshold forces exhaustion.
		cfg.MinVelocity = 0

		res, err := Run(context.Background(), lineGraph(), cfg)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if res.Iterations > maxIter {
			t.Errorf("maxIterations=%d: ran %d iterations", maxIter, res.Iterations)
		}
		if res.Converged {
			t.Errorf("maxIterations=%d: converged with zero threshold", maxIter)
		}
	}
}

func TestSimulator_EnergyNonNegative(t *testing.T) {
	sim, err := NewSimulator(NewState(lineGraph()), DefaultConfig())
	if err != nil {
		t.Fatalf("NewSimulator() error: %v", err)
	}

	for i := 0; i < 50; i++ {
		sim.Step()
		if sim.state.KineticEnergy() < 0 {
			t.Fatalf("iteration %d: kinetic energy %v < 0", i, sim.state.KineticEnergy())
		}
	}
}

func TestSimulator_FreezesZIn2DMode(t *testing.T) {
	g := lineGraph()
	g.Nodes[0].Position.Z = 3.14159
	g.Nodes[1].Position.Z = -2.71828
	g.Nodes[2].Position.Z = 0.0

	cfg := DefaultConfig()
	cfg.Enable3D = false
	cfg.MaxIterations = 200

	res, err := Run(context.Background(), g, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for i, n := range g.Nodes {
		// Bit-for-bit: z must equal the pre-simulation value exactly.
		if got := res.Positions[n.ID].Z; got != n.Position.Z {
			t.Errorf("node %d: z = %v, want exactly %v", i, got, n.Position.Z)
		}
	}
}

func TestSimulator_CoincidentNodesStayFinite(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Position: geometry.Vector3{X: 5, Y: 5, Z: 5}},
			{ID: "b", Position: geometry.Vector3{X: 5, Y: 5, Z: 5}},
		},
	}

	sim, err := NewSimulator(NewState(g), DefaultConfig())
	if err != nil {
		t.Fatalf("NewSimulator() error: %v", err)
	}
	sim.Step()

	for id := range sim.state.index {
		p, _ := sim.state.Position(id)
		if !p.IsFinite() {
			t.Errorf("node %s position %v is not finite after one iteration", id, p)
		}
	}
}

func TestSimulator_ZeroLengthEdgeIsNoop(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Position: geometry.Vector3{X: 1, Y: 1, Z: 1}},
			{ID: "b", Position: geometry.Vector3{X: 1, Y: 1, Z: 1}},
		},
		Edges: []graph.Edge{{ID: "e", Source: "a", Target: "b"}},
	}

	sim, err := NewSimulator(NewState(g), DefaultConfig())
	if err != nil {
		t.Fatalf("NewSimulator() error: %v", err)
	}
	// Must not panic or produce non-finite values.
	sim.Step()

	for _, id := range []string{"a", "b"} {
		p, _ := sim.state.Position(id)
		if !p.IsFinite() {
			t.Errorf("node %s position %v not finite", id, p)
		}
	}
}

func TestSimulator_RepulsionSpreadsNodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 100
	cfg.MinVelocity = 0 // run the full 100 iterations

	res, err := Run(context.Background(), lineGraph(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	p1 := res.Positions["n1"]
	p2 := res.Positions["n2"]
	p3 := res.Positions["n3"]

	for _, p := range []geometry.Vector3{p1, p2, p3} {
		if !p.IsFinite() {
			t.Fatalf("non-finite position %v", p)
		}
	}
	if p1 == p2 || p2 == p3 || p1 == p3 {
		t.Fatal("positions not mutually distinct")
	}

	avg := (p1.Distance(p2) + p2.Distance(p3) + p1.Distance(p3)) / 3
	if avg < 1.0 {
		t.Errorf("average pairwise distance %v, want > 1 (repulsion should spread nodes)", avg)
	}
}

func TestSimulator_FixedNodesNeverMove(t *testing.T) {
	g := lineGraph()
	g.Nodes[0].Style = &graph.Style{Fixed: true}
	anchor := g.Nodes[0].Position

	cfg := DefaultConfig()
	cfg.MaxIterations = 50

	res, err := Run(context.Background(), g, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Positions["n1"] != anchor {
		t.Errorf("fixed node moved from %v to %v", anchor, res.Positions["n1"])
	}
	// The fixed node still exerts force: its neighbors must have moved.
	if res.Positions["n2"] == g.Nodes[1].Position {
		t.Error("free node did not move")
	}
}

func TestSimulator_ConvergenceReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinVelocity = 1e9 // trivially satisfied after one iteration

	res, err := Run(context.Background(), lineGraph(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Converged {
		t.Error("Converged = false with huge threshold")
	}
	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
}

func TestSimulator_EmptyGraph(t *testing.T) {
	res, err := Run(context.Background(), &graph.Graph{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Converged {
		t.Error("empty graph should converge trivially")
	}
	if len(res.Positions) != 0 {
		t.Errorf("Positions has %d entries, want 0", len(res.Positions))
	}
}

func TestSimulator_ProgressCallback(t *testing.T) {
	var calls []Progress
	cfg := DefaultConfig()
	cfg.MaxIterations = 35
	cfg.MinVelocity = 0
	cfg.OnProgress = func(p Progress) { calls = append(calls, p) }

	if _, err := Run(context.Background(), lineGraph(), cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Fires every 10 iterations: 10, 20, 30.
	if len(calls) != 3 {
		t.Fatalf("progress fired %d times, want 3", len(calls))
	}
	if calls[0].Iteration != 10 || calls[2].Iteration != 30 {
		t.Errorf("iterations = %d..%d, want 10..30", calls[0].Iteration, calls[2].Iteration)
	}
	if calls[1].MaxIterations != 35 {
		t.Errorf("MaxIterations = %d, want 35", calls[1].MaxIterations)
	}
	wantPct := 100 * float64(20) / 35
	if calls[1].Percent != wantPct {
		t.Errorf("Percent = %v, want %v", calls[1].Percent, wantPct)
	}
}

func TestSimulator_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, lineGraph(), DefaultConfig())
	if err == nil {
		t.Fatal("Run() with cancelled context returned nil error")
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	// Coincident nodes force the seeded tie-break RNG into play; two runs
	// with the same seed must agree exactly.
	build := func() *graph.Graph {
		return &graph.Graph{Nodes: []graph.Node{
			{ID: "a", Position: geometry.Vector3{X: 1, Y: 1, Z: 1}},
			{ID: "b", Position: geometry.Vector3{X: 1, Y: 1, Z: 1}},
			{ID: "c", Position: geometry.Vector3{X: 2, Y: 2, Z: 2}},
		}}
	}

	cfg := DefaultConfig()
	cfg.MaxIterations = 25

	res1, err := Run(context.Background(), build(), cfg)
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	res2, err := Run(context.Background(), build(), cfg)
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}

	for id, p := range res1.Positions {
		if res2.Positions[id] != p {
			t.Errorf("node %s: %v vs %v across seeded runs", id, p, res2.Positions[id])
		}
	}
}

func TestNewSimulator_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ZeroIterations", func(c *Config) { c.MaxIterations = 0 }},
		{"ZeroTimeStep", func(c *Config) { c.TimeStep = 0 }},
		{"DampingTooHigh", func(c *Config) { c.Damping = 1.5 }},
		{"NegativeMinVelocity", func(c *Config) { c.MinVelocity = -1 }},
		{"BarnesHutZeroTheta", func(c *Config) { c.Algorithm = AlgorithmBarnesHut; c.Theta = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewSimulator(NewState(lineGraph()), cfg); err == nil {
				t.Error("NewSimulator() accepted invalid config")
			}
		})
	}
}
