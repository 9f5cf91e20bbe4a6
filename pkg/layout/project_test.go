package layout

import (
	"context"
	"testing"

	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
)

func TestApply_OverwritesKnownPositions(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Position: geometry.Vector3{X: 1}},
			{ID: "b", Position: geometry.Vector3{X: 2}},
			{ID: "c", Position: geometry.Vector3{X: 3}},
		},
	}
	positions := map[string]geometry.Vector3{
		"a": {X: 10, Y: 10, Z: 10},
		"c": {X: -5},
	}

	out, bounds := Apply(g, positions)

	if p := out.Nodes[0].Position; p != positions["a"] {
		t.Errorf("node a position = %v, want %v", p, positions["a"])
	}
	// Absent from the map: keeps its prior position.
	if p := out.Nodes[1].Position; p != (geometry.Vector3{X: 2}) {
		t.Errorf("node b position = %v, want unchanged", p)
	}
	if p := out.Nodes[2].Position; p != positions["c"] {
		t.Errorf("node c position = %v, want %v", p, positions["c"])
	}

	if bounds.Min != (geometry.Vector3{X: -5}) {
		t.Errorf("bounds.Min = %v", bounds.Min)
	}
	if bounds.Max != (geometry.Vector3{X: 10, Y: 10, Z: 10}) {
		t.Errorf("bounds.Max = %v", bounds.Max)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a", Position: geometry.Vector3{X: 1}}},
	}

	Apply(g, map[string]geometry.Vector3{"a": {X: 99}})

	if g.Nodes[0].Position != (geometry.Vector3{X: 1}) {
		t.Errorf("input graph mutated: %v", g.Nodes[0].Position)
	}
}

func TestApply_RoundTripThroughState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 20

	res, err := Run(context.Background(), lineGraph(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	projected, _ := Apply(lineGraph(), res.Positions)

	// Feeding the projected graph back into a state must reproduce the
	// simulated positions exactly.
	s := NewState(projected)
	for id, want := range res.Positions {
		got, ok := s.Position(id)
		if !ok {
			t.Fatalf("node %s missing from round-tripped state", id)
		}
		if got != want {
			t.Errorf("node %s: round-trip position %v, want %v", id, got, want)
		}
	}
}
