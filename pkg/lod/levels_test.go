package lod

import (
	"testing"

	"github.com/graphscape/graphscape/pkg/graph"
)

func TestRecommendedLevel(t *testing.T) {
	tests := []struct {
		nodeCount int
		want      int
	}{
		{0, 5},
		{49, 5},
		{50, 4},
		{199, 4},
		{200, 3},
		{499, 3},
		{500, 2},
		{999, 2},
		{1000, 1},
		{4999, 1},
		{5000, 0},
		{100000, 0},
	}

	for _, tt := range tests {
		if got := RecommendedLevel(tt.nodeCount); got != tt.want {
			t.Errorf("RecommendedLevel(%d) = %d, want %d", tt.nodeCount, got, tt.want)
		}
	}
}

func TestDiff(t *testing.T) {
	g := hierarchyGraph()

	// Refining 1 → 3 reveals dir, file1, file2.
	shown, hidden := Diff(g, 1, 3)
	if len(shown) != 3 || len(hidden) != 0 {
		t.Fatalf("Diff(1,3): %d shown, %d hidden; want 3, 0", len(shown), len(hidden))
	}
	ids := visibleIDs(shown)
	for _, want := range []string{"dir", "file1", "file2"} {
		if !ids[want] {
			t.Errorf("Diff(1,3) missing %s", want)
		}
	}

	// Coarsening 5 → 2 hides the four finest nodes.
	shown, hidden = Diff(g, 5, 2)
	if len(shown) != 0 || len(hidden) != 4 {
		t.Fatalf("Diff(5,2): %d shown, %d hidden; want 0, 4", len(shown), len(hidden))
	}

	// Same tier: no change either way.
	shown, hidden = Diff(g, 3, 3)
	if len(shown) != 0 || len(hidden) != 0 {
		t.Errorf("Diff(3,3): %d shown, %d hidden; want none", len(shown), len(hidden))
	}
}

func TestLevelHistogram(t *testing.T) {
	h := LevelHistogram(hierarchyGraph())

	wantPerLevel := [6]int{1, 1, 1, 2, 1, 1}
	if h.PerLevel != wantPerLevel {
		t.Errorf("PerLevel = %v, want %v", h.PerLevel, wantPerLevel)
	}
	wantCumulative := [6]int{1, 2, 3, 5, 6, 7}
	if h.Cumulative != wantCumulative {
		t.Errorf("Cumulative = %v, want %v", h.Cumulative, wantCumulative)
	}
}

func TestLevelHistogram_Empty(t *testing.T) {
	h := LevelHistogram(&graph.Graph{})
	if h.Cumulative[graph.MaxDetailLevel] != 0 {
		t.Errorf("empty graph cumulative total = %d", h.Cumulative[graph.MaxDetailLevel])
	}
}
