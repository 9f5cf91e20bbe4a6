package lod

import "github.com/graphscape/graphscape/pkg/graph"

// RecommendedLevel picks a detail tier for a graph of the given size: small
// graphs get full detail, very large ones only the coarsest outline.
func RecommendedLevel(nodeCount int) int {
	switch {
	case nodeCount < 50:
		return 5
	case nodeCount < 200:
		return 4
	case nodeCount < 500:
		return 3
	case nodeCount < 1000:
		return 2
	case nodeCount < 5000:
		return 1
	default:
		return 0
	}
}

// Diff reports which nodes become newly visible and newly hidden when the
// detail level moves from one tier to another. Moving to a finer tier only
// shows nodes; moving to a coarser one only hides them.
func Diff(g *graph.Graph, from, to int) (shown, hidden []graph.Node) {
	switch {
	case to > from:
		for _, n := range g.Nodes {
			if n.DetailLevel > from && n.DetailLevel <= to {
				shown = append(shown, n)
			}
		}
	case to < from:
		for _, n := range g.Nodes {
			if n.DetailLevel > to && n.DetailLevel <= from {
				hidden = append(hidden, n)
			}
		}
	}
	return shown, hidden
}

// Histogram counts nodes per detail tier. PerLevel[i] is the number of
// nodes at exactly tier i; Cumulative[i] is the number visible at tier i,
// i.e. the running sum of PerLevel through i.
type Histogram struct {
	PerLevel   [graph.MaxDetailLevel + 1]int `json:"per_level"`
	Cumulative [graph.MaxDetailLevel + 1]int `json:"cumulative"`
}

// LevelHistogram tallies g's nodes across all six detail tiers. Nodes with
// out-of-range levels are ignored.
func LevelHistogram(g *graph.Graph) Histogram {
	var h Histogram
	for _, n := range g.Nodes {
		if n.DetailLevel >= graph.MinDetailLevel && n.DetailLevel <= graph.MaxDetailLevel {
			h.PerLevel[n.DetailLevel]++
		}
	}
	total := 0
	for i := range h.PerLevel {
		total += h.PerLevel[i]
		h.Cumulative[i] = total
	}
	return h
}
