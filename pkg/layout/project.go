package layout

import (
	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
)

// Apply projects converged positions back onto the canonical graph. It
// returns a copy of g in which every node whose id appears in positions
// carries the new position; nodes absent from the map keep their prior
// position. The returned bounding box is recomputed over the updated
// positions. The input graph is never mutated.
func Apply(g *graph.Graph, positions map[string]geometry.Vector3) (*graph.Graph, geometry.BoundingBox) {
	out := g.Clone()
	for i := range out.Nodes {
		if p, ok := positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out, out.BoundingBox()
}
