package layout

import (
	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
)

// Spring is an edge resolved to arena indices. Only edges whose endpoints
// both exist in the graph survive state construction; the rest are dropped
// silently, consistent with the drop-don't-throw policy used throughout
// the core.
type Spring struct {
	Source int
	Target int
	Weight float64
}

// State is the working arena for one simulation run: contiguous position,
// velocity, and force slices indexed by a stable integer, plus an
// id → index side table. Each run owns its State exclusively; concurrent
// runs over different graphs share nothing.
type State struct {
	ids   []string
	index map[string]int

	pos   []geometry.Vector3
	vel   []geometry.Vector3
	force []geometry.Vector3
	mass  []float64
	fixed []bool

	springs []Spring

	iteration  int
	kinetic    float64
	stabilized bool
	bounds     geometry.BoundingBox
}

// NewState builds a physics-ready working copy of the graph: positions are
// copied from the nodes, velocities and forces start at zero, mass defaults
// to 1 unless a style hint overrides it, and fixed flags are taken from the
// style hints. Initial kinetic energy is zero and the bounding box covers
// the copied positions.
func NewState(g *graph.Graph) *State {
	n := len(g.Nodes)
	s := &State{
		ids:    make([]string, n),
		index:  make(map[string]int, n),
		pos:    make([]geometry.Vector3, n),
		vel:    make([]geometry.Vector3, n),
		force:  make([]geometry.Vector3, n),
		mass:   make([]float64, n),
		fixed:  make([]bool, n),
		bounds: geometry.NewBoundingBox(),
	}

	for i := range g.Nodes {
		node := &g.Nodes[i]
		s.ids[i] = node.ID
		s.index[node.ID] = i
		s.pos[i] = node.Position
		s.mass[i] = node.Mass()
		s.fixed[i] = node.IsFixed()
		s.bounds = s.bounds.Expand(node.Position)
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		src, okS := s.index[e.Source]
		dst, okT := s.index[e.Target]
		if !okS || !okT {
			continue // dangling endpoint, drop
		}
		s.springs = append(s.springs, Spring{
			Source: src,
			Target: dst,
			Weight: e.EffectiveWeight(),
		})
	}

	return s
}

// Len returns the number of nodes in the arena.
func (s *State) Len() int { return len(s.ids) }

// SpringCount returns the number of resolved springs.
func (s *State) SpringCount() int { return len(s.springs) }

// Iteration returns the number of completed iterations.
func (s *State) Iteration() int { return s.iteration }

// KineticEnergy returns the total kinetic energy after the last iteration.
func (s *State) KineticEnergy() float64 { return s.kinetic }

// Stabilized reports whether the simulation has converged.
func (s *State) Stabilized() bool { return s.stabilized }

// Bounds returns the bounding box over current node positions.
func (s *State) Bounds() geometry.BoundingBox { return s.bounds }

// Position returns the current position of the node with the given id.
func (s *State) Position(id string) (geometry.Vector3, bool) {
	i, ok := s.index[id]
	if !ok {
		return geometry.Vector3{}, false
	}
	return s.pos[i], true
}

// Positions extracts an id → position map of the current arena contents.
func (s *State) Positions() map[string]geometry.Vector3 {
	out := make(map[string]geometry.Vector3, len(s.ids))
	for i, id := range s.ids {
		out[id] = s.pos[i]
	}
	return out
}

// recomputeBounds rebuilds the bounding box over all current positions.
func (s *State) recomputeBounds() {
	b := geometry.NewBoundingBox()
	for i := range s.pos {
		b = b.Expand(s.pos[i])
	}
	s.bounds = b
}
