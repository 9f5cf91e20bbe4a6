package layout

import (
	"math"

	"github.com/graphscape/graphscape/pkg/geometry"
)

// octant is one cube in the Barnes-Hut octree. Leaves hold a single body
// index; internal cells aggregate their subtree into a centroid and count.
type octant struct {
	center   geometry.Vector3 // cube center
	halfSize float64

	body     int  // body index for leaves, -1 otherwise
	occupied bool // leaf holds a body
	internal bool // cell has children

	count    float64          // bodies in subtree
	centroid geometry.Vector3 // mean position of subtree bodies

	children [8]*octant
}

func newOctant(center geometry.Vector3, halfSize float64) *octant {
	return &octant{center: center, halfSize: halfSize, body: -1}
}

// childIndex maps a position to one of the eight sub-cubes.
func (o *octant) childIndex(p geometry.Vector3) int {
	idx := 0
	if p.X >= o.center.X {
		idx |= 1
	}
	if p.Y >= o.center.Y {
		idx |= 2
	}
	if p.Z >= o.center.Z {
		idx |= 4
	}
	return idx
}

func (o *octant) childAt(idx int) *octant {
	if o.children[idx] == nil {
		quarter := o.halfSize / 2
		offset := geometry.Vector3{X: -quarter, Y: -quarter, Z: -quarter}
		if idx&1 != 0 {
			offset.X = quarter
		}
		if idx&2 != 0 {
			offset.Y = quarter
		}
		if idx&4 != 0 {
			offset.Z = quarter
		}
		o.children[idx] = newOctant(o.center.Add(offset), quarter)
	}
	return o.children[idx]
}

// insert adds a body to the subtree. Coincident bodies are absorbed into
// the aggregate once cells become degenerately small, which keeps the
// recursion bounded for exactly overlapping positions.
func (o *octant) insert(body int, p geometry.Vector3, depth int) {
	o.count++
	o.centroid = o.centroid.Add(p.Sub(o.centroid).Scale(1 / o.count))

	const maxDepth = 64
	if depth >= maxDepth {
		return
	}

	if o.internal {
		o.childAt(o.childIndex(p)).insert(body, p, depth+1)
		return
	}

	if !o.occupied {
		o.body = body
		o.occupied = true
		return
	}

	// Split the leaf: push the resident body down, then the new one.
	// At this point count is exactly 2, so the resident position can be
	// recovered from the running centroid.
	resident := o.body
	residentPos := o.centroid.Scale(o.count).Sub(p)
	o.internal = true
	o.body = -1

	o.childAt(o.childIndex(residentPos)).insert(resident, residentPos, depth+1)
	o.childAt(o.childIndex(p)).insert(body, p, depth+1)
}

// applyRepulsionBarnesHut approximates the pairwise repulsion pass with an
// octree: cells far enough away (cellSize/distance < theta) act as a single
// aggregated body at their centroid.
func (s *Simulator) applyRepulsionBarnesHut() {
	st := s.state
	n := len(st.pos)
	if n < 2 {
		return
	}

	// Root cube covering all positions.
	bounds := geometry.NewBoundingBox()
	for i := range st.pos {
		bounds = bounds.Expand(st.pos[i])
	}
	size := bounds.Size()
	half := math.Max(math.Max(size.X, size.Y), size.Z) / 2
	if half == 0 {
		half = minEffectiveDistance
	}
	root := newOctant(bounds.Center(), half)

	for i := range st.pos {
		root.insert(i, st.pos[i], 0)
	}

	for i := range st.pos {
		if st.fixed[i] {
			continue // fixed nodes exert force but accumulate none
		}
		st.force[i] = st.force[i].Add(s.repulsionFromTree(root, i))
	}
}

// repulsionFromTree walks the octree accumulating the repulsion acting on
// body i, opening cells that fail the theta criterion.
func (s *Simulator) repulsionFromTree(o *octant, i int) geometry.Vector3 {
	if o == nil || o.count == 0 {
		return geometry.Vector3{}
	}

	p := s.state.pos[i]

	// Leaf: direct interaction, skipping self.
	if !o.internal {
		if o.body == i {
			if o.count <= 1 {
				return geometry.Vector3{}
			}
			// Aggregate of bodies coincident with i beyond the depth cap.
			return s.repulsionBetween(p, o.centroid, o.count-1)
		}
		return s.repulsionBetween(p, o.centroid, o.count)
	}

	dist := p.Distance(o.centroid)
	cellSize := o.halfSize * 2
	if dist > 0 && cellSize/dist < s.cfg.Theta {
		return s.repulsionBetween(p, o.centroid, o.count)
	}

	var total geometry.Vector3
	for _, child := range o.children {
		total = total.Add(s.repulsionFromTree(child, i))
	}
	return total
}
