package graph

import (
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/geometry"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Detail level bounds. Level 0 is the coarsest tier (repository overview),
// level 5 the finest (individual methods).
const (
	MinDetailLevel = 0
	MaxDetailLevel = 5
)

// Common node categories produced by upstream graph builders. The layout
// and LOD core treats categories as opaque strings; these constants exist
// for tests and downstream consumers.
const (
	CategoryRepository = "repository"
	CategoryPackage    = "package"
	CategoryDirectory  = "directory"
	CategoryFile       = "file"
	CategoryClass      = "class"
	CategoryFunction   = "function"
	CategoryMethod     = "method"
)

// Common edge categories.
const (
	EdgeContains = "contains"
	EdgeImports  = "imports"
	EdgeCalls    = "calls"
	EdgeInherits = "inherits"
)

// =============================================================================
// Graph - Canonical Model
// =============================================================================

// Graph is the canonical graph representation shared by the layout
// simulator, the LOD filter, and every exporter.
//
// The format is designed for round-trip fidelity: import → layout →
// export → re-import preserves all fields.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Node returns a pointer to the node with the given id, or nil and false
// if no such node exists. Lookup is linear; callers that resolve many ids
// should build an index with NodeIndex instead.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// NodeIndex builds an id → node lookup map over the graph's nodes.
// The pointers refer into the graph's node slice.
func (g *Graph) NodeIndex() map[string]*Node {
	idx := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		idx[g.Nodes[i].ID] = &g.Nodes[i]
	}
	return idx
}

// BoundingBox returns the smallest box containing every node position.
// An empty graph yields the empty box.
func (g *Graph) BoundingBox() geometry.BoundingBox {
	b := geometry.NewBoundingBox()
	for i := range g.Nodes {
		b = b.Expand(g.Nodes[i].Position)
	}
	return b
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	for i := range out.Nodes {
		if s := g.Nodes[i].Style; s != nil {
			styleCopy := *s
			out.Nodes[i].Style = &styleCopy
		}
	}
	return out
}

// Validate checks structural integrity: unique non-empty node ids, detail
// levels within [MinDetailLevel, MaxDetailLevel], and non-negative edge
// weights. It does NOT verify edge endpoints or parent pointers - dangling
// references are tolerated throughout the core (dropped, never surfaced).
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node %d has empty id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.DetailLevel < MinDetailLevel || n.DetailLevel > MaxDetailLevel {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q detail level %d out of range [%d, %d]",
				n.ID, n.DetailLevel, MinDetailLevel, MaxDetailLevel)
		}
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Source == "" || e.Target == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %q missing endpoint", e.ID)
		}
		if e.Weight < 0 {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %q has negative weight %v", e.ID, e.Weight)
		}
	}
	return nil
}

// =============================================================================
// Node
// =============================================================================

// Node is a vertex in the canonical graph: a file, class, function, or
// other source entity. DetailLevel is assigned once at graph-build time
// and read-only inside this core.
type Node struct {
	ID          string           `json:"id" bson:"id"`
	Category    string           `json:"category,omitempty" bson:"category,omitempty"`
	DetailLevel int              `json:"detail_level" bson:"detail_level"`
	ParentID    string           `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Position    geometry.Vector3 `json:"position" bson:"position"`
	Style       *Style           `json:"style,omitempty" bson:"style,omitempty"`
}

// Style carries optional per-node layout hints. Most nodes have none, so
// the field is a pointer and omitted from serialization when absent.
type Style struct {
	Size  float64 `json:"size,omitempty" bson:"size,omitempty"`
	Mass  float64 `json:"mass,omitempty" bson:"mass,omitempty"`
	Fixed bool    `json:"fixed,omitempty" bson:"fixed,omitempty"`
}

// Mass returns the simulation mass for the node: the style override when
// set to a positive value, otherwise 1.
func (n *Node) Mass() float64 {
	if n.Style != nil && n.Style.Mass > 0 {
		return n.Style.Mass
	}
	return 1
}

// IsFixed reports whether the node is pinned: excluded from force
// integration while still exerting force on others.
func (n *Node) IsFixed() bool {
	return n.Style != nil && n.Style.Fixed
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed, typed relation between two nodes.
//
// Collapsed edges are produced by the LOD filter when true endpoints are
// hidden at the current detail level: the edge is redirected to the nearest
// visible ancestors and tagged with the original endpoints for traceability.
type Edge struct {
	ID          string  `json:"id" bson:"id"`
	Source      string  `json:"source" bson:"source"`
	Target      string  `json:"target" bson:"target"`
	DetailLevel int     `json:"detail_level" bson:"detail_level"`
	Weight      float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Category    string  `json:"category,omitempty" bson:"category,omitempty"`
	Label       string  `json:"label,omitempty" bson:"label,omitempty"`

	Collapsed      bool   `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	OriginalSource string `json:"original_source,omitempty" bson:"original_source,omitempty"`
	OriginalTarget string `json:"original_target,omitempty" bson:"original_target,omitempty"`
}

// EffectiveWeight returns the spring weight for the edge: Weight when set
// to a positive value, otherwise the default of 1. A serialized weight of
// zero is treated as unset.
func (e *Edge) EffectiveWeight() float64 {
	if e.Weight > 0 {
		return e.Weight
	}
	return 1
}
