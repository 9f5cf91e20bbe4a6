package lod

import (
	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/graph"
)

// DefaultMinNodes is the graph size below which filtering is skipped
// entirely; the overhead is not worth it for small graphs.
const DefaultMinNodes = 100

// Options controls a single filter pass.
type Options struct {
	// Level is the target detail tier; elements above it are hidden.
	Level int `json:"level" toml:"level"`
	// IncludeAncestors promotes hidden ancestors of visible nodes, so a
	// node is never hidden while a descendant of it is shown.
	IncludeAncestors bool `json:"include_ancestors" toml:"include_ancestors"`
	// CollapseEdges redirects edges with hidden endpoints to the nearest
	// visible ancestor instead of dropping them.
	CollapseEdges bool `json:"collapse_edges" toml:"collapse_edges"`
	// MinNodes is the identity threshold; zero means DefaultMinNodes.
	MinNodes int `json:"min_nodes" toml:"min_nodes"`
}

// DefaultOptions returns the standard filter settings at the given level.
func DefaultOptions(level int) Options {
	return Options{
		Level:            level,
		IncludeAncestors: true,
		CollapseEdges:    true,
		MinNodes:         DefaultMinNodes,
	}
}

// Validate checks that the target level is a legal detail tier.
func (o Options) Validate() error {
	if o.Level < graph.MinDetailLevel || o.Level > graph.MaxDetailLevel {
		return errors.New(errors.ErrCodeInvalidLevel,
			"detail level %d out of range [%d, %d]",
			o.Level, graph.MinDetailLevel, graph.MaxDetailLevel)
	}
	return nil
}

// Result is the output of a filter pass. CollapsedEdges maps original edge
// ids to the id of the visible edge that replaced them; it is empty when
// nothing collapsed.
type Result struct {
	VisibleNodes    []graph.Node      `json:"visible_nodes"`
	VisibleEdges    []graph.Edge      `json:"visible_edges"`
	HiddenNodeCount int               `json:"hidden_node_count"`
	HiddenEdgeCount int               `json:"hidden_edge_count"`
	CollapsedEdges  map[string]string `json:"collapsed_edges"`
}

// Filter computes the view of g at the requested detail level. The input
// graph is never mutated. Structural defects (dangling parents, missing
// edge endpoints, unresolvable collapse targets) are dropped silently.
func Filter(g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	minNodes := opts.MinNodes
	if minNodes == 0 {
		minNodes = DefaultMinNodes
	}

	res := &Result{CollapsedEdges: map[string]string{}}

	if g.NodeCount() < minNodes {
		res.VisibleNodes = append([]graph.Node(nil), g.Nodes...)
		res.VisibleEdges = append([]graph.Edge(nil), g.Edges...)
		return res, nil
	}

	ancestors := ancestorMap(g)

	// === visibility ===

	visible := make(map[string]bool, len(g.Nodes))
	levels := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		levels[n.ID] = n.DetailLevel
		if n.DetailLevel <= opts.Level {
			visible[n.ID] = true
		}
	}

	if opts.IncludeAncestors {
		for id := range visible {
			for _, anc := range ancestors[id] {
				visible[anc] = true
			}
		}
	}

	for _, n := range g.Nodes {
		if visible[n.ID] {
			res.VisibleNodes = append(res.VisibleNodes, n)
		}
	}
	res.HiddenNodeCount = g.NodeCount() - len(res.VisibleNodes)

	// === edge resolution ===

	type edgeKey struct {
		source, target, category string
	}
	retained := make(map[edgeKey]string) // key → id of the first retained edge

	for _, e := range g.Edges {
		if e.DetailLevel > opts.Level {
			continue
		}

		source, ok := resolveEndpoint(e.Source, visible, ancestors, opts.CollapseEdges)
		if !ok {
			continue
		}
		target, ok := resolveEndpoint(e.Target, visible, ancestors, opts.CollapseEdges)
		if !ok {
			continue
		}
		if source == target {
			continue // self-loop from collapsing
		}

		redirected := source != e.Source || target != e.Target

		key := edgeKey{source, target, e.Category}
		if firstID, dup := retained[key]; dup {
			if redirected {
				res.CollapsedEdges[e.ID] = firstID
			}
			continue
		}
		retained[key] = e.ID

		out := e
		if redirected {
			out.Source = source
			out.Target = target
			out.Collapsed = true
			out.OriginalSource = e.Source
			out.OriginalTarget = e.Target
			res.CollapsedEdges[e.ID] = e.ID
		}
		res.VisibleEdges = append(res.VisibleEdges, out)
	}
	res.HiddenEdgeCount = g.EdgeCount() - len(res.VisibleEdges)

	return res, nil
}

// resolveEndpoint returns the visible node standing in for id: the node
// itself when visible, otherwise its nearest visible ancestor when
// collapsing is enabled. Unknown ids and ids with no visible ancestor
// report ok=false.
func resolveEndpoint(id string, visible map[string]bool, ancestors map[string][]string, collapse bool) (string, bool) {
	if visible[id] {
		return id, true
	}
	if !collapse {
		return "", false
	}
	for _, anc := range ancestors[id] {
		if visible[anc] {
			return anc, true
		}
	}
	return "", false
}

// ancestorMap walks parent pointers upward for every node, nearest ancestor
// first. Dangling parent references end the walk; a visited set guards
// against parent cycles, which upstream builders are supposed to prevent
// but are not trusted to.
func ancestorMap(g *graph.Graph) map[string][]string {
	known := make(map[string]bool, len(g.Nodes))
	parent := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
		parent[n.ID] = n.ParentID
	}

	chains := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		var chain []string
		visited := map[string]bool{n.ID: true}
		cur := n.ParentID
		for cur != "" && known[cur] && !visited[cur] {
			visited[cur] = true
			chain = append(chain, cur)
			cur = parent[cur]
		}
		chains[n.ID] = chain
	}
	return chains
}
