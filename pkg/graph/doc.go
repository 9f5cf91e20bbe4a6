// Package graph defines the canonical graph model shared by the layout
// simulator, the LOD filter, and all rendering consumers.
//
// The model is intentionally small: typed nodes with integer detail levels
// (0 = coarsest, 5 = finest), optional parent pointers forming a containment
// hierarchy, 3D positions, and weighted typed edges. Graph construction -
// source parsing, dependency extraction, package classification - happens
// upstream; this package only carries the result.
//
// # Serialization
//
// Graphs serialize to JSON with deterministic ordering so that content
// hashes are stable:
//
//	data, err := graph.MarshalGraph(g)
//	g2, err := graph.UnmarshalGraph(data)
//
// All types also carry bson tags for storage in MongoDB.
package graph
