// Package pkg provides the core libraries for Graphscape repository-graph
// layout.
//
// # Overview
//
// Graphscape turns code-repository graphs (packages, files, classes,
// functions and the edges between them) into positioned 3D scenes a
// rendering frontend can display. The pkg directory is organized into five
// main areas:
//
//  1. [graph] - The canonical graph model and its JSON serialization
//  2. [geometry] - Vectors, bounding boxes, and coordinate helpers
//  3. [layout] - The force-directed simulator (exact and Barnes-Hut)
//  4. [lod] - Detail-level filtering with ancestor promotion and edge collapse
//  5. [pipeline] - Orchestration (load → layout → filter) shared by CLI and API
//
// Supporting packages: [cache] (file and Redis result caches), [store]
// (MongoDB layout persistence), [api] (HTTP surface), [errors] (coded
// errors), [observability] (hooks), and [buildinfo].
//
// # Architecture
//
// The typical data flow through Graphscape:
//
//	graph.json (repository structure)
//	         ↓
//	    [graph] package (parse + validate)
//	         ↓
//	    [layout] package (force simulation → positions)
//	         ↓
//	    [lod] package (detail-level view)
//	         ↓
//	    positioned view for a 3D frontend
//
// # Quick Start
//
// Lay out a graph and filter it to the recommended detail level:
//
//	import (
//	    "context"
//	    "github.com/graphscape/graphscape/pkg/graph"
//	    "github.com/graphscape/graphscape/pkg/layout"
//	    "github.com/graphscape/graphscape/pkg/lod"
//	)
//
//	// 1. Load the graph
//	g, _ := graph.ReadGraphFile("repo.json")
//
//	// 2. Simulate positions
//	res, _ := layout.Run(context.Background(), g, layout.DefaultConfig())
//	g, _ = layout.Apply(g, res.Positions)
//
//	// 3. Filter to a detail level
//	level := lod.RecommendedLevel(g.NodeCount())
//	view, _ := lod.Filter(g, lod.DefaultOptions(level))
//
// Most callers should use [pipeline] instead, which adds caching,
// persistence, and consistent validation on top of the same three steps.
//
// [graph]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/graph
// [geometry]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/geometry
// [layout]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/layout
// [lod]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/lod
// [pipeline]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/cache
// [store]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/store
// [api]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/api
// [errors]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/errors
// [observability]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/graphscape/graphscape/pkg/buildinfo
package pkg
