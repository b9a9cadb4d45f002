// Package pkg provides the core libraries for kinforge family tree tooling.
//
// # Overview
//
// Kinforge models a family tree as an immutable graph of people connected by
// parent/child links and partnerships, and turns that graph into deterministic
// generational diagrams. The pkg directory is organized into five main areas:
//
//  1. [familytree] - Domain logic (graph model, state transitions, queries)
//  2. [familytree/layout] - Deterministic 2D layout computation
//  3. [render] - Output formats (SVG, Graphviz DOT/PNG)
//  4. [treeio] / [treestore] - Serialization and persistence
//  5. [cache] - Layout and artifact caching (file, Redis)
//
// # Architecture
//
// The typical data flow through kinforge:
//
//	Actions (add, link, marry, ...)
//	         ↓
//	    [familytree] package (pure state transitions)
//	         ↓
//	    [familytree/layout] package (depths → rows → coordinates)
//	         ↓
//	    [render] package (SVG / DOT / PNG output)
//
// # Quick Start
//
// Build a small tree and render it:
//
//	import (
//	    "github.com/kinforge/kinforge/pkg/familytree"
//	    "github.com/kinforge/kinforge/pkg/familytree/layout"
//	    "github.com/kinforge/kinforge/pkg/render"
//	)
//
//	// 1. Apply actions to an empty graph
//	g := familytree.NewGraph()
//	g = familytree.Apply(g, familytree.UpsertPerson{
//	    Person: familytree.Person{ID: "ada", FirstName: "Ada"},
//	})
//	g = familytree.Apply(g, familytree.UpsertPerson{
//	    Person: familytree.Person{ID: "byron", FirstName: "Byron"},
//	})
//	g = familytree.Apply(g, familytree.LinkParentChild{ParentID: "byron", ChildID: "ada"})
//	g = familytree.Apply(g, familytree.SetRootPerson{RootID: familytree.StringPtr("ada")})
//
//	// 2. Compute the layout
//	l := layout.Compute(g)
//
//	// 3. Render to SVG
//	svg := render.RenderSVG(l)
//
// # Main Packages
//
// [familytree] - The graph model and its seven-action transition function.
// Every write goes through [familytree.Apply], which returns a new sanitized
// snapshot and never mutates its input. Includes query helpers (descendant
// checks, union partners) and an advisory consistency validator.
//
// [familytree/layout] - Deterministic layout: BFS depth assignment from the
// root, row grouping, greedy spouse adjacency, fixed-gap packing, and union
// marker placement. Identical graphs always produce identical layouts.
//
// [render] - SVG rendering with an options pattern (background, accent,
// id display) plus Graphviz export via DOT for PNG output.
//
// [treeio] - JSON wire format for graphs and the versioned multi-tree
// collection wrapper, including migration from pre-wrapper files.
//
// [treestore] - Collection persistence: FileStore (atomic JSON file writes)
// for the CLI, MongoStore for server deployments.
//
// [cache] - Content-addressed caching of computed layouts and rendered
// artifacts. FileCache for the CLI, RedisCache for servers, NullCache to
// disable caching.
//
// [config] - TOML configuration with working defaults for every field.
//
// [errors] - Structured errors with machine-readable codes shared by the CLI
// and the HTTP API.
//
// [observability] - Optional hooks for store, layout, and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/familytree/...      # Specific package
//
// [familytree]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/familytree
// [familytree/layout]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/familytree/layout
// [render]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/render
// [treeio]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/treeio
// [treestore]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/treestore
// [cache]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/cache
// [config]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/config
// [errors]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/kinforge/kinforge/pkg/observability
package pkg
