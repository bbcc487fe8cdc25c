// Package pkg provides the core libraries for VishMaker requirement canvases.
//
// # Overview
//
// VishMaker transforms hierarchical requirement trees (Flow → HighLevelRequirement
// → LowLevelRequirement → TestCase) into layered table-node diagrams that a
// canvas renderer can display without further layout work. The pkg directory
// is organized into five main areas:
//
//  1. [project] - Domain model (requirement trees, validation, normalization)
//  2. [canvas] - The hierarchy-to-graph transformer (columns, cursors, edges)
//  3. [pipeline] - Orchestration (ingest → layout → render) with caching
//  4. [store] / [cache] - Persistence and content-addressed caching
//  5. [errors] / [observability] / [buildinfo] - Cross-cutting support
//
// # Architecture
//
// The typical data flow:
//
//	Requirements file / API request
//	         ↓
//	    [project] package (normalize + validate the tree)
//	         ↓
//	    [canvas] package (four-column layered layout)
//	         ↓
//	    [canvas/sink] package (JSON, DOT, SVG artifacts)
//
// The [pipeline] package wires these stages together with content-hash
// caching, and both the CLI and the HTTP server go through it so layout
// behavior is identical across entry points.
//
// # Quick Start
//
// Lay out a tree and render the canvas document:
//
//	import (
//	    "context"
//	    "github.com/gauravm26/vishmaker/pkg/pipeline"
//	    "github.com/gauravm26/vishmaker/pkg/project"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    ProjectID: "webshop",
//	    Flows:     flows,
//	    Formats:   []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//
// # Main Packages
//
// [project] - The requirements domain model. A Project owns Flows, each Flow
// owns HighLevelRequirements, and so on down to TestCases. Validation enforces
// per-level identity uniqueness; normalization coerces absent child
// collections to empty slices.
//
// [canvas] - The hierarchy-to-graph transformer. Entities become rows in
// per-scope tables, tables sit in four fixed columns, and per-scope vertical
// cursors with descendant propagation keep sibling subtrees from overlapping.
//
// [canvas/sink] - Output formats: the renderer JSON document, Graphviz DOT,
// a self-contained SVG, and DOT rasterized through the embedded Graphviz
// engine.
//
// [pipeline] - The ingest → layout → render runner shared by CLI and API.
// Canvases are cached by tree-content hash plus geometry; artifacts by canvas
// hash plus format.
//
// [store] - Project persistence with memory and MongoDB backends.
//
// [cache] - Content-addressed caching with file, Redis, and null backends.
//
// [errors] - Structured errors with machine-readable codes shared by the API
// error envelope and the CLI.
//
// [observability] - Optional instrumentation hooks for pipeline and cache
// events.
//
// [project]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/project
// [canvas]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/canvas
// [canvas/sink]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/canvas/sink
// [pipeline]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/store
// [cache]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/cache
// [errors]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/errors
// [observability]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/gauravm26/vishmaker/pkg/buildinfo
package pkg
