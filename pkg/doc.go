// Package pkg provides the libraries behind movegraph, which draws a
// grappling moveset as an interactive node-link diagram.
//
// # Overview
//
// A moveset is a map from move name to record: the moves it follows from
// (parents), the moves it leads to (children), and display metadata such
// as type, area, image and video. Movegraph builds a directed graph from the
// child references, styles every node by type and connectivity, lays it out
// in one of three modes and renders it to static files, an HTTP view or the
// terminal.
//
// # Architecture
//
// The data flow through movegraph:
//
//	moveset file, URL or MongoDB collection
//	         ↓
//	    [moves] (load and decode records)
//	         ↓
//	    [graph] (nodes and parent → child edges)
//	         ↓
//	    [style] + [layout] (attributes, positions)
//	         ↓
//	    [render/scene] (render-ready element list)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON, Cytoscape.js JSON, HTTP, terminal
//
// # Main Packages
//
// [moves] - Moveset records and sources. Files (JSON or YAML), HTTP URLs and
// MongoDB collections all produce a complete moveset or an error.
//
// [graph] - The move graph with node-link JSON import and export.
// [graph/transform] holds the cycle breaking, layering and crossing
// reduction used by the native hierarchical engine.
//
// [style] - The stylesheet: diameters from connectivity, colors by type,
// zoom-dependent font and edge sizes, and user color overrides.
//
// [layout] - The three layout modes. Concentric runs locally; hierarchical
// (dagre) and physical (cola) refine the concentric seed with an [layout.Engine]:
// [layout/graphviz] or the native [layout/layered] and [layout/force] engines.
// The [layout.Orchestrator] cancels a run when a newer one starts.
//
// [viewport] - Camera state, focus animations and the notifier/reactor pair
// that restyles surfaces when the zoom changes.
//
// [viewer] - One interactive session: graph, style, overrides, positions and
// camera, driven by events. Used by the HTTP server and the terminal explorer.
//
// [render/scene] - Positioned, styled elements and their Cytoscape.js form.
//
// [render/nodelink] - Graphviz DOT and SVG output. [render] converts SVG to
// PNG and PDF.
//
// [pipeline] - The load → build → layout → render pipeline with caching,
// shared by every CLI command.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [server] - The HTTP front end with a websocket hub for live reload.
//
// [config] - The TOML configuration file.
//
// [errors] - Coded errors with HTTP status mapping and input validation.
//
// [httputil] - The retrying HTTP client used by remote sources.
//
// [observability] - Hooks for loads, layouts, renders, cache and HTTP, with a
// Prometheus implementation in [observability/prom].
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// The Redis cache tests run only when MOVEGRAPH_REDIS_ADDR is set.
package pkg
