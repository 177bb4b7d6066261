// Package viewer is the boundary between the diagram core and interactive
// surfaces such as the terminal explorer and the HTTP server.
//
// A [Session] owns the graph, the style configuration with the user's
// overrides, the view state, the layout orchestrator and the zoom reactor.
// Surfaces translate their input into Session calls (SetLayoutMode, Zoom,
// Focus, SetNodeColor, ...) and read back a [scene.Scene] to draw.
//
// [Session.Initialize] is all-or-nothing: it loads, builds, lays out and
// styles the graph, and on any failure leaves the session without a graph.
//
// [scene.Scene]: github.com/matzehuels/movegraph/pkg/render/scene
package viewer
