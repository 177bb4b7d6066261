// Package server serves an interactive move graph over HTTP.
//
// A [Server] owns one [viewer.Session]. Browsers read the scene and
// styling through JSON endpoints, drive the session with UI events posted
// to /api/events, and receive style and reload notifications on a
// websocket:
//
//	GET  /                 index page
//	GET  /static/*         static assets (move images)
//	GET  /moveset          the raw moveset, 404 when none is loaded
//	GET  /api/graph        scene JSON (?mode, ?zoom, ?format=cytoscape)
//	GET  /api/graph.svg    the current scene rendered by Graphviz
//	GET  /api/nodes/{id}   tooltip data for one move
//	GET  /api/style        zoom-dependent attributes (?zoom)
//	POST /api/events       UI events: layout, curve, labels, colors, camera
//	GET  /ws               websocket notifications
//	GET  /healthz          liveness and load status
//	GET  /metrics          Prometheus metrics
//
// With Options.WatchPath set the moveset file is watched with fsnotify;
// edits reload the session and notify every websocket client.
//
// [viewer.Session]: github.com/matzehuels/movegraph/pkg/viewer.Session
package server
