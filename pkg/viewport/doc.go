// Package viewport tracks the camera and keeps zoom-dependent styling in
// step with it.
//
// A [Notifier] delivers camera [Event]s to subscribers. The [Reactor]
// subscribes on construction and, for every zoom change, recomputes edge
// width, arrow scale and label font sizes and applies them to a [Surface]
// in a single batch. Pan-only events are ignored. The reactor never moves
// nodes, recolors them or triggers a layout.
//
// [Focus] computes the click-to-focus camera move: center on a node and
// zoom so it spans a fixed fraction of the viewport width.
package viewport
