// Package style computes the visual attributes of a move graph.
//
// Every attribute is a pure function of a [Config], a node's topology and
// the current zoom level. Nothing is cached on the graph: callers recompute
// on demand, which keeps zoom reactions cheap and deterministic.
//
// # Sizing
//
// A node's diameter grows with its record's parent and child lists, where an
// empty list counts as one:
//
//	diameter = BaseDiameter + (max(1, children) + max(1, parents)) * PerEdgeIncrement
//
// With the defaults (30 and 5) an isolated move is 40 units wide.
//
// # Zoom
//
// Labels and edges are kept readable when zoomed out and unobtrusive when
// zoomed in:
//
//	font  = max(MinFontSize, min(diameter*LabelScale, MaxFontSize/zoom))
//	width = min(MaxEdgeWidth, MaxEdgeWidth/zoom)
//	arrow = min(1, width)
//
// A zoom that is zero, negative, NaN or infinite is treated as 1.
//
// # Colors
//
// Nodes are colored by type through [Config.Palette], falling back to
// [Config.DefaultColor]. Fill and border always match. User choices such as
// a uniform node color are expressed as [Overrides] and applied with
// [Config.With].
package style
