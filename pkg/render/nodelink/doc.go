// Package nodelink renders a move graph scene as a node-link diagram.
//
// [ToDOT] writes the scene as Graphviz DOT: every move is a fixed-size
// filled circle pinned at its layout position, every edge carries the
// computed stroke width, arrow scale and color, and the curve style maps to
// Graphviz splines. [RenderSVG] lays the DOT out with the nop2 engine,
// which keeps node positions and only routes edges, so the picture matches
// the layout exactly.
//
//	sc := scene.Build(g, cfg, res.Final(), 1)
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(sc, nodelink.Options{}))
//
// PNG and PDF go through SVG and need librsvg (rsvg-convert).
package nodelink
