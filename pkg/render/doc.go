// Package render turns laid-out move graphs into images.
//
// The [scene] subpackage assembles the styled, positioned element list and
// its Cytoscape.js form. The [nodelink] subpackage writes that scene as
// Graphviz DOT with pinned positions and renders SVG in-process through
// go-graphviz.
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// from librsvg:
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(sc, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [scene]: github.com/matzehuels/movegraph/pkg/render/scene
// [nodelink]: github.com/matzehuels/movegraph/pkg/render/nodelink
package render
