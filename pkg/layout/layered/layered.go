// Package layered is a pure-Go hierarchical layout engine.
//
// It follows the classic Sugiyama phases: back edges are removed so the
// graph is acyclic, nodes are ranked by longest path, each rank is ordered
// by barycenter sweeps to reduce crossings, and coordinates are assigned
// with the configured rank and sibling separation. Seed positions are not
// used; the result depends only on the graph and the node sizes.
package layered

import (
	"context"

	"github.com/matzehuels/movegraph/pkg/graph/transform"
	"github.com/matzehuels/movegraph/pkg/layout"
)

// DefaultPasses is the number of barycenter sweeps.
const DefaultPasses = 8

// Engine implements [layout.Engine] for [layout.ModeHierarchical].
type Engine struct {
	// Passes bounds the ordering sweeps; zero means DefaultPasses.
	Passes int
}

// New returns a layered engine with default settings.
func New() *Engine { return &Engine{} }

// Name implements layout.Engine.
func (e *Engine) Name() string { return "layered" }

// Refine implements layout.Engine. Physical requests are rejected with
// layout.ErrUnavailable.
func (e *Engine) Refine(ctx context.Context, req layout.Request) (layout.Positions, error) {
	if req.Mode != layout.ModeHierarchical {
		return nil, layout.ErrUnavailable
	}
	if req.Graph.Empty() {
		return layout.Positions{}, nil
	}

	passes := e.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	dag, _ := transform.BreakCycles(req.Graph)
	ranks := transform.AssignLayers(dag)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layers := transform.OrderLayers(dag, ranks, passes)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return place(layers, req.Sizes, req.Hierarchical), nil
}

// place assigns coordinates top to bottom. Each rank is as tall as its
// largest node and centered on the widest rank.
func place(layers [][]string, sizes map[string]float64, opts layout.HierarchicalOptions) layout.Positions {
	widths := make([]float64, len(layers))
	heights := make([]float64, len(layers))
	widest := 0.0
	for i, layer := range layers {
		for j, id := range layer {
			d := sizes[id]
			widths[i] += d
			if j > 0 {
				widths[i] += opts.NodeSep
			}
			heights[i] = max(heights[i], d)
		}
		widest = max(widest, widths[i])
	}

	pos := make(layout.Positions)
	y := 0.0
	for i, layer := range layers {
		if i > 0 {
			y += heights[i-1]/2 + opts.RankSep + heights[i]/2
		}
		x := (widest - widths[i]) / 2
		for _, id := range layer {
			d := sizes[id]
			pos[id] = layout.Point{X: x + d/2, Y: y}
			x += d + opts.NodeSep
		}
	}
	return orient(pos, opts.RankDir)
}

// orient rotates a top-to-bottom layout to the requested direction.
func orient(pos layout.Positions, dir string) layout.Positions {
	if dir == "" || dir == "TB" {
		return pos
	}
	out := make(layout.Positions, len(pos))
	for id, p := range pos {
		switch dir {
		case "BT":
			out[id] = layout.Point{X: p.X, Y: -p.Y}
		case "LR":
			out[id] = layout.Point{X: p.Y, Y: p.X}
		case "RL":
			out[id] = layout.Point{X: -p.Y, Y: p.X}
		default:
			out[id] = p
		}
	}
	return out
}
