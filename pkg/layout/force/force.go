// Package force is a pure-Go physical layout engine.
//
// Starting from the seed, each step applies spring forces along edges,
// pairwise repulsion and a weak pull toward the centroid, then resolves
// overlaps so no two circles come closer than their radii plus the
// configured spacing. The simulation stops when movement falls below a
// threshold, after MaxSteps, or when the context expires; in every case the
// latest positions are returned.
package force

import (
	"context"
	"math"

	"github.com/matzehuels/movegraph/pkg/layout"
)

// Defaults for [Engine].
const (
	DefaultMaxSteps    = 500
	DefaultLinkLength  = 60
	DefaultRepulsion   = 4000
	DefaultGravity     = 0.01
	DefaultConvergence = 0.5
)

// Engine implements [layout.Engine] for [layout.ModePhysical].
type Engine struct {
	MaxSteps    int
	LinkLength  float64 // spring rest length added to both radii
	Repulsion   float64
	Gravity     float64
	Convergence float64 // stop once the largest step moves less than this
}

// New returns a force engine with default settings.
func New() *Engine {
	return &Engine{
		MaxSteps:    DefaultMaxSteps,
		LinkLength:  DefaultLinkLength,
		Repulsion:   DefaultRepulsion,
		Gravity:     DefaultGravity,
		Convergence: DefaultConvergence,
	}
}

// Name implements layout.Engine.
func (e *Engine) Name() string { return "force" }

type body struct {
	id     string
	x, y   float64
	radius float64
}

// Refine implements layout.Engine. Hierarchical requests are rejected with
// layout.ErrUnavailable. Context expiry is not an error: the simulation
// settles on what it has.
func (e *Engine) Refine(ctx context.Context, req layout.Request) (layout.Positions, error) {
	if req.Mode != layout.ModePhysical {
		return nil, layout.ErrUnavailable
	}
	g := req.Graph
	if g.Empty() {
		return layout.Positions{}, nil
	}

	ids := g.NodeIDs()
	index := make(map[string]int, len(ids))
	bodies := make([]body, len(ids))
	for i, id := range ids {
		p, ok := req.Seed[id]
		if !ok {
			// Unseeded nodes start on a small spiral so no two coincide.
			a := float64(i)
			p = layout.Point{X: a * math.Cos(a), Y: a * math.Sin(a)}
		}
		bodies[i] = body{id: id, x: p.X, y: p.Y, radius: req.Sizes[id] / 2}
		index[id] = i
	}

	var springs [][2]int
	for _, edge := range g.Edges() {
		if edge.From != edge.To {
			springs = append(springs, [2]int{index[edge.From], index[edge.To]})
		}
	}

	spacing := req.Physical.NodeSpacing
	temp := e.initialTemperature(bodies)
	for step := 0; step < e.maxSteps(); step++ {
		if ctx.Err() != nil {
			break
		}
		moved := e.step(bodies, springs, temp)
		if req.Physical.AvoidOverlap {
			moved = math.Max(moved, separate(bodies, spacing))
		}
		temp *= 0.98
		if moved < e.Convergence {
			break
		}
	}

	pos := make(layout.Positions, len(bodies))
	for _, b := range bodies {
		pos[b.id] = layout.Point{X: b.x, Y: b.y}
	}
	return pos, nil
}

func (e *Engine) maxSteps() int {
	if e.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return e.MaxSteps
}

func (e *Engine) initialTemperature(bodies []body) float64 {
	return math.Max(10, math.Sqrt(float64(len(bodies)))*e.LinkLength/2)
}

// step applies one round of forces and returns the largest displacement.
func (e *Engine) step(bodies []body, springs [][2]int, temp float64) float64 {
	fx := make([]float64, len(bodies))
	fy := make([]float64, len(bodies))

	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			dx, dy, d := delta(bodies, i, j)
			f := e.Repulsion / (d * d)
			fx[i] -= f * dx / d
			fy[i] -= f * dy / d
			fx[j] += f * dx / d
			fy[j] += f * dy / d
		}
	}

	for _, s := range springs {
		i, j := s[0], s[1]
		dx, dy, d := delta(bodies, i, j)
		rest := bodies[i].radius + bodies[j].radius + e.LinkLength
		f := (d - rest) * 0.1
		fx[i] += f * dx / d
		fy[i] += f * dy / d
		fx[j] -= f * dx / d
		fy[j] -= f * dy / d
	}

	cx, cy := centroid(bodies)
	for i := range bodies {
		fx[i] += (cx - bodies[i].x) * e.Gravity
		fy[i] += (cy - bodies[i].y) * e.Gravity
	}

	moved := 0.0
	for i := range bodies {
		m := math.Hypot(fx[i], fy[i])
		if m == 0 {
			continue
		}
		limit := math.Min(m, temp)
		bodies[i].x += fx[i] / m * limit
		bodies[i].y += fy[i] / m * limit
		moved = math.Max(moved, limit)
	}
	return moved
}

// separate pushes overlapping pairs apart and returns the largest push.
func separate(bodies []body, spacing float64) float64 {
	moved := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			dx, dy, d := delta(bodies, i, j)
			need := bodies[i].radius + bodies[j].radius + spacing
			if d >= need {
				continue
			}
			push := (need - d) / 2
			ux, uy := dx/d, dy/d
			bodies[i].x -= ux * push
			bodies[i].y -= uy * push
			bodies[j].x += ux * push
			bodies[j].y += uy * push
			moved = math.Max(moved, push)
		}
	}
	return moved
}

// delta returns the vector from i to j and its length. Coincident bodies
// get a fixed unit offset that depends on their indices.
func delta(bodies []body, i, j int) (dx, dy, d float64) {
	dx = bodies[j].x - bodies[i].x
	dy = bodies[j].y - bodies[i].y
	d = math.Hypot(dx, dy)
	if d < 1e-6 {
		a := float64(i*31+j) * 0.618
		dx, dy, d = math.Cos(a), math.Sin(a), 1
	}
	return dx, dy, d
}

func centroid(bodies []body) (x, y float64) {
	for _, b := range bodies {
		x += b.x
		y += b.y
	}
	n := float64(len(bodies))
	return x / n, y / n
}
