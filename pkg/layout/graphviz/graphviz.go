// Package graphviz refines layouts with the Graphviz engines bundled by
// go-graphviz: dot for [layout.ModeHierarchical] and neato, started from the
// seed positions, for [layout.ModePhysical].
//
// The graph is written as DOT with fixed-size circles, laid out, and the
// node positions are read back from the laid-out DOT. Graphviz runs in its
// own goroutine; if the simulation cap of a physical run expires first the
// engine reports [layout.ErrUnavailable], so the caller keeps the seed as an
// unrefined layout. Hierarchical runs return the context error.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/movegraph/pkg/layout"
)

// pointsPerInch converts between layout units (points) and Graphviz inches.
const pointsPerInch = 72

// DefaultMaxIter bounds neato's optimisation.
const DefaultMaxIter = 600

// Engine implements [layout.Engine] on top of go-graphviz.
type Engine struct {
	MaxIter int
	Logger  *log.Logger
}

// New returns an engine with default settings.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{MaxIter: DefaultMaxIter, Logger: logger}
}

// Name implements layout.Engine.
func (e *Engine) Name() string { return "graphviz" }

type outcome struct {
	pos layout.Positions
	err error
}

// Refine implements layout.Engine.
func (e *Engine) Refine(ctx context.Context, req layout.Request) (layout.Positions, error) {
	if req.Graph.Empty() {
		return layout.Positions{}, nil
	}
	ids := req.Graph.NodeIDs()
	src := e.ToDOT(req)

	done := make(chan outcome, 1)
	go func() {
		pos, err := run(ctx, src, engineFor(req.Mode), ids)
		done <- outcome{pos, err}
	}()

	select {
	case out := <-done:
		return out.pos, out.err
	case <-ctx.Done():
		if req.Mode == layout.ModePhysical && ctx.Err() == context.DeadlineExceeded {
			e.Logger.Debug("graphviz simulation cap reached", "nodes", len(ids))
			return nil, fmt.Errorf("%w: simulation cap reached", layout.ErrUnavailable)
		}
		return nil, ctx.Err()
	}
}

func engineFor(mode layout.Mode) graphviz.Layout {
	if mode == layout.ModeHierarchical {
		return graphviz.DOT
	}
	return graphviz.NEATO
}

func run(ctx context.Context, src string, engine graphviz.Layout, ids []string) (layout.Positions, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: init graphviz: %v", layout.ErrUnavailable, err)
	}
	defer gv.Close()
	gv.SetLayout(engine)

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, "dot", &buf); err != nil {
		return nil, fmt.Errorf("layout %s: %w", engine, err)
	}
	return ParsePositions(buf.Bytes(), ids)
}

// ToDOT writes the request as DOT. Nodes are named n0..nk in graph order so
// arbitrary move names never need escaping; sizes become fixed circle
// widths in inches and seed positions become neato start positions.
func (e *Engine) ToDOT(req layout.Request) string {
	var buf strings.Builder
	buf.WriteString("digraph G {\n")
	switch req.Mode {
	case layout.ModeHierarchical:
		h := req.Hierarchical
		fmt.Fprintf(&buf, "  rankdir=%s;\n", rankDir(h.RankDir))
		fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(h.RankSep))
		fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(h.NodeSep))
	default:
		p := req.Physical
		buf.WriteString("  inputscale=72;\n")
		fmt.Fprintf(&buf, "  maxiter=%d;\n", e.maxIter())
		if p.AvoidOverlap {
			buf.WriteString("  overlap=false;\n")
			fmt.Fprintf(&buf, "  sep=\"+%s\";\n", num(p.NodeSpacing/2))
		}
	}
	buf.WriteString("  node [shape=circle, fixedsize=true, label=\"\"];\n")

	index := make(map[string]int, req.Graph.NodeCount())
	for i, id := range req.Graph.NodeIDs() {
		index[id] = i
		attrs := []string{"width=" + inches(req.Sizes[id])}
		if p, ok := req.Seed[id]; ok && req.Mode == layout.ModePhysical {
			// Graphviz y grows upward.
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s\"", num(p.X), num(-p.Y)))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}
	for _, edge := range req.Graph.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", index[edge.From], index[edge.To])
	}
	buf.WriteString("}\n")
	return buf.String()
}

func (e *Engine) maxIter() int {
	if e.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return e.MaxIter
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*n(\d+)\s+\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="([-+0-9.eE]+),([-+0-9.eE]+)!?"`)
)

// ParsePositions reads node centers from laid-out DOT produced for ids.
// The y axis is flipped back so it grows downward.
func ParsePositions(dot []byte, ids []string) (layout.Positions, error) {
	pos := make(layout.Positions, len(ids))
	for _, m := range nodeStmtRe.FindAllSubmatch(dot, -1) {
		i, err := strconv.Atoi(string(m[1]))
		if err != nil || i >= len(ids) {
			continue
		}
		pm := posAttrRe.FindSubmatch(m[2])
		if pm == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pm[1]), 64)
		y, errY := strconv.ParseFloat(string(pm[2]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("node %s: bad pos %q", ids[i], pm[0])
		}
		pos[ids[i]] = layout.Point{X: x, Y: -y}
	}
	if len(pos) != len(ids) {
		return nil, fmt.Errorf("graphviz returned %d of %d positions", len(pos), len(ids))
	}
	return pos, nil
}

func rankDir(dir string) string {
	switch dir {
	case "BT", "LR", "RL":
		return dir
	default:
		return "TB"
	}
}

func inches(points float64) string { return num(points / pointsPerInch) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

var _ layout.Engine = (*Engine)(nil)
