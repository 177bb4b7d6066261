package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/movegraph/pkg/render"
	"github.com/matzehuels/movegraph/pkg/render/scene"
	"github.com/matzehuels/movegraph/pkg/style"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the move type and area below each label.
	Detailed bool
}

// ToDOT converts a scene to Graphviz DOT with pinned node positions.
// Coordinates are layout units, which DOT reads as points; y is flipped
// because Graphviz grows upward.
func ToDOT(s scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background)
	fmt.Fprintf(&buf, "  splines=%s;\n", splines(s.Config.Curve))
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [arrowhead=normal];\n")
	buf.WriteString("\n")

	top := s.Bounds.MaxY
	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, top, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		a := e.Attrs
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%s, arrowsize=%s];\n",
			e.Source, e.Target, a.LineColor, num(a.Width), num(a.ArrowScale))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n scene.Node, top float64, detailed bool) []string {
	a := n.Attrs
	attrs := []string{
		fmt.Sprintf("label=%q", label(n, detailed)),
		"width=" + num(a.Diameter/72),
		fmt.Sprintf("fillcolor=%q", a.Fill),
		fmt.Sprintf("color=%q", a.Border),
		"penwidth=" + num(a.BorderWidth),
		"fontsize=" + num(a.FontSize),
		fmt.Sprintf("fontcolor=%q", a.LabelColor),
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.Position.X), num(top-n.Position.Y)),
		fmt.Sprintf("tooltip=%q", n.Label),
	}
	if n.Video != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", n.Video))
	}
	return attrs
}

func label(n scene.Node, detailed bool) string {
	if !n.Attrs.ShowLabel {
		return ""
	}
	if !detailed {
		return n.Attrs.Label
	}
	parts := []string{n.Attrs.Label}
	if n.Type != "" {
		parts = append(parts, n.Type)
	}
	if n.Area != "" {
		parts = append(parts, n.Area)
	}
	return strings.Join(parts, "\n")
}

// splines maps a curve style to the closest Graphviz splines value.
func splines(c style.Curve) string {
	switch c {
	case style.CurveBezier, style.CurveUnbundledBezier:
		return "true"
	case style.CurveTaxi:
		return "ortho"
	case style.CurveSegments:
		return "polyline"
	default:
		return "line"
	}
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG lays out DOT produced by [ToDOT] with pinned positions and
// returns SVG bytes ready for display or conversion with [render.ToPDF] or
// [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NOP2)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so browsers scale the diagram to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT as PNG via SVG conversion. A scale of 2.0 produces
// a 2x image for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
