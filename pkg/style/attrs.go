package style

import (
	"math"

	"github.com/matzehuels/movegraph/pkg/graph"
)

// NodeDiameter returns the node's width and height. It reads the record's
// own parent and child lists, so references to missing moves still count.
func NodeDiameter(cfg Config, n *graph.Node) float64 {
	children := max(1, len(n.Children))
	parents := max(1, len(n.Parents))
	return cfg.BaseDiameter + float64(children+parents)*cfg.PerEdgeIncrement
}

// NodeColor returns the fill and border color for n. A uniform
// [Config.NodeColor] wins over the palette; unknown types get
// [Config.DefaultColor].
func NodeColor(cfg Config, n *graph.Node) (fill, border string) {
	c := cfg.NodeColor
	if c == "" {
		c = TypeColor(cfg, n.Type)
	}
	return c, c
}

// TypeColor looks up a move type in the palette.
func TypeColor(cfg Config, typ string) string {
	if c, ok := cfg.Palette[typ]; ok && c != "" {
		return c
	}
	return cfg.DefaultColor
}

// FontSize returns the label size for n at the given zoom.
func FontSize(cfg Config, n *graph.Node, zoom float64) float64 {
	return FontSizeFor(cfg, NodeDiameter(cfg, n), zoom)
}

// FontSizeFor is [FontSize] for a precomputed diameter.
func FontSizeFor(cfg Config, diameter, zoom float64) float64 {
	zoom = NormalizeZoom(zoom)
	return math.Max(cfg.MinFontSize, math.Min(diameter*cfg.LabelScale, cfg.MaxFontSize/zoom))
}

// EdgeWidth returns the edge stroke width at the given zoom. It never
// exceeds MaxEdgeWidth and never grows as zoom increases.
func EdgeWidth(cfg Config, zoom float64) float64 {
	zoom = NormalizeZoom(zoom)
	return math.Min(cfg.MaxEdgeWidth, cfg.MaxEdgeWidth/zoom)
}

// ArrowScale returns the arrowhead scale at the given zoom.
func ArrowScale(cfg Config, zoom float64) float64 {
	return math.Min(1, EdgeWidth(cfg, zoom))
}

// NormalizeZoom maps unusable zoom levels to 1.
func NormalizeZoom(zoom float64) float64 {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return 1
	}
	return zoom
}

// NodeAttrs are the computed attributes of one node.
type NodeAttrs struct {
	Diameter    float64 `json:"diameter"`
	FontSize    float64 `json:"font_size"`
	Fill        string  `json:"fill"`
	Border      string  `json:"border"`
	BorderWidth float64 `json:"border_width"`
	LabelColor  string  `json:"label_color"`
	Label       string  `json:"label"`
	ShowLabel   bool    `json:"show_label"`
	Image       string  `json:"image,omitempty"`
}

// EdgeAttrs are the computed attributes shared by every edge.
type EdgeAttrs struct {
	Width      float64 `json:"width"`
	ArrowScale float64 `json:"arrow_scale"`
	LineColor  string  `json:"line_color"`
	ArrowColor string  `json:"arrow_color"`
	ArrowShape string  `json:"arrow_shape"`
	Curve      Curve   `json:"curve"`
}

// ComputeNode bundles every node attribute at the given zoom.
func ComputeNode(cfg Config, n *graph.Node, zoom float64) NodeAttrs {
	d := NodeDiameter(cfg, n)
	fill, border := NodeColor(cfg, n)
	return NodeAttrs{
		Diameter:    d,
		FontSize:    FontSizeFor(cfg, d, zoom),
		Fill:        fill,
		Border:      border,
		BorderWidth: cfg.BorderWidth,
		LabelColor:  cfg.LabelColor,
		Label:       n.Label,
		ShowLabel:   !cfg.HideLabels,
		Image:       n.Image,
	}
}

// ComputeEdge returns the edge attributes at the given zoom. Edges are
// styled uniformly so no edge argument is needed.
func ComputeEdge(cfg Config, zoom float64) EdgeAttrs {
	return EdgeAttrs{
		Width:      EdgeWidth(cfg, zoom),
		ArrowScale: ArrowScale(cfg, zoom),
		LineColor:  cfg.EdgeColor,
		ArrowColor: cfg.EdgeColor,
		ArrowShape: "triangle",
		Curve:      cfg.Curve,
	}
}

// Diameters returns NodeDiameter for every node, keyed by ID.
func Diameters(cfg Config, g *graph.Graph) map[string]float64 {
	sizes := make(map[string]float64, g.NodeCount())
	for _, n := range g.Nodes() {
		sizes[n.ID] = NodeDiameter(cfg, n)
	}
	return sizes
}
