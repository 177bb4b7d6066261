// Package scene assembles the render-ready element list: every node with
// its position and computed attributes, every edge with its attributes,
// and the view-level settings renderers need.
//
// A [Scene] is a snapshot for one (graph, style, positions, zoom) tuple.
// It is consumed by the nodelink renderer, the HTTP API and the terminal
// explorer, and converts to Cytoscape.js JSON with [Scene.Cytoscape].
package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/style"
)

// Node is a positioned, styled move.
type Node struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Type     string          `json:"type,omitempty"`
	Area     string          `json:"area,omitempty"`
	Image    string          `json:"image,omitempty"`
	Video    string          `json:"video,omitempty"`
	Path     []string        `json:"path,omitempty"`
	Parents  []string        `json:"parents,omitempty"`
	Children []string        `json:"children,omitempty"`
	Position layout.Point    `json:"position"`
	Placed   bool            `json:"placed"`
	Attrs    style.NodeAttrs `json:"attrs"`
}

// Edge is a styled parent → child link.
type Edge struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Target string          `json:"target"`
	Attrs  style.EdgeAttrs `json:"attrs"`
}

// Scene is the full element list plus view settings.
type Scene struct {
	Nodes      []Node       `json:"nodes"`
	Edges      []Edge       `json:"edges"`
	Background string       `json:"background"`
	Zoom       float64      `json:"zoom"`
	Bounds     layout.Rect  `json:"bounds"`
	Mode       layout.Mode  `json:"mode,omitempty"`
	Config     style.Config `json:"-"`
}

// Build styles every element of g at zoom. Nodes without a position keep
// the zero point and Placed=false.
func Build(g *graph.Graph, cfg style.Config, positions layout.Positions, zoom float64) Scene {
	zoom = style.NormalizeZoom(zoom)
	s := Scene{
		Nodes:      make([]Node, 0, g.NodeCount()),
		Edges:      make([]Edge, 0, g.EdgeCount()),
		Background: cfg.Background,
		Zoom:       zoom,
		Config:     cfg,
	}

	sizes := make(map[string]float64, g.NodeCount())
	for _, n := range g.Nodes() {
		attrs := style.ComputeNode(cfg, n, zoom)
		p, placed := positions[n.ID]
		sizes[n.ID] = attrs.Diameter
		s.Nodes = append(s.Nodes, Node{
			ID:       n.ID,
			Label:    n.Label,
			Type:     n.Type,
			Area:     n.Area,
			Image:    n.Image,
			Video:    n.Video,
			Path:     n.Path,
			Parents:  n.Parents,
			Children: n.Children,
			Position: p,
			Placed:   placed,
			Attrs:    attrs,
		})
	}

	edgeAttrs := style.ComputeEdge(cfg, zoom)
	for i, e := range g.Edges() {
		s.Edges = append(s.Edges, Edge{
			ID:     EdgeID(e, i),
			Source: e.From,
			Target: e.To,
			Attrs:  edgeAttrs,
		})
	}
	s.Bounds = positions.Bounds(sizes)
	return s
}

// EdgeID names the i-th edge. Duplicate edges stay distinct.
func EdgeID(e graph.Edge, i int) string {
	return fmt.Sprintf("e%d:%s->%s", i, e.From, e.To)
}

// Sizes returns node diameters keyed by ID.
func (s Scene) Sizes() map[string]float64 {
	out := make(map[string]float64, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = n.Attrs.Diameter
	}
	return out
}

// Node looks up a node by ID.
func (s Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// WriteJSON writes the scene as indented JSON.
func WriteJSON(w io.Writer, s Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
