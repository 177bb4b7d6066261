package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/style"
)

// CytoscapeDocument is the Cytoscape.js initialisation payload.
type CytoscapeDocument struct {
	Elements   CytoscapeElements `json:"elements"`
	Zoom       float64           `json:"zoom"`
	Background string            `json:"background"`
}

// CytoscapeElements holds the node and edge lists.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode is a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data     CytoscapeNodeData `json:"data"`
	Position *layout.Point     `json:"position,omitempty"`
	Style    style.Properties  `json:"style"`
	Classes  string            `json:"classes,omitempty"`
}

// CytoscapeNodeData mirrors the fields the diagram's tooltip reads.
type CytoscapeNodeData struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Path     []string `json:"path"`
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
	Area     string   `json:"area,omitempty"`
	Type     string   `json:"type,omitempty"`
	Image    string   `json:"image,omitempty"`
	Video    string   `json:"video,omitempty"`
}

// CytoscapeEdge is an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data  CytoscapeEdgeData `json:"data"`
	Style style.Properties  `json:"style"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Cytoscape converts the scene using the stylesheet of its config. Hidden
// labels add the hide-label class.
func (s Scene) Cytoscape() CytoscapeDocument {
	sheet := style.Stylesheet(s.Config)
	hidden := s.Config.HideLabels
	doc := CytoscapeDocument{
		Elements: CytoscapeElements{
			Nodes: make([]CytoscapeNode, 0, len(s.Nodes)),
			Edges: make([]CytoscapeEdge, 0, len(s.Edges)),
		},
		Zoom:       s.Zoom,
		Background: s.Background,
	}

	for _, n := range s.Nodes {
		gn := &graph.Node{
			ID:       n.ID,
			Label:    n.Label,
			Type:     n.Type,
			Image:    n.Image,
			Parents:  n.Parents,
			Children: n.Children,
		}
		cn := CytoscapeNode{
			Data: CytoscapeNodeData{
				ID:       n.ID,
				Label:    n.Label,
				Path:     nonNil(n.Path),
				Parents:  nonNil(n.Parents),
				Children: nonNil(n.Children),
				Area:     n.Area,
				Type:     n.Type,
				Image:    n.Image,
				Video:    n.Video,
			},
			Style: style.NodeProperties(sheet, gn, s.Zoom, hidden),
		}
		if n.Placed {
			p := n.Position
			cn.Position = &p
		}
		if hidden {
			cn.Classes = "hide-label"
		}
		doc.Elements.Nodes = append(doc.Elements.Nodes, cn)
	}

	edgeProps := style.EdgeProperties(sheet, s.Zoom)
	for _, e := range s.Edges {
		doc.Elements.Edges = append(doc.Elements.Edges, CytoscapeEdge{
			Data:  CytoscapeEdgeData{ID: e.ID, Source: e.Source, Target: e.Target},
			Style: edgeProps,
		})
	}
	return doc
}

// WriteCytoscape writes the Cytoscape.js document as JSON.
func WriteCytoscape(w io.Writer, s Scene) error {
	if err := json.NewEncoder(w).Encode(s.Cytoscape()); err != nil {
		return fmt.Errorf("encode cytoscape: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
