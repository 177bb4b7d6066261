package style

import "github.com/matzehuels/movegraph/pkg/graph"

// Selectors used by [Stylesheet].
const (
	SelectorNode      = "node"
	SelectorHideLabel = "node.hide-label"
	SelectorEdge      = "edge"
)

// Properties is a set of renderer style properties in Cytoscape naming.
type Properties map[string]any

// Rule computes properties for the elements matching Selector. Node is nil
// for edge rules.
type Rule struct {
	Selector string
	Compute  func(n *graph.Node, zoom float64) Properties
}

// Stylesheet returns the ordered rules for cfg. Later rules override earlier
// ones for the same element, so node.hide-label blanks the label set by node.
func Stylesheet(cfg Config) []Rule {
	return []Rule{
		{Selector: SelectorNode, Compute: func(n *graph.Node, zoom float64) Properties {
			a := ComputeNode(cfg, n, zoom)
			p := Properties{
				"label":            a.Label,
				"font-size":        a.FontSize,
				"color":            a.LabelColor,
				"text-valign":      "center",
				"text-halign":      "center",
				"text-wrap":        "wrap",
				"text-max-width":   "50%",
				"width":            a.Diameter,
				"height":           a.Diameter,
				"shape":            "ellipse",
				"background-color": a.Fill,
				"border-color":     a.Border,
				"border-width":     a.BorderWidth,
			}
			if a.Image != "" {
				p["background-image"] = a.Image
				p["background-fit"] = "cover"
				p["background-clip"] = "node"
				p["background-width"] = "30%"
				p["background-height"] = "30%"
			}
			return p
		}},
		{Selector: SelectorHideLabel, Compute: func(*graph.Node, float64) Properties {
			return Properties{"label": ""}
		}},
		{Selector: SelectorEdge, Compute: func(_ *graph.Node, zoom float64) Properties {
			a := ComputeEdge(cfg, zoom)
			return Properties{
				"width":              a.Width,
				"line-color":         a.LineColor,
				"target-arrow-color": a.ArrowColor,
				"target-arrow-shape": a.ArrowShape,
				"arrow-scale":        a.ArrowScale,
				"curve-style":        string(a.Curve),
			}
		}},
	}
}

// NodeProperties applies the node rules of sheet to n. The hide-label rule
// applies when hidden is true.
func NodeProperties(sheet []Rule, n *graph.Node, zoom float64, hidden bool) Properties {
	out := Properties{}
	for _, r := range sheet {
		if r.Selector == SelectorNode || (hidden && r.Selector == SelectorHideLabel) {
			for k, v := range r.Compute(n, zoom) {
				out[k] = v
			}
		}
	}
	return out
}

// EdgeProperties applies the edge rules of sheet.
func EdgeProperties(sheet []Rule, zoom float64) Properties {
	out := Properties{}
	for _, r := range sheet {
		if r.Selector == SelectorEdge {
			for k, v := range r.Compute(nil, zoom) {
				out[k] = v
			}
		}
	}
	return out
}
