package viewer

import (
	"strings"

	"github.com/matzehuels/movegraph/pkg/graph"
)

// Tooltip is the hover summary of a move.
type Tooltip struct {
	Label    string   `json:"label"`
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
	Area     string   `json:"area"`
	Type     string   `json:"type"`
	Image    string   `json:"image"`
	Video    string   `json:"video"`
	Path     []string `json:"path,omitempty"`
}

func tooltipFor(n *graph.Node) Tooltip {
	return Tooltip{
		Label:    n.Label,
		Parents:  orEmpty(n.Parents),
		Children: orEmpty(n.Children),
		Area:     n.Area,
		Type:     n.Type,
		Image:    n.Image,
		Video:    n.Video,
		Path:     n.Path,
	}
}

// Lines renders the tooltip as display lines, label first.
func (t Tooltip) Lines() []string {
	return []string{
		t.Label,
		"Parents: " + strings.Join(t.Parents, ", "),
		"Children: " + strings.Join(t.Children, ", "),
		"Area: " + t.Area,
		"Type: " + t.Type,
		"Image: " + t.Image,
		"Video: " + t.Video,
	}
}

// String joins Lines with newlines.
func (t Tooltip) String() string { return strings.Join(t.Lines(), "\n") }

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
