package scene

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/style"
)

func guardPass(t *testing.T) *graph.Graph {
	t.Helper()
	ms, err := moves.Parse([]byte(`{
		"Guard": {"type": "Guard", "children": ["Pass", "Ghost"]},
		"Pass":  {"type": "Pass", "parents": ["Guard"]}
	}`), moves.FormatJSON)
	require.NoError(t, err)
	return graph.Build(ms)
}

func TestBuild(t *testing.T) {
	g := guardPass(t)
	pos := layout.Positions{"Guard": {X: 100, Y: 50}}
	s := Build(g, style.DefaultConfig(), pos, 2)

	require.Len(t, s.Nodes, 2)
	require.Len(t, s.Edges, 1)

	guard, ok := s.Node("Guard")
	require.True(t, ok)
	assert.True(t, guard.Placed)
	assert.Equal(t, layout.Point{X: 100, Y: 50}, guard.Position)
	// Two record children (one dangling) and a floored parent.
	assert.Equal(t, 45.0, guard.Attrs.Diameter)
	assert.Equal(t, style.ColorGuard, guard.Attrs.Fill)

	pass, _ := s.Node("Pass")
	assert.False(t, pass.Placed)
	assert.Equal(t, 40.0, pass.Attrs.Diameter)

	e := s.Edges[0]
	assert.Equal(t, "Guard", e.Source)
	assert.Equal(t, "Pass", e.Target)
	assert.Equal(t, 1.5, e.Attrs.Width)
	assert.Equal(t, "#5050a0", s.Background)

	assert.Equal(t, map[string]float64{"Guard": 45, "Pass": 40}, s.Sizes())
}

func TestBuild_InvalidZoom(t *testing.T) {
	s := Build(guardPass(t), style.DefaultConfig(), nil, -1)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, layout.Rect{}, s.Bounds)
}

func TestCytoscape(t *testing.T) {
	cfg := style.DefaultConfig()
	cfg.HideLabels = true
	s := Build(guardPass(t), cfg, layout.Positions{"Guard": {X: 1, Y: 2}, "Pass": {X: 3, Y: 4}}, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteCytoscape(&buf, s))

	var doc struct {
		Elements struct {
			Nodes []struct {
				Data     map[string]any `json:"data"`
				Position map[string]float64
				Style    map[string]any
				Classes  string
			}
			Edges []struct {
				Data  map[string]string
				Style map[string]any
			}
		}
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Elements.Nodes, 2)

	n := doc.Elements.Nodes[0]
	assert.Equal(t, "Guard", n.Data["id"])
	assert.Equal(t, "hide-label", n.Classes)
	assert.Equal(t, "", n.Style["label"])
	assert.Equal(t, 1.0, n.Position["x"])
	assert.Equal(t, "/static/images/guard.png", n.Style["background-image"])
	assert.Equal(t, []any{}, doc.Elements.Nodes[1].Data["children"])

	require.Len(t, doc.Elements.Edges, 1)
	assert.Equal(t, "Guard", doc.Elements.Edges[0].Data["source"])
	assert.Equal(t, "triangle", doc.Elements.Edges[0].Style["target-arrow-shape"])
}

func TestEdgeID_Duplicates(t *testing.T) {
	e := graph.Edge{From: "a", To: "b"}
	assert.NotEqual(t, EdgeID(e, 0), EdgeID(e, 1))
}
