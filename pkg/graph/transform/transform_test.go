package transform

import (
	"reflect"
	"testing"

	"github.com/matzehuels/movegraph/pkg/graph"
)

func newGraph(t *testing.T, ids []string, edges [][2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(graph.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		edges       [][2]string
		wantRemoved int
		wantEdges   int
	}{
		{"acyclic", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}, 0, 2},
		{"two-cycle", []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}}, 1, 1},
		{"triangle", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, 1, 2},
		{"self-loop", []string{"a"}, [][2]string{{"a", "a"}}, 1, 0},
		{"two cycles", []string{"a", "b", "c", "d"},
			[][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.ids, tt.edges)
			dag, removed := BreakCycles(g)

			if removed != tt.wantRemoved {
				t.Errorf("removed = %d, want %d", removed, tt.wantRemoved)
			}
			if dag.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", dag.EdgeCount(), tt.wantEdges)
			}
			if dag.HasCycle() {
				t.Error("result still has a cycle")
			}
			if g.EdgeCount() != len(tt.edges) {
				t.Errorf("input modified: EdgeCount() = %d, want %d", g.EdgeCount(), len(tt.edges))
			}
		})
	}
}

func TestAssignLayers(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d", "e"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "d"},
	})

	got := AssignLayers(g)
	want := map[string]int{"a": 0, "b": 1, "c": 1, "d": 2, "e": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLayers() = %v, want %v", got, want)
	}

	layers := Layers(g, got)
	wantLayers := [][]string{{"a", "e"}, {"b", "c"}, {"d"}}
	if !reflect.DeepEqual(layers, wantLayers) {
		t.Errorf("Layers() = %v, want %v", layers, wantLayers)
	}
}

func TestAssignLayers_Empty(t *testing.T) {
	if got := AssignLayers(graph.New()); len(got) != 0 {
		t.Errorf("AssignLayers(empty) = %v, want empty", got)
	}
	if got := Layers(graph.New(), nil); len(got) != 0 {
		t.Errorf("Layers(empty) = %v, want empty", got)
	}
}

func TestCountLayerCrossings(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}})

	tests := []struct {
		name         string
		upper, lower []string
		want         int
	}{
		{"crossed", []string{"a", "b"}, []string{"c", "d"}, 1},
		{"uncrossed", []string{"a", "b"}, []string{"d", "c"}, 0},
		{"empty upper", nil, []string{"c", "d"}, 0},
		{"empty lower", []string{"a", "b"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
				t.Errorf("CountLayerCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountLayerCrossings_Bipartite(t *testing.T) {
	// K(2,2) always crosses once whatever the order.
	g := newGraph(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"},
	})
	for _, lower := range [][]string{{"c", "d"}, {"d", "c"}} {
		if got := CountLayerCrossings(g, []string{"a", "b"}, lower); got != 1 {
			t.Errorf("CountLayerCrossings(%v) = %d, want 1", lower, got)
		}
	}
}

func TestOrderLayers(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}})
	ranks := AssignLayers(g)

	if before := CountCrossings(g, Layers(g, ranks)); before != 1 {
		t.Fatalf("initial crossings = %d, want 1", before)
	}

	layers := OrderLayers(g, ranks, 4)
	if got := CountCrossings(g, layers); got != 0 {
		t.Errorf("crossings after ordering = %d, want 0", got)
	}
	want := [][]string{{"a", "b"}, {"d", "c"}}
	if !reflect.DeepEqual(layers, want) {
		t.Errorf("OrderLayers() = %v, want %v", layers, want)
	}
}

func TestOrderLayers_NeverWorse(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "x", "y", "z"}, [][2]string{
		{"a", "z"}, {"b", "y"}, {"c", "x"}, {"a", "x"}, {"c", "z"},
	})
	ranks := AssignLayers(g)
	before := CountCrossings(g, Layers(g, ranks))
	after := CountCrossings(g, OrderLayers(g, ranks, 6))
	if after > before {
		t.Errorf("crossings grew from %d to %d", before, after)
	}
}
