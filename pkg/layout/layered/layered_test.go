package layered

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
)

func chain(t *testing.T, cyclic bool) (*graph.Graph, map[string]float64) {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"guard", "sweep", "mount", "armbar"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	edges := [][2]string{{"guard", "sweep"}, {"sweep", "mount"}, {"mount", "armbar"}, {"guard", "armbar"}}
	if cyclic {
		edges = append(edges, [2]string{"armbar", "guard"})
	}
	for _, e := range edges {
		if err := g.AddEdge(graph.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	sizes := map[string]float64{"guard": 50, "sweep": 40, "mount": 40, "armbar": 45}
	return g, sizes
}

func request(g *graph.Graph, sizes map[string]float64) layout.Request {
	return layout.Request{
		Graph:        g,
		Sizes:        sizes,
		Mode:         layout.ModeHierarchical,
		Hierarchical: layout.DefaultOptions().Hierarchical,
	}
}

func TestRefine_ParentsAboveChildren(t *testing.T) {
	for _, cyclic := range []bool{false, true} {
		g, sizes := chain(t, cyclic)
		pos, err := New().Refine(context.Background(), request(g, sizes))
		if err != nil {
			t.Fatalf("Refine() error: %v", err)
		}
		if len(pos) != 4 {
			t.Fatalf("len(pos) = %d, want 4", len(pos))
		}
		for _, e := range [][2]string{{"guard", "sweep"}, {"sweep", "mount"}, {"mount", "armbar"}} {
			if pos[e[0]].Y >= pos[e[1]].Y {
				t.Errorf("cyclic=%v: %s (y=%v) not above %s (y=%v)", cyclic, e[0], pos[e[0]].Y, e[1], pos[e[1]].Y)
			}
		}
	}
}

func TestRefine_RankSeparation(t *testing.T) {
	g, sizes := chain(t, false)
	pos, err := New().Refine(context.Background(), request(g, sizes))
	if err != nil {
		t.Fatal(err)
	}
	// guard (50) and sweep (40) are on consecutive ranks.
	want := 50.0/2 + 50 + 40.0/2
	if got := pos["sweep"].Y - pos["guard"].Y; got != want {
		t.Errorf("rank gap = %v, want %v", got, want)
	}
}

func TestRefine_SiblingSeparation(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"root", "a", "b"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_ = g.AddEdge(graph.Edge{From: "root", To: "a"})
	_ = g.AddEdge(graph.Edge{From: "root", To: "b"})
	sizes := map[string]float64{"root": 45, "a": 40, "b": 40}

	pos, err := New().Refine(context.Background(), request(g, sizes))
	if err != nil {
		t.Fatal(err)
	}
	gap := pos["b"].X - pos["a"].X
	if gap < 40+30 {
		t.Errorf("sibling gap = %v, want >= 70", gap)
	}
	if mid := (pos["a"].X + pos["b"].X) / 2; mid != pos["root"].X {
		t.Errorf("root x = %v, want centered at %v", pos["root"].X, mid)
	}
}

func TestRefine_Physical(t *testing.T) {
	g, sizes := chain(t, false)
	req := request(g, sizes)
	req.Mode = layout.ModePhysical
	if _, err := New().Refine(context.Background(), req); !errors.Is(err, layout.ErrUnavailable) {
		t.Errorf("Refine(physical) error = %v, want ErrUnavailable", err)
	}
}

func TestRefine_Canceled(t *testing.T) {
	g, sizes := chain(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Refine(ctx, request(g, sizes)); !errors.Is(err, context.Canceled) {
		t.Errorf("Refine() error = %v, want context.Canceled", err)
	}
}

func TestOrient(t *testing.T) {
	pos := layout.Positions{"a": {X: 1, Y: 2}}
	tests := []struct {
		dir  string
		want layout.Point
	}{
		{"TB", layout.Point{X: 1, Y: 2}},
		{"BT", layout.Point{X: 1, Y: -2}},
		{"LR", layout.Point{X: 2, Y: 1}},
		{"RL", layout.Point{X: -2, Y: 1}},
	}
	for _, tt := range tests {
		if got := orient(pos, tt.dir)["a"]; got != tt.want {
			t.Errorf("orient(%s) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}
