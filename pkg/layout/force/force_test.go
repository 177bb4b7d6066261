package force

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/layout"
)

func fixture(t *testing.T) (*graph.Graph, map[string]float64) {
	t.Helper()
	g := graph.New()
	ids := []string{"guard", "sweep", "mount", "armbar", "triangle", "escape"}
	for _, id := range ids {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{
		{"guard", "sweep"}, {"sweep", "mount"}, {"mount", "armbar"},
		{"guard", "triangle"}, {"escape", "guard"}, {"armbar", "guard"},
	} {
		if err := g.AddEdge(graph.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	sizes := make(map[string]float64, len(ids))
	for _, id := range ids {
		sizes[id] = 40
	}
	return g, sizes
}

func request(g *graph.Graph, sizes map[string]float64) layout.Request {
	opts := layout.DefaultOptions()
	return layout.Request{
		Graph:    g,
		Seed:     layout.Seed(g, sizes, opts.Seed),
		Sizes:    sizes,
		Mode:     layout.ModePhysical,
		Physical: opts.Physical,
	}
}

func TestRefine_NoOverlap(t *testing.T) {
	g, sizes := fixture(t)
	req := request(g, sizes)

	pos, err := New().Refine(context.Background(), req)
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}
	if len(pos) != g.NodeCount() {
		t.Fatalf("len(pos) = %d, want %d", len(pos), g.NodeCount())
	}

	ids := g.NodeIDs()
	// Overlap resolution is pairwise, so allow a little slack.
	minGap := 40 + req.Physical.NodeSpacing*0.5
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			a, b := pos[ids[i]], pos[ids[j]]
			if d := math.Hypot(a.X-b.X, a.Y-b.Y); d < minGap {
				t.Errorf("%s and %s are %.1f apart, want >= %.1f", ids[i], ids[j], d, minGap)
			}
		}
	}
}

func TestRefine_Deterministic(t *testing.T) {
	g, sizes := fixture(t)
	a, err := New().Refine(context.Background(), request(g, sizes))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New().Refine(context.Background(), request(g, sizes))
	if err != nil {
		t.Fatal(err)
	}
	for id := range a {
		if a[id] != b[id] {
			t.Errorf("%s: %v != %v", id, a[id], b[id])
		}
	}
}

func TestRefine_ExpiredContextSettles(t *testing.T) {
	g, sizes := fixture(t)
	req := request(g, sizes)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	pos, err := New().Refine(ctx, req)
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}
	for id, p := range req.Seed {
		if pos[id] != p {
			t.Errorf("%s moved to %v after deadline, want seed %v", id, pos[id], p)
		}
	}
}

func TestRefine_Hierarchical(t *testing.T) {
	g, sizes := fixture(t)
	req := request(g, sizes)
	req.Mode = layout.ModeHierarchical
	if _, err := New().Refine(context.Background(), req); !errors.Is(err, layout.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestRefine_Unseeded(t *testing.T) {
	g, sizes := fixture(t)
	req := request(g, sizes)
	req.Seed = nil
	pos, err := New().Refine(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for id, p := range pos {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("%s has NaN position", id)
		}
	}
}
