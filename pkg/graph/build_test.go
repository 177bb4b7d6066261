package graph

import (
	"reflect"
	"testing"

	"github.com/matzehuels/movegraph/pkg/moves"
)

func TestBuildGuardPass(t *testing.T) {
	ms := moves.Moveset{
		"Guard": {Children: moves.List{"Pass"}, Type: "Guard"},
		"Pass":  {Parents: moves.List{"Guard"}, Type: "Pass"},
	}
	g := Build(ms)

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", g.NodeCount(), g.EdgeCount())
	}
	if got := g.Edges(); !reflect.DeepEqual(got, []Edge{{From: "Guard", To: "Pass"}}) {
		t.Errorf("Edges() = %v", got)
	}
	guard, _ := g.Node("Guard")
	if guard.Label != "Guard" || guard.Type != "Guard" {
		t.Errorf("Guard node = %+v", guard)
	}
}

func TestBuildDropsDanglingChildren(t *testing.T) {
	ms := moves.Moveset{
		"A": {Children: moves.List{"B", "Z"}},
		"B": {},
	}
	g := Build(ms)

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if _, ok := g.Node("Z"); ok {
		t.Error("dangling target must not become a node")
	}
	a, _ := g.Node("A")
	if !reflect.DeepEqual(a.Children, []string{"B", "Z"}) {
		t.Errorf("record children must be kept verbatim, got %v", a.Children)
	}
}

func TestBuildAnyKeyIsANode(t *testing.T) {
	ms := moves.Moveset{
		"Kimura/Americana": {},
		"Guard":            {Children: moves.List{"Kimura/Americana"}},
	}
	g := Build(ms)

	if _, ok := g.Node("Kimura/Americana"); !ok {
		t.Fatal("key with a slash must become a node")
	}
	if got := g.Edges(); !reflect.DeepEqual(got, []Edge{{From: "Guard", To: "Kimura/Americana"}}) {
		t.Errorf("Edges() = %v", got)
	}
}

func TestBuildDefaults(t *testing.T) {
	ms := moves.Moveset{
		"Closed  Guard\tSweep": {},
		"Kimura":               {Image: "/static/custom/kimura.jpg", Video: "v.mp4"},
	}
	g := Build(ms)

	n, _ := g.Node("Closed  Guard\tSweep")
	if n.Image != "/static/images/closed_guard_sweep.png" {
		t.Errorf("Image = %q", n.Image)
	}
	if n.Path != nil || n.Parents != nil || n.Children != nil {
		t.Errorf("missing sequences should stay empty: %+v", n)
	}
	if n.Meta == nil {
		t.Error("Meta should never be nil")
	}

	k, _ := g.Node("Kimura")
	if k.Image != "/static/custom/kimura.jpg" || k.Video != "v.mp4" {
		t.Errorf("Kimura = %+v", k)
	}
}

func TestBuildDeterministic(t *testing.T) {
	ms := moves.Moveset{
		"c": {Children: moves.List{"a", "b"}},
		"a": {Children: moves.List{"c"}},
		"b": {Children: moves.List{"b"}},
	}
	first := Build(ms)
	for range 20 {
		again := Build(ms)
		if !reflect.DeepEqual(first.NodeIDs(), again.NodeIDs()) {
			t.Fatalf("node order changed: %v vs %v", first.NodeIDs(), again.NodeIDs())
		}
		if !reflect.DeepEqual(first.Edges(), again.Edges()) {
			t.Fatalf("edge order changed: %v vs %v", first.Edges(), again.Edges())
		}
		if Hash(first) != Hash(again) {
			t.Fatal("hash changed between builds")
		}
	}

	want := []Edge{{"a", "c"}, {"b", "b"}, {"c", "a"}, {"c", "b"}}
	if got := first.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestBuildEmpty(t *testing.T) {
	g := Build(moves.Moveset{})
	if !g.Empty() || g.EdgeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.NodeCount())
	}
}

func TestBuildRatings(t *testing.T) {
	d, grips, ctl := 1, 4, 9.0
	g := Build(moves.Moveset{"Top Full Guard": {Distance: &d, NumGrips: &grips, Control: &ctl}})
	n, _ := g.Node("Top Full Guard")
	if n.Meta["distance"] != 1 || n.Meta["num_grips"] != 4 || n.Meta["control"] != 9.0 {
		t.Errorf("Meta = %v", n.Meta)
	}
}

func TestDefaultImage(t *testing.T) {
	tests := map[string]string{
		"Guard":             "/static/images/guard.png",
		"Top Full Guard":    "/static/images/top_full_guard.png",
		"  Leading Space":   "/static/images/_leading_space.png",
		"Multi\n\nLine Arm": "/static/images/multi_line_arm.png",
	}
	for in, want := range tests {
		if got := DefaultImage(in); got != want {
			t.Errorf("DefaultImage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDangling(t *testing.T) {
	ms := moves.Moveset{
		"A": {Children: moves.List{"B", "Z"}, Parents: moves.List{"Y"}},
		"B": {Parents: moves.List{"A"}},
	}
	got := Dangling(ms)
	want := []Reference{
		{Move: "A", Relation: "child", Target: "Z"},
		{Move: "A", Relation: "parent", Target: "Y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dangling() = %v, want %v", got, want)
	}
}

func TestAsymmetric(t *testing.T) {
	ms := moves.Moveset{
		"A": {Children: moves.List{"B", "C"}},
		"B": {Parents: moves.List{"A"}},
		"C": {},
	}
	got := Asymmetric(ms)
	want := []Reference{{Move: "A", Relation: "child", Target: "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Asymmetric() = %v, want %v", got, want)
	}
}
