package graph

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/movegraph/pkg/moves"
)

// ImagePrefix is where default move images are served from.
const ImagePrefix = "/static/images/"

var whitespaceRun = regexp.MustCompile(`\s+`)

// DefaultImage returns the image path used when a record has none:
// whitespace runs become "_" and the result is lowercased.
//
//	DefaultImage("Closed  Guard") == "/static/images/closed_guard.png"
func DefaultImage(name string) string {
	return ImagePrefix + strings.ToLower(whitespaceRun.ReplaceAllString(name, "_")) + ".png"
}

// Build converts a moveset into a graph.
//
// Every key becomes a node. Every (key, child) pair becomes an edge when
// child is itself a key; references to unknown moves are dropped without
// error. Nodes are inserted in ascending name order and edges follow the
// node order and then each record's child order, so equal movesets always
// produce identical graphs.
func Build(ms moves.Moveset) *Graph {
	g := New()
	names := ms.Names()

	for _, name := range names {
		rec := ms[name]
		image := rec.Image
		if image == "" {
			image = DefaultImage(name)
		}
		_ = g.AddNode(Node{
			ID:       name,
			Label:    name,
			Path:     slices.Clone([]string(rec.Path)),
			Parents:  slices.Clone([]string(rec.Parents)),
			Children: slices.Clone([]string(rec.Children)),
			Area:     rec.Area.String(),
			Type:     rec.Type.String(),
			SubType:  rec.SubType.String(),
			Image:    image,
			Video:    rec.Video,
			Meta:     ratings(rec),
		})
	}

	for _, name := range names {
		for _, child := range ms[name].Children {
			if _, ok := ms[child]; ok {
				_ = g.AddEdge(Edge{From: name, To: child})
			}
		}
	}
	return g
}

func ratings(rec moves.Record) Metadata {
	meta := Metadata{}
	if rec.Distance != nil {
		meta["distance"] = *rec.Distance
	}
	if rec.NumGrips != nil {
		meta["num_grips"] = *rec.NumGrips
	}
	if rec.Control != nil {
		meta["control"] = *rec.Control
	}
	return meta
}

// Reference is a parent or child entry naming a move that does not exist.
type Reference struct {
	Move     string // the record holding the reference
	Relation string // "child" or "parent"
	Target   string // the missing move
}

// Dangling lists the references Build drops (unknown children) together
// with unknown parents, in move order. It is meant for authoring tools;
// Build itself never reports them.
func Dangling(ms moves.Moveset) []Reference {
	var refs []Reference
	for _, name := range ms.Names() {
		rec := ms[name]
		for _, c := range rec.Children {
			if _, ok := ms[c]; !ok {
				refs = append(refs, Reference{Move: name, Relation: "child", Target: c})
			}
		}
		for _, p := range rec.Parents {
			if _, ok := ms[p]; !ok {
				refs = append(refs, Reference{Move: name, Relation: "parent", Target: p})
			}
		}
	}
	return refs
}

// Asymmetric lists child links whose target does not name the move back as
// a parent. The diagram only follows children, so these are harmless but
// usually an authoring slip.
func Asymmetric(ms moves.Moveset) []Reference {
	var refs []Reference
	for _, name := range ms.Names() {
		for _, c := range ms[name].Children {
			child, ok := ms[c]
			if ok && !slices.Contains(child.Parents, name) {
				refs = append(refs, Reference{Move: name, Relation: "child", Target: c})
			}
		}
	}
	return refs
}
