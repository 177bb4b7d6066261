// Package graph provides the move graph: the render-ready model built from a
// moveset.
//
// # Overview
//
// [Build] turns a [moves.Moveset] into a [Graph] with one node per move and
// one edge per resolvable child reference. Dangling references are dropped
// silently so that a partially authored moveset still renders; [Dangling]
// reports them for tooling.
//
//	ms, _ := moves.ReadFile("moveset.json")
//	g := graph.Build(ms)
//	fmt.Println(g.NodeCount(), g.EdgeCount())
//
// # Determinism
//
// Build output depends only on the moveset contents. Nodes are ordered by
// name and edges by (source name, child position), so repeated builds are
// identical and [Hash] is stable across runs.
//
// # Topology
//
// Move graphs are not DAGs: a sweep can lead back to the guard it started
// from. [Graph] therefore accepts cycles, self-loops and repeated edges.
// Layered layouts remove back edges first with the transform subpackage.
//
// # Serialization
//
// [WriteGraph] and [ReadGraph] use a node-link JSON document ([Document])
// that round-trips every field of a node.
//
// [transform]: github.com/matzehuels/movegraph/pkg/graph/transform
package graph
