package transform

import (
	"slices"

	"github.com/matzehuels/movegraph/pkg/graph"
)

// CountCrossings sums [CountLayerCrossings] over each pair of consecutive
// layers.
func CountCrossings(g *graph.Graph, layers [][]string) int {
	total := 0
	for i := 0; i+1 < len(layers); i++ {
		total += CountLayerCrossings(g, layers[i], layers[i+1])
	}
	return total
}

// CountLayerCrossings counts crossings between edges running from upper to
// lower. Edges (u1,v1) and (u2,v2) cross when pos(u1) < pos(u2) and
// pos(v1) > pos(v2), which is an inversion count over target positions once
// edges are sorted by source; a Fenwick tree keeps it at O(E log V).
func CountLayerCrossings(g *graph.Graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := graph.PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual

		seen++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
