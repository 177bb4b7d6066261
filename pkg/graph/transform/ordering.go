package transform

import (
	"slices"

	"github.com/matzehuels/movegraph/pkg/graph"
)

// OrderLayers orders the nodes of each rank to reduce crossings using
// alternating barycenter sweeps: downward passes sort a layer by the mean
// position of its parents in the layer above, upward passes by the mean
// position of its children in the layer below. The best ordering seen over
// passes sweeps is returned; ties keep the earlier ordering.
func OrderLayers(g *graph.Graph, ranks map[string]int, passes int) [][]string {
	layers := Layers(g, ranks)
	if len(layers) < 2 {
		return layers
	}

	best := cloneLayers(layers)
	bestCrossings := CountCrossings(g, layers)

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(layers); i++ {
				sortByBarycenter(layers[i], graph.PosMap(layers[i-1]), g.Parents)
			}
		} else {
			for i := len(layers) - 2; i >= 0; i-- {
				sortByBarycenter(layers[i], graph.PosMap(layers[i+1]), g.Children)
			}
		}
		if c := CountCrossings(g, layers); c < bestCrossings {
			best, bestCrossings = cloneLayers(layers), c
		}
	}
	return best
}

// sortByBarycenter stably sorts layer by the mean adjacent position of each
// node. Nodes without neighbours in the adjacent layer keep their current
// index as barycenter so they stay roughly in place.
func sortByBarycenter(layer []string, adjPos map[string]int, neighbours func(string) []string) {
	bary := make(map[string]float64, len(layer))
	for i, id := range layer {
		sum, n := 0, 0
		for _, nb := range neighbours(id) {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		if n == 0 {
			bary[id] = float64(i)
			continue
		}
		bary[id] = float64(sum) / float64(n)
	}
	slices.SortStableFunc(layer, func(a, b string) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

func cloneLayers(layers [][]string) [][]string {
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
