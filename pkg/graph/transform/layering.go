package transform

import "github.com/matzehuels/movegraph/pkg/graph"

// AssignLayers ranks every node by longest path from a source: sources get
// rank 0 and every child sits at least one rank below each of its parents.
//
// The graph must be acyclic; run [BreakCycles] first. Nodes left on a cycle
// never reach in-degree zero and keep rank 0.
func AssignLayers(g *graph.Graph) map[string]int {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	ranks := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		ranks[id] = 0
		d := g.InDegree(id)
		inDegree[id] = d
		if d == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return ranks
}

// Layers groups node IDs by rank, each layer in graph insertion order.
func Layers(g *graph.Graph, ranks map[string]int) [][]string {
	depth := 0
	for _, r := range ranks {
		depth = max(depth, r+1)
	}
	layers := make([][]string, depth)
	for _, id := range g.NodeIDs() {
		r, ok := ranks[id]
		if !ok {
			continue
		}
		layers[r] = append(layers[r], id)
	}
	return layers
}
