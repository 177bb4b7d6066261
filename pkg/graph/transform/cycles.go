package transform

import "github.com/matzehuels/movegraph/pkg/graph"

// BreakCycles returns a copy of g without back edges, plus the number of
// edges removed. Back edges are found by depth-first search started from
// the source nodes and then from any node not yet visited, so the result
// depends only on node and edge order. Self-loops are always removed.
func BreakCycles(g *graph.Graph) (*graph.Graph, int) {
	const (
		white = iota
		gray
		black
	)

	dag := g.Clone()
	color := make(map[string]int, g.NodeCount())
	var back []graph.Edge

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back = append(back, graph.Edge{From: id, To: child})
			}
		}
		color[id] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range back {
		dag.RemoveEdge(e.From, e.To)
	}
	return dag, len(back)
}
