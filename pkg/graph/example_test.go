package graph_test

import (
	"fmt"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/moves"
)

func ExampleBuild() {
	ms := moves.Moveset{
		"Guard": {Children: moves.List{"Pass", "Unwritten Sweep"}, Type: "Guard"},
		"Pass":  {Parents: moves.List{"Guard"}, Type: "Pass"},
	}
	g := graph.Build(ms)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.Edges())
	n, _ := g.Node("Pass")
	fmt.Println("Image:", n.Image)
	// Output:
	// Nodes: 2
	// Edges: [{Guard Pass}]
	// Image: /static/images/pass.png
}

func ExampleDangling() {
	ms := moves.Moveset{
		"Guard": {Children: moves.List{"Pass", "Unwritten Sweep"}},
		"Pass":  {},
	}
	for _, ref := range graph.Dangling(ms) {
		fmt.Printf("%s -> %s (%s)\n", ref.Move, ref.Target, ref.Relation)
	}
	// Output:
	// Guard -> Unwritten Sweep (child)
}
