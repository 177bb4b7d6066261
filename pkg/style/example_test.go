package style_test

import (
	"fmt"

	"github.com/matzehuels/movegraph/pkg/graph"
	"github.com/matzehuels/movegraph/pkg/style"
)

func ExampleComputeNode() {
	cfg := style.DefaultConfig()
	n := &graph.Node{ID: "Closed Guard", Label: "Closed Guard", Type: "Guard", Children: []string{"Armbar", "Triangle"}}

	a := style.ComputeNode(cfg, n, 1)
	fmt.Println(a.Diameter, a.FontSize, a.Fill)
	// Output:
	// 45 9 #1f77b4
}

func ExampleEdgeWidth() {
	cfg := style.DefaultConfig()
	for _, zoom := range []float64{0.5, 1, 3, 6} {
		fmt.Println(zoom, style.EdgeWidth(cfg, zoom), style.ArrowScale(cfg, zoom))
	}
	// Output:
	// 0.5 3 1
	// 1 3 1
	// 3 1 1
	// 6 0.5 0.5
}
