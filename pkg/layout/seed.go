package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/movegraph/pkg/graph"
)

// Seed places nodes on concentric rings by degree. Each distinct degree gets
// its own ring, higher degrees nearer the center. Nodes on a ring keep
// graph order and are spread evenly starting at twelve o'clock. Ring
// spacing is the largest diameter plus MinNodeSpacing, widened when a ring
// is too crowded for its nodes.
//
// Seed is deterministic and does not depend on any earlier layout.
func Seed(g *graph.Graph, sizes map[string]float64, opts SeedOptions) Positions {
	if g.Empty() {
		return Positions{}
	}

	rings := Rings(g)
	maxSize := 0.0
	for _, id := range g.NodeIDs() {
		maxSize = max(maxSize, sizes[id])
	}
	step := maxSize + opts.MinNodeSpacing

	pos := make(Positions, g.NodeCount())
	radius := 0.0
	for i, ring := range rings {
		if i > 0 {
			radius += step
		}
		if len(ring) > 1 {
			radius = max(radius, step/(2*math.Sin(math.Pi/float64(len(ring)))))
		}
		dTheta := 2 * math.Pi / float64(len(ring))
		for j, id := range ring {
			theta := -math.Pi/2 + float64(j)*dTheta
			pos[id] = Point{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
		}
	}
	return pos.Normalize(sizes, opts.Padding)
}

// Rings groups node IDs by degree, highest degree first. Within a ring the
// graph's node order is kept.
func Rings(g *graph.Graph) [][]string {
	byDegree := make(map[int][]string)
	for _, id := range g.NodeIDs() {
		d := g.Degree(id)
		byDegree[d] = append(byDegree[d], id)
	}
	degrees := make([]int, 0, len(byDegree))
	for d := range byDegree {
		degrees = append(degrees, d)
	}
	slices.Sort(degrees)
	slices.Reverse(degrees)

	rings := make([][]string, len(degrees))
	for i, d := range degrees {
		rings[i] = byDegree[d]
	}
	return rings
}
