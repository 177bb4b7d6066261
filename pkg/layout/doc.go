// Package layout positions the nodes of a move graph.
//
// Layout is a two-step pipeline. [Seed] always runs first and places nodes
// on concentric rings by degree, with the best-connected moves in the
// middle. An [Engine] then refines the seed according to a [Mode]:
//
//   - [ModeConcentric] keeps the seed as is.
//   - [ModeHierarchical] reflows nodes into top-to-bottom ranks with parents
//     above children.
//   - [ModePhysical] runs a bounded force simulation with overlap
//     avoidance. It is also the fallback for unknown mode names.
//
// Engines are capability providers. The graphviz subpackage drives the
// Graphviz dot and neato engines; layered and force are pure-Go
// implementations. [Router] combines one engine per family.
//
// # Orchestration
//
// [Orchestrator.Run] is cancel-and-replace: starting a run cancels the one
// still in flight, whose caller receives [ErrSuperseded]. An empty graph or
// a missing engine completes without refined positions and without error.
//
//	orch := layout.NewOrchestrator(router, layout.WithLogger(logger))
//	res, err := orch.Run(ctx, g, sizes, layout.ModePhysical)
//	if err != nil {
//		return err
//	}
//	for id, p := range res.Final() {
//		fmt.Println(id, p.X, p.Y)
//	}
package layout
