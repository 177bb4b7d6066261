// Package transform prepares a move graph for layered layout.
//
// Move graphs routinely contain cycles (a sweep returning to guard), so a
// hierarchical layout first removes back edges with [BreakCycles], then
// ranks nodes with [AssignLayers] and orders each rank with [OrderLayers]
// to reduce edge crossings, counted by [CountCrossings].
//
//	dag, _ := transform.BreakCycles(g)
//	ranks := transform.AssignLayers(dag)
//	layers := transform.OrderLayers(dag, ranks, 4)
//
// All functions leave their input unchanged.
package transform
