package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores optional per-move ratings (distance, num_grips, control).
// The diagram never reads it; it is carried for tooltips and exports.
type Metadata map[string]any

// Node is one move. ID and Label are both the move name.
//
// Parents and Children are the record's own lists and may name moves that
// are not in the graph. Use [Graph.Parents] and [Graph.Children] for the
// resolved topology.
type Node struct {
	ID       string
	Label    string
	Path     []string
	Parents  []string
	Children []string
	Area     string
	Type     string
	SubType  string
	Image    string
	Video    string
	Meta     Metadata
}

// Edge is a directed parent → child relation between two existing nodes.
type Edge struct {
	From string
	To   string
}

// Graph is the render-ready move graph. Unlike a dependency DAG it may
// contain cycles and self-loops, and duplicate edges are kept.
//
// The zero value is not usable; use [New] or [Build].
// Graph is not safe for concurrent mutation. Built graphs are treated as
// immutable and may be shared freely.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Label defaults to the ID and Meta is never nil
// afterwards.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Self-loops and
// repeated edges are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the first edge from→to if it exists.
func (g *Graph) RemoveEdge(from, to string) {
	if i := slices.Index(g.edges, Edge{From: from, To: to}); i >= 0 {
		g.edges = slices.Delete(g.edges, i, i+1)
	}
	if i := slices.Index(g.outgoing[from], to); i >= 0 {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i := slices.Index(g.incoming[to], from); i >= 0 {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. [Build] inserts in ascending
// ID order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// Children returns the targets of edges leaving id. The slice is read-only.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of edges entering id. The slice is read-only.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Degree returns the number of edge endpoints at id. A self-loop counts twice.
func (g *Graph) Degree(id string) int { return len(g.outgoing[id]) + len(g.incoming[id]) }

// MaxDegree returns the largest degree in the graph, or 0 if it is empty.
func (g *Graph) MaxDegree() int {
	m := 0
	for _, id := range g.order {
		m = max(m, g.Degree(id))
	}
	return m
}

// Sources returns nodes without incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// HasCycle reports whether the graph contains a directed cycle, including
// self-loops.
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, n := range g.Nodes() {
		cp := *n
		cp.Path = slices.Clone(n.Path)
		cp.Parents = slices.Clone(n.Parents)
		cp.Children = slices.Clone(n.Children)
		cp.Meta = make(Metadata, len(n.Meta))
		for k, v := range n.Meta {
			cp.Meta[k] = v
		}
		_ = c.AddNode(cp)
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e)
	}
	return c
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
