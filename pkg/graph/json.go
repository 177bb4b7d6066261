package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Document is the node-link JSON form of a graph, used by the graph command,
// the cache and the HTTP API.
type Document struct {
	Nodes []NodeJSON `json:"nodes"`
	Edges []EdgeJSON `json:"edges"`
}

// NodeJSON is the serialized form of a [Node].
type NodeJSON struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"`
	Path     []string       `json:"path,omitempty"`
	Parents  []string       `json:"parents,omitempty"`
	Children []string       `json:"children,omitempty"`
	Area     string         `json:"area,omitempty"`
	Type     string         `json:"type,omitempty"`
	SubType  string         `json:"sub_type,omitempty"`
	Image    string         `json:"image,omitempty"`
	Video    string         `json:"video,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// EdgeJSON is the serialized form of an [Edge].
type EdgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ToDocument converts g to its serialized form, preserving node and edge order.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]NodeJSON, 0, g.NodeCount()),
		Edges: make([]EdgeJSON, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nj := NodeJSON{
			ID:       n.ID,
			Path:     n.Path,
			Parents:  n.Parents,
			Children: n.Children,
			Area:     n.Area,
			Type:     n.Type,
			SubType:  n.SubType,
			Image:    n.Image,
			Video:    n.Video,
		}
		if n.Label != n.ID {
			nj.Label = n.Label
		}
		if len(n.Meta) > 0 {
			nj.Meta = n.Meta
		}
		doc.Nodes = append(doc.Nodes, nj)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeJSON(e))
	}
	return doc
}

// FromDocument rebuilds a graph. Unlike [Build], edges naming unknown nodes
// are an error: a document is expected to be self-consistent.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for _, n := range doc.Nodes {
		node := Node{
			ID:       n.ID,
			Label:    n.Label,
			Path:     n.Path,
			Parents:  n.Parents,
			Children: n.Children,
			Area:     n.Area,
			Type:     n.Type,
			SubType:  n.SubType,
			Image:    n.Image,
			Video:    n.Video,
			Meta:     n.Meta,
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(Edge(e)); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// MarshalGraph encodes g as indented JSON.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes g as indented JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes g to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// Hash returns a stable content hash of g, used as a cache key component.
func Hash(g *Graph) string {
	data, err := json.Marshal(ToDocument(g))
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
