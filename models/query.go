package models

import (
	"fmt"
	"math"

	"github.com/TFMV/forcegraph/geom"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// Node returns a node by its ID
func (g *Graph) Node(id NodeID) (*Node, error) {
	node, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return node, nil
}

// HasNode reports whether id is part of the graph
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns the nodes in insertion order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeIDs returns the node IDs in insertion order
func (g *Graph) NodeIDs() []NodeID {
	out := make([]NodeID, len(g.nodes))
	for i, node := range g.nodes {
		out[i] = node.ID
	}
	return out
}

// Vertices returns the vertices in insertion order
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// VertexCount returns the number of vertices (an undirected edge counts twice)
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// Vertex returns the vertex from->to
func (g *Graph) Vertex(from, to NodeID) (*Vertex, error) {
	v := g.findVertex(from, to)
	if v == nil {
		return nil, fmt.Errorf("vertex %d->%d: %w", from, to, ErrVertexNotFound)
	}
	return v, nil
}

// Adjacent reports whether a vertex joins a and b in either direction
func (g *Graph) Adjacent(a, b NodeID) bool {
	return g.findVertex(a, b) != nil || g.findVertex(b, a) != nil
}

// FindOutgoing returns all vertices originating from a node
func (g *Graph) FindOutgoing(id NodeID) []*Vertex {
	node, ok := g.index[id]
	if !ok {
		return nil
	}
	return node.Outgoing()
}

// FindIncoming returns all vertices targeting a node
func (g *Graph) FindIncoming(id NodeID) []*Vertex {
	var result []*Vertex
	for _, v := range g.vertices {
		if v.To == id {
			result = append(result, v)
		}
	}
	return result
}

// Neighbors returns the nodes directly connected to id in either direction, in
// insertion order
func (g *Graph) Neighbors(id NodeID) []NodeID {
	connected := make(map[NodeID]bool)
	for _, v := range g.vertices {
		if v.From == id && v.To != id {
			connected[v.To] = true
		}
		if v.To == id && v.From != id {
			connected[v.From] = true
		}
	}

	var result []NodeID
	for _, node := range g.nodes {
		if connected[node.ID] {
			result = append(result, node.ID)
		}
	}
	return result
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, node := range g.nodes {
		if filter(node) {
			result = append(result, node)
		}
	}
	return result
}

// NodeByLabel returns the first node carrying label
func (g *Graph) NodeByLabel(label string) (*Node, error) {
	for _, node := range g.nodes {
		if node.Label == label {
			return node, nil
		}
	}
	return nil, fmt.Errorf("node %q: %w", label, ErrNodeNotFound)
}

// NodeAt returns the node closest to position within radius
func (g *Graph) NodeAt(position geom.Vector, radius float64) (*Node, bool) {
	var best *Node
	bestDistance := math.Inf(1)
	for _, node := range g.nodes {
		d := geom.Distance(node.Position, position)
		if d <= radius && d < bestDistance {
			best, bestDistance = node, d
		}
	}
	return best, best != nil
}

// VertexAt returns the vertex passing closest to position within radius.
// Loops are never hit.
func (g *Graph) VertexAt(position geom.Vector, radius float64) (*Vertex, bool) {
	var best *Vertex
	bestDistance := math.Inf(1)
	for _, v := range g.vertices {
		if v.Loop() {
			continue
		}
		d := geom.SegmentDistance(position, g.index[v.From].Position, g.index[v.To].Position)
		if d <= radius && d < bestDistance {
			best, bestDistance = v, d
		}
	}
	return best, best != nil
}
