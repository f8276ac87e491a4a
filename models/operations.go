package models

import (
	"fmt"
	"time"

	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/geom"
	"github.com/google/uuid"
)

// NewGraph creates an empty graph with a unique ID and timestamps
func NewGraph(name string, directed bool) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		Directed:  directed,
		CreatedAt: now,
		UpdatedAt: now,
		index:     make(map[NodeID]*Node),
	}
}

func (g *Graph) touch(structural bool) {
	g.UpdatedAt = time.Now()
	if structural {
		g.components = nil
	}
}

// AddNode adds a node at position and returns its new ID
func (g *Graph) AddNode(label string, position geom.Vector) NodeID {
	if g.index == nil {
		g.index = make(map[NodeID]*Node)
	}

	g.lastID++
	node := &Node{
		ID:       g.lastID,
		Label:    label,
		Position: geom.Copy(position),
		Velocity: geom.Zero(),
		Paint:    NewPaint(colors.Background(), colors.Text()),
	}

	g.nodes = append(g.nodes, node)
	g.index[node.ID] = node
	g.touch(true)
	return node.ID
}

// RemoveNode removes a node and every vertex incident to it. Removing a node
// that does not exist does nothing.
func (g *Graph) RemoveNode(id NodeID) {
	if _, ok := g.index[id]; !ok {
		return
	}

	var newNodes []*Node
	for _, node := range g.nodes {
		if node.ID != id {
			newNodes = append(newNodes, node)
		}
	}
	g.nodes = newNodes
	delete(g.index, id)

	var newVertices []*Vertex
	for _, v := range g.vertices {
		if v.From != id && v.To != id {
			newVertices = append(newVertices, v)
		}
	}
	g.vertices = newVertices

	g.relink()
	g.touch(true)
}

// AddVertex connects from and to. In an undirected graph (or with Directed(false))
// both halves of the edge are added; the call only fails with ErrDuplicateVertex
// when both already exist. Nothing is changed when an error is returned.
func (g *Graph) AddVertex(from, to NodeID, opts ...VertexOption) error {
	o := vertexOptions{weight: DefaultWeight}
	for _, opt := range opts {
		opt(&o)
	}

	directed := g.Directed
	if o.directed != nil {
		directed = *o.directed
	}

	if _, ok := g.index[from]; !ok {
		return fmt.Errorf("vertex %d->%d: source %w", from, to, ErrNodeNotFound)
	}
	if _, ok := g.index[to]; !ok {
		return fmt.Errorf("vertex %d->%d: target %w", from, to, ErrNodeNotFound)
	}
	if directed && !g.Directed {
		return fmt.Errorf("vertex %d->%d: %w", from, to, ErrMixedDirection)
	}

	if directed {
		if g.findVertex(from, to) != nil {
			return fmt.Errorf("vertex %d->%d: %w", from, to, ErrDuplicateVertex)
		}
		g.appendVertex(from, to, o.weight)
		g.touch(true)
		return nil
	}

	if from == to {
		return fmt.Errorf("vertex %d-%d: %w", from, to, ErrSelfLoop)
	}

	forward, backward := g.findVertex(from, to), g.findVertex(to, from)
	if forward != nil && backward != nil {
		return fmt.Errorf("vertex %d-%d: %w", from, to, ErrDuplicateVertex)
	}
	if forward == nil {
		g.appendVertex(from, to, o.weight)
	}
	if backward == nil {
		g.appendVertex(to, from, o.weight)
	}
	g.touch(true)
	return nil
}

// RemoveVertex removes the vertex from->to, and to->from as well when the graph
// is undirected
func (g *Graph) RemoveVertex(from, to NodeID) error {
	if _, ok := g.index[from]; !ok {
		return fmt.Errorf("vertex %d->%d: source %w", from, to, ErrNodeNotFound)
	}
	if _, ok := g.index[to]; !ok {
		return fmt.Errorf("vertex %d->%d: target %w", from, to, ErrNodeNotFound)
	}

	remove := func(v *Vertex) bool {
		if v.From == from && v.To == to {
			return true
		}
		return !g.Directed && v.From == to && v.To == from
	}

	var kept []*Vertex
	for _, v := range g.vertices {
		if !remove(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(g.vertices) {
		return fmt.Errorf("vertex %d->%d: %w", from, to, ErrVertexNotFound)
	}

	g.vertices = kept
	g.relink()
	g.touch(true)
	return nil
}

// ToggleVertex removes the vertex from->to if it exists and adds it otherwise
func (g *Graph) ToggleVertex(from, to NodeID) error {
	if g.findVertex(from, to) != nil {
		return g.RemoveVertex(from, to)
	}
	return g.AddVertex(from, to)
}

// SetWeight changes the weight of from->to (and its other half when undirected)
func (g *Graph) SetWeight(from, to NodeID, w float64) error {
	v := g.findVertex(from, to)
	if v == nil {
		return fmt.Errorf("vertex %d->%d: %w", from, to, ErrVertexNotFound)
	}
	v.Weight = w
	if !g.Directed {
		if back := g.findVertex(to, from); back != nil {
			back.Weight = w
		}
	}
	g.touch(false)
	return nil
}

// Weight returns the weight of from->to
func (g *Graph) Weight(from, to NodeID) (float64, error) {
	v := g.findVertex(from, to)
	if v == nil {
		return 0, fmt.Errorf("vertex %d->%d: %w", from, to, ErrVertexNotFound)
	}
	return v.Weight, nil
}

// Reorient reverses every vertex. The new vertex list is built aside and swapped
// in at once, so no half-reversed graph is ever observable.
func (g *Graph) Reorient() {
	reversed := make([]*Vertex, len(g.vertices))
	for i, v := range g.vertices {
		reversed[i] = &Vertex{From: v.To, To: v.From, Weight: v.Weight, Paint: v.Paint}
	}

	g.vertices = reversed
	g.relink()
	g.touch(false)
}

// Complement replaces the vertices with the complement graph under the current
// directedness: connected pairs are disconnected and vice versa. Self-loops are
// left as they are.
func (g *Graph) Complement() {
	var next []*Vertex

	for _, v := range g.vertices {
		if v.Loop() {
			next = append(next, v)
		}
	}

	for i, a := range g.nodes {
		for j, b := range g.nodes {
			if i == j {
				continue
			}
			if !g.Directed && j < i {
				continue
			}

			connected := g.findVertex(a.ID, b.ID) != nil
			if !g.Directed {
				connected = connected || g.findVertex(b.ID, a.ID) != nil
			}
			if connected {
				continue
			}

			next = append(next, g.newVertex(a.ID, b.ID, DefaultWeight))
			if !g.Directed {
				next = append(next, g.newVertex(b.ID, a.ID, DefaultWeight))
			}
		}
	}

	g.vertices = next
	g.relink()
	g.touch(true)
}

// SetDirected changes the directedness of the graph. Turning a directed graph
// undirected adds the missing reverse halves and drops self-loops.
func (g *Graph) SetDirected(directed bool) {
	if g.Directed == directed {
		return
	}
	g.Directed = directed

	if directed {
		g.touch(false)
		return
	}

	var next []*Vertex
	for _, v := range g.vertices {
		if !v.Loop() {
			next = append(next, v)
		}
	}
	for _, v := range next {
		if !containsVertex(next, v.To, v.From) {
			next = append(next, g.newVertex(v.To, v.From, v.Weight))
		}
	}

	g.vertices = next
	g.relink()
	g.touch(true)
}

// SetPosition moves a node
func (g *Graph) SetPosition(id NodeID, position geom.Vector) error {
	node, ok := g.index[id]
	if !ok {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	node.Position = geom.Copy(position)
	return nil
}

// SetLabel renames a node
func (g *Graph) SetLabel(id NodeID, label string) error {
	node, ok := g.index[id]
	if !ok {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	node.Label = label
	g.touch(false)
	return nil
}

func (g *Graph) newVertex(from, to NodeID, weight float64) *Vertex {
	return &Vertex{
		From:   from,
		To:     to,
		Weight: weight,
		Paint:  NewPaint(colors.Text(), colors.Text()),
	}
}

func (g *Graph) appendVertex(from, to NodeID, weight float64) {
	v := g.newVertex(from, to, weight)
	g.vertices = append(g.vertices, v)
	g.index[from].outgoing = append(g.index[from].outgoing, v)
}

func (g *Graph) findVertex(from, to NodeID) *Vertex {
	node, ok := g.index[from]
	if !ok {
		return nil
	}
	for _, v := range node.outgoing {
		if v.To == to {
			return v
		}
	}
	return nil
}

// relink rebuilds every node's outgoing references from the vertex list
func (g *Graph) relink() {
	for _, node := range g.nodes {
		node.outgoing = nil
	}
	for _, v := range g.vertices {
		if node, ok := g.index[v.From]; ok {
			node.outgoing = append(node.outgoing, v)
		}
	}
}

func containsVertex(vs []*Vertex, from, to NodeID) bool {
	for _, v := range vs {
		if v.From == from && v.To == to {
			return true
		}
	}
	return false
}
