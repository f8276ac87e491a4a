// Package models provides the graph data model edited interactively and laid out
// by the physics package: nodes, weighted vertices and the graph that owns them.
package models

import (
	"errors"
	"time"

	"github.com/TFMV/forcegraph/anim"
	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/geom"
)

// DefaultWeight is the weight of a vertex added without one
const DefaultWeight = 1.0

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrVertexNotFound  = errors.New("vertex not found")
	ErrDuplicateVertex = errors.New("vertex already exists")
	ErrSelfLoop        = errors.New("undirected self-loop")
	ErrMixedDirection  = errors.New("directed vertex in an undirected graph")
)

// NodeID identifies a node within one graph. IDs start at 1 and are never reused.
type NodeID int64

// Paint is the colour state of a drawable element. Either colour may be a
// constant or a running animation; renderers resolve both the same way.
type Paint struct {
	Fill anim.Value[colors.Spec]
	Font anim.Value[colors.Spec]
}

// NewPaint creates a paint with constant colours
func NewPaint(fill, font colors.Spec) Paint {
	return Paint{
		Fill: anim.Constant(fill),
		Font: anim.Constant(font),
	}
}

// ResolveFill returns the fill colour at now, or fallback when the paint is unset
func (p Paint) ResolveFill(now time.Time, fallback colors.Spec) colors.Spec {
	if s := p.Fill.Resolve(now); s != nil {
		return s
	}
	return fallback
}

// ResolveFont returns the font colour at now, or fallback when the paint is unset
func (p Paint) ResolveFont(now time.Time, fallback colors.Spec) colors.Spec {
	if s := p.Font.Resolve(now); s != nil {
		return s
	}
	return fallback
}

// Node represents a node in the graph
type Node struct {
	ID       NodeID      `json:"id"`
	Label    string      `json:"label"`
	Position geom.Vector `json:"position"`
	Velocity geom.Vector `json:"velocity"`
	Paint    Paint       `json:"-"`

	outgoing []*Vertex
}

// Outgoing returns the vertices starting at n. The vertices belong to the graph.
func (n *Node) Outgoing() []*Vertex {
	out := make([]*Vertex, len(n.outgoing))
	copy(out, n.outgoing)
	return out
}

// Vertex is a directed, weighted connection between two nodes. An undirected
// edge is stored as two vertices, one in each direction.
type Vertex struct {
	From   NodeID  `json:"from"`
	To     NodeID  `json:"to"`
	Weight float64 `json:"weight"`
	Paint  Paint   `json:"-"`
}

// Loop reports whether the vertex starts and ends at the same node
func (v *Vertex) Loop() bool {
	return v.From == v.To
}

// Graph is an ordered collection of nodes and the vertices between them
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Directed  bool      `json:"directed"`
	Weighted  bool      `json:"weighted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	nodes    []*Node
	index    map[NodeID]*Node
	vertices []*Vertex
	lastID   NodeID

	components *components
}

// VertexOption configures AddVertex
type VertexOption func(*vertexOptions)

type vertexOptions struct {
	weight   float64
	directed *bool
}

// WithWeight sets the weight of the new vertex
func WithWeight(w float64) VertexOption {
	return func(o *vertexOptions) {
		o.weight = w
	}
}

// Directed overrides the graph's directedness for one AddVertex call
func Directed(directed bool) VertexOption {
	return func(o *vertexOptions) {
		o.directed = &directed
	}
}
