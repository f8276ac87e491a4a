// Package selection tracks which nodes and vertices are selected and which
// node, if any, is being dragged.
package selection

import (
	"sort"

	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/models"
)

// VertexKey identifies a vertex by its endpoints
type VertexKey struct {
	From models.NodeID
	To   models.NodeID
}

// Drag is the node receiving pointer positions instead of force integration.
// Offset is the world-space distance from the pointer to the node centre.
type Drag struct {
	Node   models.NodeID
	Offset geom.Vector
}

// State is the selection and drag state of an editor session
type State struct {
	nodes    map[models.NodeID]bool
	vertices map[VertexKey]bool
	drag     *Drag
}

// New returns an empty selection
func New() *State {
	return &State{
		nodes:    make(map[models.NodeID]bool),
		vertices: make(map[VertexKey]bool),
	}
}

// Select adds a node to the selection
func (s *State) Select(id models.NodeID) {
	s.nodes[id] = true
}

// Deselect removes a node from the selection. A dragged node stops being dragged.
func (s *State) Deselect(id models.NodeID) {
	delete(s.nodes, id)
	if s.drag != nil && s.drag.Node == id {
		s.drag = nil
	}
}

// Toggle flips the selection of a node and reports whether it is now selected
func (s *State) Toggle(id models.NodeID) bool {
	if s.nodes[id] {
		s.Deselect(id)
		return false
	}
	s.Select(id)
	return true
}

// Clear deselects everything and drops the drag target
func (s *State) Clear() {
	s.nodes = make(map[models.NodeID]bool)
	s.vertices = make(map[VertexKey]bool)
	s.drag = nil
}

// IsSelected reports whether a node is selected
func (s *State) IsSelected(id models.NodeID) bool {
	return s.nodes[id]
}

// Selected returns the selected node IDs in ascending order
func (s *State) Selected() []models.NodeID {
	out := make([]models.NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of selected nodes
func (s *State) Len() int {
	return len(s.nodes)
}

// Root returns the selected node when exactly one is selected
func (s *State) Root() (models.NodeID, bool) {
	if len(s.nodes) != 1 {
		return 0, false
	}
	for id := range s.nodes {
		return id, true
	}
	return 0, false
}

// SelectVertex adds a vertex to the selection
func (s *State) SelectVertex(from, to models.NodeID) {
	s.vertices[VertexKey{from, to}] = true
}

// DeselectVertex removes a vertex from the selection
func (s *State) DeselectVertex(from, to models.NodeID) {
	delete(s.vertices, VertexKey{from, to})
}

// IsVertexSelected reports whether a vertex is selected
func (s *State) IsVertexSelected(from, to models.NodeID) bool {
	return s.vertices[VertexKey{from, to}]
}

// SelectedVertices returns the selected vertices ordered by endpoints
func (s *State) SelectedVertices() []VertexKey {
	out := make([]VertexKey, 0, len(s.vertices))
	for k := range s.vertices {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// SetDragTarget starts dragging a node, selecting it as well
func (s *State) SetDragTarget(id models.NodeID, offset geom.Vector) {
	s.Select(id)
	s.drag = &Drag{Node: id, Offset: geom.Copy(offset)}
}

// ClearDragTarget stops dragging
func (s *State) ClearDragTarget() {
	s.drag = nil
}

// DragTarget returns the current drag, if any
func (s *State) DragTarget() (Drag, bool) {
	if s.drag == nil {
		return Drag{}, false
	}
	return *s.drag, true
}

// IsDragged reports whether id is the drag target
func (s *State) IsDragged(id models.NodeID) bool {
	return s.drag != nil && s.drag.Node == id
}

// Prune forgets nodes and vertices that are no longer part of g
func (s *State) Prune(g *models.Graph) {
	for id := range s.nodes {
		if !g.HasNode(id) {
			s.Deselect(id)
		}
	}
	for k := range s.vertices {
		if _, err := g.Vertex(k.From, k.To); err != nil {
			delete(s.vertices, k)
		}
	}
	if s.drag != nil && !g.HasNode(s.drag.Node) {
		s.drag = nil
	}
}
