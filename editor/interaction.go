package editor

import (
	"fmt"
	"time"

	"github.com/TFMV/forcegraph/anim"
	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/input"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/selection"
)

func blendSpec(from, to colors.Spec, p float64) colors.Spec {
	if from == nil {
		return to
	}
	return colors.Blend(from, to, p)
}

// highlight animates the fill of a node towards to, starting from whatever it
// shows right now
func (e *Editor) highlight(node *models.Node, to colors.Spec) {
	node.Paint.Fill = node.Paint.Fill.Retarget(to, e.duration, e.curve, blendSpec, e.Now())
}

// Select selects a node. Unless additive, every other node is deselected first.
func (e *Editor) Select(id models.NodeID, additive bool) error {
	node, err := e.node(id)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	if !additive {
		for _, other := range e.sel.Selected() {
			if other != id {
				e.Deselect(other)
			}
		}
	}

	if !e.sel.IsSelected(id) {
		e.sel.Select(id)
		e.highlight(node, colors.Selected())
	}
	return nil
}

// vertexHighlight animates both halves of an undirected vertex
func (e *Editor) vertexHighlight(from, to models.NodeID, color colors.Spec) {
	for _, k := range e.halves(from, to) {
		if v, err := e.graph.Vertex(k.From, k.To); err == nil {
			v.Paint.Fill = v.Paint.Fill.Retarget(color, e.duration, e.curve, blendSpec, e.Now())
		}
	}
}

func (e *Editor) halves(from, to models.NodeID) []selection.VertexKey {
	keys := []selection.VertexKey{{From: from, To: to}}
	if !e.graph.Directed && from != to {
		keys = append(keys, selection.VertexKey{From: to, To: from})
	}
	return keys
}

// SelectVertex selects a vertex, with its other half when undirected. Unless
// additive, everything else is deselected first.
func (e *Editor) SelectVertex(from, to models.NodeID, additive bool) error {
	if _, err := e.graph.Vertex(from, to); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if !additive {
		e.DeselectAll()
	}
	if e.sel.IsVertexSelected(from, to) {
		return nil
	}
	for _, k := range e.halves(from, to) {
		e.sel.SelectVertex(k.From, k.To)
	}
	e.vertexHighlight(from, to, colors.Selected())
	return nil
}

// DeselectVertex removes a vertex, and its other half, from the selection
func (e *Editor) DeselectVertex(from, to models.NodeID) {
	if !e.sel.IsVertexSelected(from, to) {
		return
	}
	for _, k := range e.halves(from, to) {
		e.sel.DeselectVertex(k.From, k.To)
	}
	e.vertexHighlight(from, to, colors.Text())
}

// Deselect removes a node from the selection
func (e *Editor) Deselect(id models.NodeID) {
	if !e.sel.IsSelected(id) {
		return
	}
	e.sel.Deselect(id)
	if node, err := e.graph.Node(id); err == nil {
		e.highlight(node, colors.Background())
	}
}

// DeselectAll clears the selection
func (e *Editor) DeselectAll() {
	for _, id := range e.sel.Selected() {
		e.Deselect(id)
	}
	for _, k := range e.sel.SelectedVertices() {
		e.DeselectVertex(k.From, k.To)
	}
	e.sel.Clear()
}

// StartDrag makes a node follow the pointer, keeping the offset between the
// pointer and the node centre. The node is selected as well.
func (e *Editor) StartDrag(id models.NodeID, pointer geom.Vector) error {
	node, err := e.node(id)
	if err != nil {
		return fmt.Errorf("drag: %w", err)
	}
	if err := e.Select(id, true); err != nil {
		return err
	}
	e.sel.SetDragTarget(id, node.Position.Sub(pointer))
	return nil
}

// DragTo moves the dragged node, if any, to follow a world-space pointer
func (e *Editor) DragTo(pointer geom.Vector) {
	drag, ok := e.sel.DragTarget()
	if !ok {
		return
	}
	if node, err := e.graph.Node(drag.Node); err == nil {
		node.Position = pointer.Add(drag.Offset)
		node.Velocity = geom.Zero()
	}
}

// StopDrag releases the dragged node back to the layout
func (e *Editor) StopDrag() {
	e.sel.ClearDragTarget()
}

// ChangeColor queues an animation of a node's fill from one colour to another.
// A nil from starts at whatever the node shows when the animation begins.
// Parallel animations queued back to back play together.
func (e *Editor) ChangeColor(id models.NodeID, from, to colors.Spec, parallel bool) error {
	node, err := e.node(id)
	if err != nil {
		return fmt.Errorf("change colour: %w", err)
	}

	timer := anim.NewTimer(e.duration, e.curve)
	e.queue.Push(&anim.Entry{
		Timer:    timer,
		Parallel: parallel,
		OnStart: func(now time.Time) {
			start := from
			if start == nil {
				start = node.Paint.Fill.Resolve(now)
			}
			node.Paint.Fill = anim.Driven(start, to, timer, blendSpec)
		},
	})
	return nil
}

// ChangeVertexColor queues an animation of a vertex colour, like ChangeColor.
// Both halves of an undirected vertex change together.
func (e *Editor) ChangeVertexColor(from, to models.NodeID, color colors.Spec, parallel bool) error {
	var vertices []*models.Vertex
	for _, k := range e.halves(from, to) {
		v, err := e.graph.Vertex(k.From, k.To)
		if err != nil {
			return fmt.Errorf("change colour: %w", err)
		}
		vertices = append(vertices, v)
	}

	timer := anim.NewTimer(e.duration, e.curve)
	e.queue.Push(&anim.Entry{
		Timer:    timer,
		Parallel: parallel,
		OnStart: func(now time.Time) {
			for _, v := range vertices {
				v.Paint.Fill = anim.Driven(v.Paint.Fill.Resolve(now), color, timer, blendSpec)
			}
		},
	})
	return nil
}

// PauseAnimations freezes queued animations
func (e *Editor) PauseAnimations() {
	e.queue.Pause(e.Now())
}

// ResumeAnimations continues queued animations
func (e *Editor) ResumeAnimations() {
	e.queue.Resume(e.Now())
}

// PressKey records a key press. Delete removes the selected nodes.
func (e *Editor) PressKey(k input.Key) {
	e.keys.Press(k)
	if k == input.Delete {
		e.DeleteSelected()
	}
}

// ReleaseKey records a key release
func (e *Editor) ReleaseKey(k input.Key) {
	e.keys.Release(k)
}

// PointerDown handles a button press at a canvas position. The left button
// selects and drags the node under the pointer (adding to the selection while
// shift is held), selects the vertex under it when no node is there, or clears
// the selection on empty canvas. The right button
// toggles vertices from the selected nodes to the node under the pointer, or
// adds a new node there connected from the selection.
func (e *Editor) PointerDown(screen geom.Vector, button input.Button) error {
	e.keys.PressButton(button)
	world := e.view.Apply(screen)
	hit, ok := e.graph.NodeAt(world, NodeRadius)

	switch button {
	case input.Left:
		if !ok {
			if v, hitVertex := e.graph.VertexAt(world, VertexReach); hitVertex {
				return e.SelectVertex(v.From, v.To, e.keys.Pressed(input.Shift))
			}
			e.DeselectAll()
			return nil
		}
		if !e.keys.Pressed(input.Shift) {
			if err := e.Select(hit.ID, false); err != nil {
				return err
			}
		}
		return e.StartDrag(hit.ID, world)

	case input.Right:
		var target models.NodeID
		if ok {
			target = hit.ID
		} else {
			target = e.AddNode("", world)
		}

		for _, from := range e.sel.Selected() {
			if from == target {
				continue
			}
			var err error
			if ok {
				err = e.graph.ToggleVertex(from, target)
			} else {
				err = e.graph.AddVertex(from, target)
			}
			if err != nil {
				return fmt.Errorf("connect %d to %d: %w", from, target, err)
			}
		}

		if !ok {
			return e.Select(target, false)
		}
	}
	return nil
}

// PointerMove handles pointer movement to a canvas position
func (e *Editor) PointerMove(screen geom.Vector) {
	e.DragTo(e.view.Apply(screen))
}

// PointerUp handles a button release
func (e *Editor) PointerUp(button input.Button) {
	e.keys.ReleaseButton(button)
	if button == input.Left {
		e.StopDrag()
	}
}

// Scroll zooms the view around a canvas position
func (e *Editor) Scroll(screen geom.Vector, delta float64) {
	e.view.Zoom(e.view.Apply(screen), delta)
}
