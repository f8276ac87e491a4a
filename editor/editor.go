// Package editor ties the graph, selection, force layout, view transform and
// animations of one editing session together behind a single tick entry point.
// An Editor is not safe for concurrent use; every call, Advance included, must
// come from the goroutine that drives the ticks.
package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/TFMV/forcegraph/anim"
	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/input"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/selection"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// NodeRadius is the world-space radius used to hit-test nodes
const NodeRadius = 1.0

// VertexReach is how far from a vertex, in world units, a click still hits it
const VertexReach = 0.4

// centerSmoothness is the fraction of the way the view moves towards the
// selection on each tick while centering
const centerSmoothness = 0.3

// ErrNoSuchNode is returned when an operation names a node that is not in the graph
var ErrNoSuchNode = errors.New("no such node")

// Options configures a new Editor
type Options struct {
	Physics      physics.Config
	Palette      colors.Palette
	Duration     time.Duration
	Curve        anim.Curve
	TickInterval time.Duration
	Viewport     geom.Vector
}

// DefaultOptions returns the options of a fresh session
func DefaultOptions() Options {
	return Options{
		Physics:      physics.DefaultConfig(),
		Palette:      colors.Light(),
		Duration:     anim.DefaultDuration / 4,
		TickInterval: time.Second / 60,
		Viewport:     geom.Vec(800, 600),
	}
}

// Editor is one interactive editing session
type Editor struct {
	graph   *models.Graph
	sel     *selection.State
	layout  *physics.ForceLayout
	view    *geom.Transform
	queue   *anim.Queue
	keys    input.State
	palette colors.Palette

	duration time.Duration
	curve    anim.Curve
	viewport geom.Vector
	now      time.Time
}

// New creates an editor over g. A nil graph starts an empty undirected one.
func New(g *models.Graph, opts Options) *Editor {
	if g == nil {
		g = models.NewGraph("untitled", false)
	}

	layout := physics.NewForceLayout(opts.Physics)
	layout.SetInterval(opts.TickInterval)

	viewport := opts.Viewport
	if !geom.Finite(viewport) {
		viewport = geom.Vec(800, 600)
	}

	return &Editor{
		graph:    g,
		sel:      selection.New(),
		layout:   layout,
		view:     geom.NewTransform(),
		queue:    anim.NewQueue(),
		palette:  opts.Palette,
		duration: opts.Duration,
		curve:    opts.Curve,
		viewport: geom.Copy(viewport),
	}
}

// Graph returns the edited graph
func (e *Editor) Graph() *models.Graph {
	return e.graph
}

// Selection returns the selection state
func (e *Editor) Selection() *selection.State {
	return e.sel
}

// Layout returns the force layout
func (e *Editor) Layout() *physics.ForceLayout {
	return e.layout
}

// View returns the canvas transform
func (e *Editor) View() *geom.Transform {
	return e.view
}

// Palette returns the active palette
func (e *Editor) Palette() colors.Palette {
	return e.palette
}

// SetPalette switches the active palette
func (e *Editor) SetPalette(p colors.Palette) {
	e.palette = p
}

// SetViewport sets the canvas size used for centering
func (e *Editor) SetViewport(size geom.Vector) {
	e.viewport = geom.Copy(size)
}

// Now returns the time of the last tick
func (e *Editor) Now() time.Time {
	if e.now.IsZero() {
		return time.Now()
	}
	return e.now
}

// Advance is the tick entry point: queued animations start or retire, the
// layout moves the nodes and, while space is held, the view follows the
// selection.
func (e *Editor) Advance(now time.Time) {
	e.now = now
	e.queue.Advance(now)
	e.layout.Advance(now, e.graph, e.sel)

	if e.keys.Pressed(input.Space) && e.sel.Len() > 0 {
		e.CenterOnSelection(centerSmoothness)
	}
}

// Replace swaps in another graph, dropping the selection and any queued
// animations that point into the old one
func (e *Editor) Replace(g *models.Graph) {
	if g == nil {
		g = models.NewGraph("untitled", false)
	}
	e.graph = g
	e.sel = selection.New()
	e.queue.Clear()
}

// Idle reports whether no queued animation is pending or running
func (e *Editor) Idle() bool {
	return e.queue.Idle()
}

// AddNode adds a node at a world position
func (e *Editor) AddNode(label string, position geom.Vector) models.NodeID {
	return e.graph.AddNode(label, position)
}

// RemoveNode removes a node, its vertices and any selection of them
func (e *Editor) RemoveNode(id models.NodeID) {
	e.graph.RemoveNode(id)
	e.sel.Prune(e.graph)
}

// DeleteSelected removes every selected node and vertex
func (e *Editor) DeleteSelected() {
	for _, id := range e.sel.Selected() {
		e.graph.RemoveNode(id)
	}
	for _, k := range e.sel.SelectedVertices() {
		// the other half of an undirected pair may already be gone
		_ = e.graph.RemoveVertex(k.From, k.To)
	}
	e.sel.Prune(e.graph)
}

// AddVertex connects two nodes
func (e *Editor) AddVertex(from, to models.NodeID, opts ...models.VertexOption) error {
	return e.graph.AddVertex(from, to, opts...)
}

// RemoveVertex disconnects two nodes
func (e *Editor) RemoveVertex(from, to models.NodeID) error {
	if err := e.graph.RemoveVertex(from, to); err != nil {
		return err
	}
	e.sel.Prune(e.graph)
	return nil
}

// SetWeight changes the weight of a vertex, both halves of an undirected one
func (e *Editor) SetWeight(from, to models.NodeID, w float64) error {
	return e.graph.SetWeight(from, to, w)
}

// SetLabel renames a node
func (e *Editor) SetLabel(id models.NodeID, label string) error {
	if err := e.graph.SetLabel(id, label); err != nil {
		return fmt.Errorf("label node %d: %w", id, ErrNoSuchNode)
	}
	return nil
}

// Reorient reverses every vertex. Selected vertices stay selected in their
// new direction.
func (e *Editor) Reorient() {
	selected := e.sel.SelectedVertices()
	e.graph.Reorient()
	for _, k := range selected {
		e.sel.DeselectVertex(k.From, k.To)
	}
	for _, k := range selected {
		e.sel.SelectVertex(k.To, k.From)
	}
}

// Complement replaces the vertices with those of the complement graph. The
// vertex selection goes with the vertices it named.
func (e *Editor) Complement() {
	e.graph.Complement()
	e.sel.Prune(e.graph)
}

// SetDirected switches the graph between directed and undirected. Turning
// undirected adds the missing halves and drops loops.
func (e *Editor) SetDirected(directed bool) {
	e.graph.SetDirected(directed)
	e.sel.Prune(e.graph)
}

// SetTreeMode turns tree layering on or off. It takes effect on the next tick
// and only acts while exactly one node is selected.
func (e *Editor) SetTreeMode(on bool) {
	e.layout.SetTreeMode(on)
}

// SetForces turns force-driven movement on or off
func (e *Editor) SetForces(on bool) {
	e.layout.SetEnabled(on)
}

// SetPhysics replaces the force parameters
func (e *Editor) SetPhysics(config physics.Config) {
	e.layout.SetConfig(config)
}

// Rotate turns the components of the selected nodes by angle radians around
// the centroid of the selection
func (e *Editor) Rotate(angle float64) {
	selected := e.sel.Selected()
	if len(selected) == 0 {
		return
	}

	pivot := e.centroid(selected)
	for _, id := range e.graph.WeaklyConnectedTo(selected...) {
		if node, err := e.graph.Node(id); err == nil {
			node.Position = geom.RotateAbout(node.Position, angle, pivot)
		}
	}
}

// CenterOnSelection moves the view towards the centroid of the selection
func (e *Editor) CenterOnSelection(smoothness float64) {
	selected := e.sel.Selected()
	if len(selected) == 0 {
		return
	}
	e.view.Center(e.centroid(selected), e.viewport, smoothness)
}

func (e *Editor) centroid(ids []models.NodeID) geom.Vector {
	positions := make([]geom.Vector, 0, len(ids))
	for _, id := range ids {
		if node, err := e.graph.Node(id); err == nil {
			positions = append(positions, node.Position)
		}
	}
	return geom.Average(positions)
}

// NodeColor resolves the fill colour of a node at now against the active palette
func (e *Editor) NodeColor(id models.NodeID, now time.Time) (colorful.Color, error) {
	node, err := e.node(id)
	if err != nil {
		return colorful.Color{}, err
	}
	return node.Paint.ResolveFill(now, colors.Background()).Resolve(e.palette), nil
}

func (e *Editor) node(id models.NodeID) (*models.Node, error) {
	node, err := e.graph.Node(id)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	return node, nil
}
