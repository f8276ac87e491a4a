package physics

import (
	"context"
	"fmt"

	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/selection"
)

// LayoutAlgorithm defines an interface for headless layout runs
type LayoutAlgorithm interface {
	Initialize(graph *models.Graph)
	Step() bool // Returns true if stable, false if needs more steps
	Apply(graph *models.Graph)
	GetName() string
}

// DefaultThreshold is the kinetic energy below which a tick counts as calm
const DefaultThreshold = 1e-4

// settleTicks is the number of consecutive calm ticks after which a batch
// layout counts as settled
const settleTicks = 20

// BatchLayout drives a ForceLayout without an editor around it, for exporting
// a laid out graph from the command line
type BatchLayout struct {
	layout    *ForceLayout
	graph     *models.Graph
	sel       *selection.State
	tree      bool
	maxTicks  int
	threshold float64
	calm      int
}

// NewBatchLayout creates a batch layout that gives up after maxTicks ticks
func NewBatchLayout(config Config, maxTicks int) *BatchLayout {
	return &BatchLayout{
		layout:    NewForceLayout(config),
		sel:       selection.New(),
		maxTicks:  maxTicks,
		threshold: DefaultThreshold,
	}
}

// NewTreeLayout creates a batch layout in tree mode rooted at the first node
func NewTreeLayout(config Config, maxTicks int) *BatchLayout {
	b := NewBatchLayout(config, maxTicks)
	b.tree = true
	return b
}

// GetName returns the name of the layout algorithm
func (b *BatchLayout) GetName() string {
	if b.tree {
		return "Tree Layout"
	}
	return "Force Layout"
}

// Initialize prepares the run on graph
func (b *BatchLayout) Initialize(graph *models.Graph) {
	b.graph = graph
	b.calm = 0
	b.sel.Clear()

	if b.tree {
		if ids := graph.NodeIDs(); len(ids) > 0 {
			b.sel.Select(ids[0])
		}
	}
	b.layout.SetTreeMode(b.tree)
}

// Step performs one tick and reports whether the layout has settled
func (b *BatchLayout) Step() bool {
	if b.graph == nil || b.layout.Ticks() >= b.maxTicks {
		return true
	}
	b.layout.Step(b.graph, b.sel)

	if b.layout.Energy() < b.threshold {
		b.calm++
	} else {
		b.calm = 0
	}
	return b.calm >= settleTicks || b.layout.Ticks() >= b.maxTicks
}

// Apply moves the finished layout so that its centroid is the origin
func (b *BatchLayout) Apply(graph *models.Graph) {
	nodes := graph.Nodes()
	positions := make([]geom.Vector, len(nodes))
	for i, n := range nodes {
		positions[i] = n.Position
	}

	shift := geom.Average(positions)
	for _, n := range nodes {
		n.Position = n.Position.Sub(shift)
		n.Velocity = geom.Zero()
	}
}

// Ticks returns the number of ticks run so far
func (b *BatchLayout) Ticks() int {
	return b.layout.Ticks()
}

// Run initializes alg on graph and steps it until it settles, maxTicks pass or
// ctx is cancelled. The result is applied to graph in every case but
// cancellation. It reports whether the layout settled.
func Run(ctx context.Context, alg LayoutAlgorithm, graph *models.Graph, maxTicks int) (bool, error) {
	alg.Initialize(graph)

	stable := false
	for i := 0; i < maxTicks && !stable; i++ {
		select {
		case <-ctx.Done():
			return false, fmt.Errorf("layout %s: %w", alg.GetName(), ctx.Err())
		default:
			stable = alg.Step()
		}
	}

	alg.Apply(graph)
	return stable, nil
}

// GetLayoutAlgorithm returns a layout algorithm by name
func GetLayoutAlgorithm(name string, config Config, maxTicks int) (LayoutAlgorithm, error) {
	switch name {
	case "", "force":
		return NewBatchLayout(config, maxTicks), nil
	case "tree":
		return NewTreeLayout(config, maxTicks), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm: %s", name)
	}
}
