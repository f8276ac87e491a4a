// Package physics computes the continuous force layout of an edited graph:
// pairwise repulsion, spring attraction inside weakly connected components and
// the optional tree-mode layering.
package physics

import (
	"math"
	"time"

	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/selection"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// coincident is the distance below which two nodes are treated as lying on
// top of each other and pushed apart in a noise-derived direction
const coincident = 1e-9

// maxCatchUp bounds how many ticks Advance runs to make up for a late call
const maxCatchUp = 4

// Config holds the force parameters of the simulation
type Config struct {
	Repulsion         float64 `toml:"repulsion" json:"repulsion" validate:"gte=0"`
	SpringCoefficient float64 `toml:"spring_coefficient" json:"spring_coefficient" validate:"gte=0"`
	SpringLength      float64 `toml:"spring_length" json:"spring_length" validate:"gt=0"`
	Damping           float64 `toml:"damping" json:"damping" validate:"gte=0,lte=1"`
	MinDistance       float64 `toml:"min_distance" json:"min_distance" validate:"gt=0"`
	MaxSpeed          float64 `toml:"max_speed" json:"max_speed" validate:"gt=0"`
	TreeStrength      float64 `toml:"tree_strength" json:"tree_strength" validate:"gte=0"`
	Gravity           float64 `toml:"gravity" json:"gravity" validate:"gte=0"`
}

// DefaultConfig returns parameters tuned for a world where a typical edge is a
// few units long
func DefaultConfig() Config {
	return Config{
		Repulsion:         1.0,
		SpringCoefficient: 1.0 / 3,
		SpringLength:      6.0,
		Damping:           0.5,
		MinDistance:       0.1,
		MaxSpeed:          5.0,
		TreeStrength:      0.3,
		Gravity:           0.1,
	}
}

// ForceLayout moves the nodes of a graph one tick at a time. It keeps no
// per-node state of its own; velocities live on the nodes so that graph edits
// between ticks need no bookkeeping here.
type ForceLayout struct {
	config   Config
	enabled  bool
	treeMode bool
	noise    opensimplex.Noise

	interval time.Duration
	last     time.Time
	ticks    int
	energy   float64
}

// NewForceLayout creates an enabled layout with the given parameters
func NewForceLayout(config Config) *ForceLayout {
	return &ForceLayout{
		config:   config,
		enabled:  true,
		noise:    opensimplex.New(1),
		interval: time.Second / 60,
	}
}

// Config returns the current parameters
func (fl *ForceLayout) Config() Config {
	return fl.config
}

// SetConfig replaces the parameters; it takes effect on the next tick
func (fl *ForceLayout) SetConfig(config Config) {
	fl.config = config
}

// SetEnabled turns force-driven movement on or off
func (fl *ForceLayout) SetEnabled(enabled bool) {
	fl.enabled = enabled
}

// Enabled reports whether forces are applied
func (fl *ForceLayout) Enabled() bool {
	return fl.enabled
}

// SetTreeMode turns the tree layering forces on or off. They only act while
// exactly one node is selected.
func (fl *ForceLayout) SetTreeMode(on bool) {
	fl.treeMode = on
}

// TreeMode reports whether tree mode is on
func (fl *ForceLayout) TreeMode() bool {
	return fl.treeMode
}

// SetInterval sets the simulated time covered by one tick
func (fl *ForceLayout) SetInterval(d time.Duration) {
	if d > 0 {
		fl.interval = d
	}
}

// Ticks returns the number of ticks simulated so far
func (fl *ForceLayout) Ticks() int {
	return fl.ticks
}

// Energy returns the kinetic energy after the last tick
func (fl *ForceLayout) Energy() float64 {
	return fl.energy
}

// Advance runs as many ticks as fit between the previous call and now, at least
// one and at most a few, and returns how many ran
func (fl *ForceLayout) Advance(now time.Time, g *models.Graph, sel *selection.State) int {
	steps := 1
	if !fl.last.IsZero() {
		steps = int(now.Sub(fl.last) / fl.interval)
		if steps < 1 {
			steps = 1
		}
		if steps > maxCatchUp {
			steps = maxCatchUp
		}
	}
	fl.last = now

	for i := 0; i < steps; i++ {
		fl.Step(g, sel)
	}
	return steps
}

// RepulsionMagnitude is the strength of the push between two nodes at distance
// d. It falls with the square of the distance and is capped below MinDistance.
func (fl *ForceLayout) RepulsionMagnitude(d float64) float64 {
	d = math.Max(d, fl.config.MinDistance)
	return fl.config.Repulsion / (d * d)
}

// AttractionMagnitude is the pull between two adjacent nodes at distance d, or
// zero when they are not weakly connected. Negative values push apart.
func (fl *ForceLayout) AttractionMagnitude(d float64, connected bool) float64 {
	if !connected {
		return 0
	}
	return fl.config.SpringCoefficient * (d - fl.config.SpringLength)
}

// Step runs one tick. Every force is computed from the positions at the start
// of the tick; positions change only once all forces are known.
func (fl *ForceLayout) Step(g *models.Graph, sel *selection.State) {
	if g == nil {
		return
	}
	if sel == nil {
		sel = selection.New()
	}
	fl.ticks++
	fl.energy = 0

	nodes := g.Nodes()
	if !fl.enabled || len(nodes) < 2 {
		for _, n := range nodes {
			n.Velocity = geom.Zero()
		}
		return
	}

	positions := make([]geom.Vector, len(nodes))
	forces := make([]geom.Vector, len(nodes))
	slot := make(map[models.NodeID]int, len(nodes))
	for i, n := range nodes {
		positions[i] = geom.Copy(n.Position)
		forces[i] = geom.Zero()
		slot[n.ID] = i
	}

	component := g.ComponentIndex()
	adjacent := make(map[[2]int]bool)
	for _, v := range g.Vertices() {
		a, b := slot[v.From], slot[v.To]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		adjacent[[2]int{a, b}] = true
	}

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			delta := positions[j].Sub(positions[i])
			d := delta.Magnitude()

			var u geom.Vector
			if d < coincident {
				u = fl.nudge(nodes[i].ID, nodes[j].ID)
			} else {
				u = delta.Scale(1 / d)
			}

			f := -fl.RepulsionMagnitude(d)
			if adjacent[[2]int{i, j}] {
				f += fl.AttractionMagnitude(d, component[nodes[i].ID] == component[nodes[j].ID])
			}

			push := u.Scale(f)
			forces[i] = forces[i].Add(push)
			forces[j] = forces[j].Sub(push)
		}
	}

	pinned := make(map[models.NodeID]bool)
	if drag, ok := sel.DragTarget(); ok {
		pinned[drag.Node] = true
	}
	if fl.treeMode {
		if root, ok := sel.Root(); ok && g.HasNode(root) {
			fl.treeForces(g, root, nodes, positions, forces)
			pinned[root] = true
		}
	}

	fl.integrate(nodes, forces, pinned)
}

func (fl *ForceLayout) integrate(nodes []*models.Node, forces []geom.Vector, pinned map[models.NodeID]bool) {
	for i, n := range nodes {
		if pinned[n.ID] {
			n.Velocity = geom.Zero()
			continue
		}

		v := geom.Copy(n.Velocity).Add(forces[i]).Scale(fl.config.Damping)
		if speed := v.Magnitude(); speed > fl.config.MaxSpeed {
			v = v.Scale(fl.config.MaxSpeed / speed)
		}
		if !geom.Finite(v) {
			v = geom.Zero()
		}

		n.Velocity = v
		n.Position = geom.Copy(n.Position).Add(v)
		fl.energy += 0.5 * v.Magnitude() * v.Magnitude()
	}
}

// nudge returns a deterministic unit direction for separating two coincident nodes
func (fl *ForceLayout) nudge(a, b models.NodeID) geom.Vector {
	angle := math.Pi * (1 + fl.noise.Eval2(float64(a)*0.37, float64(b)*0.37))
	return geom.Vec(math.Cos(angle), math.Sin(angle))
}
