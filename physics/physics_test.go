package physics

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/selection"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func position(t *testing.T, g *models.Graph, id models.NodeID) geom.Vector {
	t.Helper()
	n, err := g.Node(id)
	require.NoError(t, err)
	return geom.Copy(n.Position)
}

func triangle(t *testing.T, g *models.Graph, center geom.Vector, rng *rand.Rand) []models.NodeID {
	t.Helper()
	ids := make([]models.NodeID, 3)
	for i := range ids {
		jitter := geom.Vec(rng.Float64()*6-3, rng.Float64()*6-3)
		ids[i] = g.AddNode("", center.Add(jitter))
	}
	require.NoError(t, g.AddVertex(ids[0], ids[1]))
	require.NoError(t, g.AddVertex(ids[1], ids[2]))
	require.NoError(t, g.AddVertex(ids[2], ids[0]))
	return ids
}

func centroid(t *testing.T, g *models.Graph, ids []models.NodeID) geom.Vector {
	ps := make([]geom.Vector, len(ids))
	for i, id := range ids {
		ps[i] = position(t, g, id)
	}
	return geom.Average(ps)
}

func TestRepulsionMonotoneAndBounded(t *testing.T) {
	fl := NewForceLayout(DefaultConfig())
	floor := DefaultConfig().MinDistance
	ceiling := fl.RepulsionMagnitude(floor)

	previous := math.Inf(1)
	for d := floor; d < 50; d += 0.05 {
		m := fl.RepulsionMagnitude(d)
		assert.Less(t, m, previous, "distance %f", d)
		previous = m
	}

	for _, d := range []float64{0, 1e-12, floor / 2} {
		assert.LessOrEqual(t, fl.RepulsionMagnitude(d), ceiling)
		assert.False(t, math.IsInf(fl.RepulsionMagnitude(d), 0))
	}
}

func TestAttractionZeroWithoutConnectivity(t *testing.T) {
	fl := NewForceLayout(DefaultConfig())
	properties := gopter.NewProperties(nil)

	properties.Property("no attraction across components", prop.ForAll(
		func(d float64) bool {
			return fl.AttractionMagnitude(d, false) == 0
		},
		gen.Float64Range(0, 1e6),
	))
	properties.TestingRun(t)

	assert.Greater(t, fl.AttractionMagnitude(20, true), fl.AttractionMagnitude(10, true))
}

func TestDisconnectedNodesOnlyRepel(t *testing.T) {
	g := models.NewGraph("test", true)
	a := g.AddNode("a", geom.Vec(0, 0))
	b := g.AddNode("b", geom.Vec(10, 0))

	fl := NewForceLayout(DefaultConfig())
	for i := 0; i < 50; i++ {
		fl.Step(g, nil)
	}
	assert.Greater(t, geom.Distance(position(t, g, a), position(t, g, b)), 10.0)
}

func TestLayersScenario(t *testing.T) {
	g := models.NewGraph("test", true)
	a := g.AddNode("A", nil)
	b := g.AddNode("B", nil)
	c := g.AddNode("C", nil)
	d := g.AddNode("D", nil)
	require.NoError(t, g.AddVertex(a, b))
	require.NoError(t, g.AddVertex(b, c))

	assert.True(t, g.WeaklyConnected(a, c))
	assert.Equal(t, map[models.NodeID]int{a: 0, b: 1, c: 2}, Layers(g, a))
	assert.Equal(t, map[models.NodeID]int{c: 0, b: 1, a: 2}, Layers(g, c), "direction is ignored")
	assert.Equal(t, map[models.NodeID]int{d: 0}, Layers(g, d))
	assert.Empty(t, Layers(g, 99))
}

func TestDisjointTrianglesStayApart(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := models.NewGraph("triangles", true)
	left := triangle(t, g, geom.Vec(0, 0), rng)
	right := triangle(t, g, geom.Vec(30, 0), rng)

	start := geom.Distance(centroid(t, g, left), centroid(t, g, right))

	fl := NewForceLayout(DefaultConfig())
	sel := selection.New()
	for i := 0; i < 2000; i++ {
		fl.Step(g, sel)

		if i >= 1900 {
			for _, tri := range [][]models.NodeID{left, right} {
				for j := range tri {
					side := geom.Distance(position(t, g, tri[j]), position(t, g, tri[(j+1)%3]))
					assert.InDelta(t, DefaultConfig().SpringLength, side, 2, "tick %d", i)
				}
			}
		}
	}

	end := geom.Distance(centroid(t, g, left), centroid(t, g, right))
	assert.Greater(t, end, start*0.9)
	assert.Less(t, fl.Energy(), 1e-3)
}

func TestDraggedNodeIsPinnedButPushes(t *testing.T) {
	g := models.NewGraph("test", true)
	a := g.AddNode("a", geom.Vec(0, 0))
	b := g.AddNode("b", geom.Vec(1, 0))

	sel := selection.New()
	sel.SetDragTarget(a, nil)

	fl := NewForceLayout(DefaultConfig())
	fl.Step(g, sel)

	assert.Equal(t, geom.Vec(0, 0), position(t, g, a))
	assert.Greater(t, position(t, g, b).X(), 1.0)
}

func TestTrivialGraphsAreNoOps(t *testing.T) {
	fl := NewForceLayout(DefaultConfig())
	fl.Step(models.NewGraph("empty", true), nil)

	g := models.NewGraph("single", true)
	a := g.AddNode("a", geom.Vec(3, 4))
	require.NoError(t, g.AddVertex(a, a))
	fl.Step(g, nil)
	assert.Equal(t, geom.Vec(3, 4), position(t, g, a))
}

func TestCoincidentNodesSeparate(t *testing.T) {
	g := models.NewGraph("test", true)
	a := g.AddNode("a", geom.Vec(1, 1))
	b := g.AddNode("b", geom.Vec(1, 1))

	fl := NewForceLayout(DefaultConfig())
	fl.Step(g, nil)

	pa, pb := position(t, g, a), position(t, g, b)
	assert.True(t, geom.Finite(pa))
	assert.True(t, geom.Finite(pb))
	assert.Greater(t, geom.Distance(pa, pb), 0.0)
}

func TestForcesUseTickSnapshot(t *testing.T) {
	g := models.NewGraph("test", false)
	a := g.AddNode("a", geom.Vec(-2, 0))
	b := g.AddNode("b", geom.Vec(2, 0))
	c := g.AddNode("c", geom.Vec(0, 3))
	require.NoError(t, g.AddVertex(a, c))
	require.NoError(t, g.AddVertex(b, c))

	fl := NewForceLayout(DefaultConfig())
	for i := 0; i < 5; i++ {
		fl.Step(g, nil)
	}

	pa, pb := position(t, g, a), position(t, g, b)
	assert.InDelta(t, -pa.X(), pb.X(), 1e-9, "mirror-symmetric input stays symmetric")
	assert.InDelta(t, pa.Y(), pb.Y(), 1e-9)
	assert.InDelta(t, 0, position(t, g, c).X(), 1e-9)
}

func TestTreeModeNeedsSingleRoot(t *testing.T) {
	build := func() (*models.Graph, []models.NodeID) {
		g := models.NewGraph("tree", true)
		ids := []models.NodeID{
			g.AddNode("A", geom.Vec(0, 0)),
			g.AddNode("B", geom.Vec(4, -1)),
			g.AddNode("C", geom.Vec(-3, 2)),
		}
		require.NoError(t, g.AddVertex(ids[0], ids[1]))
		require.NoError(t, g.AddVertex(ids[1], ids[2]))
		return g, ids
	}

	plain, ids := build()
	tree, _ := build()

	free := NewForceLayout(DefaultConfig())
	treeless := NewForceLayout(DefaultConfig())
	treeless.SetTreeMode(true)

	sel := selection.New()
	sel.Select(ids[0])
	sel.Select(ids[1])
	for i := 0; i < 10; i++ {
		free.Step(plain, nil)
		treeless.Step(tree, sel)
	}
	for _, id := range ids {
		assert.Equal(t, position(t, plain, id), position(t, tree, id), "two selected nodes: tree mode is ignored")
	}
}

func TestTreeModeHangsLayersBelowRoot(t *testing.T) {
	g := models.NewGraph("tree", true)
	a := g.AddNode("A", geom.Vec(0, 0))
	b := g.AddNode("B", geom.Vec(5, 0))
	c := g.AddNode("C", geom.Vec(-5, 1))
	d := g.AddNode("D", geom.Vec(1, -4))
	e := g.AddNode("E", geom.Vec(-2, 3))
	require.NoError(t, g.AddVertex(a, b))
	require.NoError(t, g.AddVertex(a, c))
	require.NoError(t, g.AddVertex(b, d))
	require.NoError(t, g.AddVertex(c, e))

	sel := selection.New()
	sel.Select(a)

	fl := NewForceLayout(DefaultConfig())
	fl.SetTreeMode(true)
	for i := 0; i < 1500; i++ {
		fl.Step(g, sel)
	}

	root := position(t, g, a)
	assert.Equal(t, geom.Vec(0, 0), root, "root is pinned")

	pb, pc, pd, pe := position(t, g, b), position(t, g, c), position(t, g, d), position(t, g, e)
	assert.Greater(t, pb.Y(), root.Y())
	assert.InDelta(t, pb.Y(), pc.Y(), 1.0, "layer 1 is level")
	assert.InDelta(t, pd.Y(), pe.Y(), 1.0, "layer 2 is level")
	assert.Greater(t, pd.Y(), pb.Y())
	assert.Greater(t, pe.Y(), pc.Y())
}

func TestAdvanceCatchesUp(t *testing.T) {
	g := models.NewGraph("test", true)
	g.AddNode("a", geom.Vec(0, 0))
	g.AddNode("b", geom.Vec(1, 0))

	fl := NewForceLayout(DefaultConfig())
	fl.SetInterval(10 * time.Millisecond)

	now := time.Now()
	assert.Equal(t, 1, fl.Advance(now, g, nil))
	assert.Equal(t, 2, fl.Advance(now.Add(20*time.Millisecond), g, nil))
	assert.Equal(t, maxCatchUp, fl.Advance(now.Add(time.Second), g, nil))
	assert.Equal(t, 1+2+maxCatchUp, fl.Ticks())
}

func TestDisabledLayoutHoldsStill(t *testing.T) {
	g := models.NewGraph("test", true)
	a := g.AddNode("a", geom.Vec(0, 0))
	g.AddNode("b", geom.Vec(0.5, 0))

	fl := NewForceLayout(DefaultConfig())
	fl.SetEnabled(false)
	fl.Step(g, nil)
	assert.Equal(t, geom.Vec(0, 0), position(t, g, a))
	assert.Equal(t, 0.0, fl.Energy())
}

func TestBatchRun(t *testing.T) {
	_, err := GetLayoutAlgorithm("voronoi", DefaultConfig(), 10)
	assert.Error(t, err)

	alg, err := GetLayoutAlgorithm("force", DefaultConfig(), 3000)
	require.NoError(t, err)
	assert.Equal(t, "Force Layout", alg.GetName())

	g := models.NewGraph("batch", false)
	a := g.AddNode("a", geom.Vec(10, 10))
	b := g.AddNode("b", geom.Vec(11, 10))
	require.NoError(t, g.AddVertex(a, b))

	stable, err := Run(context.Background(), alg, g, 3000)
	require.NoError(t, err)
	assert.True(t, stable)

	mid := centroid(t, g, []models.NodeID{a, b})
	assert.InDelta(t, 0, mid.X(), 1e-9)
	assert.InDelta(t, 0, mid.Y(), 1e-9)
	assert.InDelta(t, DefaultConfig().SpringLength, geom.Distance(position(t, g, a), position(t, g, b)), 0.5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, alg, g, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
