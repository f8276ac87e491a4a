package models

import (
	"testing"
	"time"

	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/geom"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ from, to NodeID }

func edgeSet(g *Graph) map[pair]bool {
	out := make(map[pair]bool)
	for _, v := range g.Vertices() {
		out[pair{v.From, v.To}] = true
	}
	return out
}

// buildGraph creates n nodes and tries to add one vertex per code, where each
// code picks an ordered pair of nodes
func buildGraph(n int, codes []int, directed bool) *Graph {
	g := NewGraph("prop", directed)
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = g.AddNode("", geom.Vec(float64(i), 0))
	}
	if n == 0 {
		return g
	}
	for _, c := range codes {
		_ = g.AddVertex(ids[c%n], ids[(c/n)%n])
	}
	return g
}

func TestAddNodeAssignsUniqueIDs(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", geom.Vec(1, 2))
	b := g.AddNode("b", nil)

	assert.NotEqual(t, a, b)
	assert.Equal(t, []NodeID{a, b}, g.NodeIDs())

	node, err := g.Node(b)
	require.NoError(t, err)
	assert.Equal(t, geom.Zero(), node.Position)

	g.RemoveNode(b)
	c := g.AddNode("c", nil)
	assert.NotEqual(t, b, c, "ids are never reused")
}

func TestAddVertexDirected(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)

	require.NoError(t, g.AddVertex(a, b, WithWeight(5)))
	assert.ErrorIs(t, g.AddVertex(a, b), ErrDuplicateVertex)
	assert.NoError(t, g.AddVertex(b, a))
	assert.NoError(t, g.AddVertex(a, a), "directed loops are allowed")
	assert.ErrorIs(t, g.AddVertex(a, 99), ErrNodeNotFound)
	assert.ErrorIs(t, g.AddVertex(99, a), ErrNodeNotFound)

	w, err := g.Weight(a, b)
	require.NoError(t, err)
	assert.Equal(t, 5.0, w)

	assert.Len(t, g.FindOutgoing(a), 2)
	assert.Len(t, g.FindIncoming(a), 2)
}

func TestAddVertexUndirected(t *testing.T) {
	g := NewGraph("test", false)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)

	require.NoError(t, g.AddVertex(a, b))
	assert.Equal(t, 2, g.VertexCount())
	assert.True(t, g.Adjacent(b, a))

	assert.ErrorIs(t, g.AddVertex(b, a), ErrDuplicateVertex)
	assert.ErrorIs(t, g.AddVertex(a, a), ErrSelfLoop)
	assert.ErrorIs(t, g.AddVertex(a, b, Directed(true)), ErrMixedDirection)
	assert.Equal(t, 2, g.VertexCount(), "failed calls change nothing")

	require.NoError(t, g.RemoveVertex(b, a))
	assert.Equal(t, 0, g.VertexCount())
	assert.ErrorIs(t, g.RemoveVertex(a, b), ErrVertexNotFound)
}

func TestUndirectedHalfInDirectedGraph(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)

	require.NoError(t, g.AddVertex(a, b))
	require.NoError(t, g.AddVertex(a, b, Directed(false)), "adds the missing half")
	assert.Equal(t, 2, g.VertexCount())
	assert.ErrorIs(t, g.AddVertex(b, a, Directed(false)), ErrDuplicateVertex)
}

func TestToggleAndWeight(t *testing.T) {
	g := NewGraph("test", false)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)

	require.NoError(t, g.ToggleVertex(a, b))
	require.NoError(t, g.SetWeight(a, b, 3))
	w, err := g.Weight(b, a)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w)

	require.NoError(t, g.ToggleVertex(a, b))
	assert.Equal(t, 0, g.VertexCount())
	assert.ErrorIs(t, g.SetWeight(a, b, 1), ErrVertexNotFound)
}

func TestRemoveNodeDropsIncidentVertices(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)
	c := g.AddNode("c", nil)
	require.NoError(t, g.AddVertex(a, b))
	require.NoError(t, g.AddVertex(b, c))
	require.NoError(t, g.AddVertex(c, a))

	g.RemoveNode(b)
	g.RemoveNode(b)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.VertexCount())
	assert.Empty(t, g.FindOutgoing(a))
	assert.Len(t, g.FindOutgoing(c), 1)
}

func TestReorient(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)
	require.NoError(t, g.AddVertex(a, b, WithWeight(2)))

	g.Reorient()
	_, err := g.Vertex(a, b)
	assert.ErrorIs(t, err, ErrVertexNotFound)
	w, err := g.Weight(b, a)
	require.NoError(t, err)
	assert.Equal(t, 2.0, w)
	assert.Len(t, g.FindOutgoing(b), 1)
}

func TestComplementKeepsLoops(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)
	c := g.AddNode("c", nil)
	require.NoError(t, g.AddVertex(a, b))
	require.NoError(t, g.AddVertex(c, c))

	g.Complement()

	got := edgeSet(g)
	assert.False(t, got[pair{a, b}])
	assert.True(t, got[pair{c, c}])
	assert.True(t, got[pair{b, a}])
	assert.True(t, got[pair{a, c}])
	assert.Len(t, got, 6)
}

func TestSetDirectedSymmetrises(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)
	require.NoError(t, g.AddVertex(a, b, WithWeight(4)))
	require.NoError(t, g.AddVertex(a, a))

	g.SetDirected(false)

	assert.False(t, g.Directed)
	assert.Equal(t, 2, g.VertexCount())
	w, err := g.Weight(b, a)
	require.NoError(t, err)
	assert.Equal(t, 4.0, w)
}

func TestWeakConnectivityScenario(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("A", nil)
	b := g.AddNode("B", nil)
	c := g.AddNode("C", nil)
	d := g.AddNode("D", nil)
	require.NoError(t, g.AddVertex(a, b))
	require.NoError(t, g.AddVertex(b, c))

	assert.True(t, g.WeaklyConnected(a, c))
	assert.True(t, g.WeaklyConnected(c, a))
	assert.True(t, g.WeaklyConnected(d, d))
	assert.False(t, g.WeaklyConnected(a, d))
	assert.False(t, g.WeaklyConnected(a, 42))

	assert.Equal(t, [][]NodeID{{a, b, c}, {d}}, g.Components())
	assert.Equal(t, []NodeID{a, b, c}, g.WeaklyConnectedTo(c))

	require.NoError(t, g.AddVertex(d, c))
	assert.True(t, g.WeaklyConnected(a, d), "cache is invalidated on mutation")
}

func TestQueries(t *testing.T) {
	g := NewGraph("test", true)
	a := g.AddNode("alpha", geom.Vec(0, 0))
	b := g.AddNode("beta", geom.Vec(3, 0))
	require.NoError(t, g.AddVertex(b, a))

	node, err := g.NodeByLabel("beta")
	require.NoError(t, err)
	assert.Equal(t, b, node.ID)

	_, err = g.NodeByLabel("gamma")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	hit, ok := g.NodeAt(geom.Vec(2.8, 0.1), 0.5)
	require.True(t, ok)
	assert.Equal(t, b, hit.ID)
	_, ok = g.NodeAt(geom.Vec(1.5, 0), 0.5)
	assert.False(t, ok)

	assert.Equal(t, []NodeID{b}, g.Neighbors(a))
	assert.Len(t, g.FilterNodes(func(n *Node) bool { return n.Position.X() > 1 }), 1)

	v, ok := g.VertexAt(geom.Vec(1.5, 0.2), 0.5)
	require.True(t, ok)
	assert.Equal(t, b, v.From)
	assert.Equal(t, a, v.To)
	_, ok = g.VertexAt(geom.Vec(1.5, 2), 0.5)
	assert.False(t, ok)

	require.NoError(t, g.AddVertex(a, a))
	_, ok = g.VertexAt(geom.Vec(0, 0.1), 0.5)
	assert.True(t, ok, "the a-b segment is still within reach")
	_, ok = g.VertexAt(geom.Vec(-0.6, 0), 0.5)
	assert.False(t, ok, "loops are never hit")
}

func TestPaintFallback(t *testing.T) {
	var p Paint
	now := time.Now()
	pal := colors.Light()
	assert.Equal(t, pal.Text, p.ResolveFill(now, colors.Text()).Resolve(pal))

	g := NewGraph("test", true)
	node, err := g.Node(g.AddNode("a", nil))
	require.NoError(t, err)
	assert.Equal(t, pal.Background, node.Paint.ResolveFill(now, nil).Resolve(pal))
}

func TestGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nodes := gen.IntRange(0, 8)
	codes := gen.SliceOf(gen.IntRange(0, 63))

	properties.Property("reorient twice restores the vertex set", prop.ForAll(
		func(n int, cs []int, directed bool) bool {
			g := buildGraph(n, cs, directed)
			before := edgeSet(g)
			g.Reorient()
			g.Reorient()
			return assert.ObjectsAreEqual(before, edgeSet(g))
		},
		nodes, codes, gen.Bool(),
	))

	properties.Property("complement twice restores the vertex set", prop.ForAll(
		func(n int, cs []int, directed bool) bool {
			g := buildGraph(n, cs, directed)
			before := edgeSet(g)
			g.Complement()
			g.Complement()
			return assert.ObjectsAreEqual(before, edgeSet(g))
		},
		nodes, codes, gen.Bool(),
	))

	properties.Property("removing a node removes exactly its incident vertices", prop.ForAll(
		func(n int, cs []int, victim int) bool {
			g := buildGraph(n, cs, true)
			if n == 0 {
				return true
			}
			id := g.NodeIDs()[victim%n]
			incident := 0
			for _, v := range g.Vertices() {
				if v.From == id || v.To == id {
					incident++
				}
			}
			before := g.VertexCount()
			g.RemoveNode(id)
			return g.VertexCount() == before-incident
		},
		nodes, codes, gen.IntRange(0, 100),
	))

	properties.Property("weak connectivity is symmetric and reflexive", prop.ForAll(
		func(n int, cs []int) bool {
			g := buildGraph(n, cs, true)
			ids := g.NodeIDs()
			index := g.ComponentIndex()
			for _, a := range ids {
				if !g.WeaklyConnected(a, a) {
					return false
				}
				for _, b := range ids {
					ab := g.WeaklyConnected(a, b)
					if ab != g.WeaklyConnected(b, a) {
						return false
					}
					if index[a] != index[b] && ab {
						return false
					}
				}
			}
			return true
		},
		nodes, codes,
	))

	properties.TestingRun(t)
}
