package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceAndUnit(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Vec(0, 0), Vec(3, 4)), 1e-12)

	u := Unit(Vec(3, 4))
	assert.InDelta(t, 0.6, u.X(), 1e-12)
	assert.InDelta(t, 0.8, u.Y(), 1e-12)

	z := Unit(Zero())
	assert.Equal(t, 0.0, z.X())
	assert.Equal(t, 0.0, z.Y())
}

func TestAverage(t *testing.T) {
	avg := Average([]Vector{Vec(0, 0), Vec(2, 0), Vec(1, 3)})
	assert.InDelta(t, 1.0, avg.X(), 1e-12)
	assert.InDelta(t, 1.0, avg.Y(), 1e-12)

	empty := Average(nil)
	assert.Equal(t, 0.0, empty.X())
}

func TestRotateAbout(t *testing.T) {
	p := RotateAbout(Vec(2, 1), math.Pi/2, Vec(1, 1))
	assert.InDelta(t, 1.0, p.X(), 1e-9)
	assert.InDelta(t, 2.0, p.Y(), 1e-9)
}

func TestSegmentDistance(t *testing.T) {
	a, b := Vec(0, 0), Vec(10, 0)
	assert.InDelta(t, 2.0, SegmentDistance(Vec(5, 2), a, b), 1e-9)
	assert.InDelta(t, 5.0, SegmentDistance(Vec(-3, 4), a, b), 1e-9)
	assert.InDelta(t, 1.0, SegmentDistance(Vec(11, 0), a, b), 1e-9)
	assert.InDelta(t, 5.0, SegmentDistance(Vec(3, 4), a, a), 1e-9)
}

func TestCopyIsIndependent(t *testing.T) {
	v := Vec(1, 2)
	c := Copy(v)
	c[0] = 9
	assert.Equal(t, 1.0, v.X())
	assert.True(t, Finite(c))
	assert.False(t, Finite(Vec(math.NaN(), 0)))
}

func TestTransformRoundTrip(t *testing.T) {
	tr := NewTransform()
	tr.Translation = Vec(100, 50)

	screen := Vec(140, 90)
	world := tr.Apply(screen)
	assert.InDelta(t, 2.0, world.X(), 1e-12)
	assert.InDelta(t, 2.0, world.Y(), 1e-12)

	back := tr.Inverse(world)
	assert.InDelta(t, screen.X(), back.X(), 1e-9)
	assert.InDelta(t, screen.Y(), back.Y(), 1e-9)
}

func TestZoomKeepsPointFixed(t *testing.T) {
	tr := NewTransform()
	tr.Translation = Vec(30, -10)

	world := Vec(4, 7)
	before := tr.Inverse(world)
	tr.Zoom(world, 1)
	after := tr.Inverse(world)

	assert.InDelta(t, DefaultScale*2, tr.Scale, 1e-12)
	assert.InDelta(t, before.X(), after.X(), 1e-9)
	assert.InDelta(t, before.Y(), after.Y(), 1e-9)
}

func TestCenterImmediately(t *testing.T) {
	tr := NewTransform()
	viewport := Vec(800, 600)

	tr.Center(Vec(3, -2), viewport, 1)

	onScreen := tr.Inverse(Vec(3, -2))
	assert.InDelta(t, 400.0, onScreen.X(), 1e-9)
	assert.InDelta(t, 300.0, onScreen.Y(), 1e-9)
}
