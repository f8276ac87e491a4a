package anim

import (
	"testing"
	"time"

	"github.com/TFMV/forcegraph/geom"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTimerProgress(t *testing.T) {
	timer := NewTimer(time.Second, nil)
	assert.Equal(t, 0.0, timer.Progress(epoch), "unstarted timer")

	timer.Start(epoch)
	assert.Equal(t, 0.0, timer.Progress(epoch))
	assert.Equal(t, 0.0, timer.Progress(epoch.Add(-time.Second)))
	assert.InDelta(t, 0.5, timer.Progress(epoch.Add(500*time.Millisecond)), 1e-6)
	assert.Equal(t, 1.0, timer.Progress(epoch.Add(time.Second)))
	assert.Equal(t, 1.0, timer.Progress(epoch.Add(time.Hour)))
	assert.True(t, timer.Finished(epoch.Add(time.Second)))
	assert.False(t, timer.Finished(epoch.Add(999*time.Millisecond)))
}

func TestZeroDurationIsComplete(t *testing.T) {
	timer := NewTimer(0, nil)
	timer.Start(epoch)
	assert.Equal(t, 1.0, timer.Progress(epoch))
	assert.True(t, timer.Finished(epoch))
}

func TestTimerPauseResume(t *testing.T) {
	timer := NewTimer(time.Second, nil)
	timer.Start(epoch)

	timer.Pause(epoch.Add(250 * time.Millisecond))
	assert.True(t, timer.Paused())
	assert.InDelta(t, 0.25, timer.Progress(epoch.Add(10*time.Second)), 1e-6)
	assert.False(t, timer.Finished(epoch.Add(10*time.Second)))

	resume := epoch.Add(10 * time.Second)
	timer.Resume(resume)
	assert.InDelta(t, 0.5, timer.Progress(resume.Add(250*time.Millisecond)), 1e-6)
	assert.True(t, timer.Finished(resume.Add(750*time.Millisecond)))
}

func TestCurveLookup(t *testing.T) {
	c, err := CurveByName("In-Out_Quad")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, Eval(c, 0.5), 1e-6)

	lin, err := CurveByName("")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, Eval(lin, 0.3), 1e-6)

	_, err = CurveByName("wobble")
	assert.Error(t, err)
	assert.Contains(t, CurveNames(), "outbounce")
}

func TestCurvesHitEndpoints(t *testing.T) {
	for _, name := range CurveNames() {
		c, err := CurveByName(name)
		require.NoError(t, err)
		assert.Equal(t, 0.0, Eval(c, 0), name)
		assert.Equal(t, 1.0, Eval(c, 1), name)
	}
}

func TestValueResolve(t *testing.T) {
	c := Constant(4.0)
	assert.Equal(t, 4.0, c.Resolve(epoch))
	assert.True(t, c.Terminal(epoch))
	assert.False(t, c.Animated())

	v := Animate(0.0, 10.0, time.Second, nil, LerpFloat, epoch)
	assert.Equal(t, 0.0, v.Resolve(epoch))
	assert.InDelta(t, 5.0, v.Resolve(epoch.Add(500*time.Millisecond)), 1e-5)
	assert.Equal(t, 10.0, v.Resolve(epoch.Add(time.Second)))
	assert.True(t, v.Terminal(epoch.Add(2*time.Second)))
}

func TestPendingHoldsStart(t *testing.T) {
	v := Pending(1.0, 2.0, time.Second, nil, LerpFloat)
	assert.Equal(t, 1.0, v.Resolve(epoch.Add(time.Hour)))
	assert.False(t, v.Terminal(epoch.Add(time.Hour)))
}

func TestRetargetDoesNotJump(t *testing.T) {
	v := Animate(0.0, 10.0, time.Second, nil, LerpFloat, epoch)
	mid := epoch.Add(500 * time.Millisecond)
	before := v.Resolve(mid)

	w := v.Retarget(-10, time.Second, nil, nil, mid)
	assert.InDelta(t, before, w.Resolve(mid), 1e-9)
	assert.Equal(t, -10.0, w.Resolve(mid.Add(time.Second)))
}

func TestRestartUsesOriginalStart(t *testing.T) {
	v := Animate(0.0, 10.0, time.Second, nil, LerpFloat, epoch)
	later := epoch.Add(5 * time.Second)
	r := v.Restart(later)
	assert.Equal(t, 0.0, r.Resolve(later))
	assert.Equal(t, 10.0, r.Resolve(later.Add(time.Second)))
}

func TestLerpVector(t *testing.T) {
	a, b := geom.Vec(0, 0), geom.Vec(2, -4)
	assert.Equal(t, a, LerpVector(a, b, 0))
	assert.Equal(t, b, LerpVector(a, b, 1))
	mid := LerpVector(a, b, 0.5)
	assert.InDelta(t, 1.0, mid.X(), 1e-12)
	assert.InDelta(t, -2.0, mid.Y(), 1e-12)
}

func TestQueueSequential(t *testing.T) {
	q := NewQueue()
	var order []string

	first := NewTimer(time.Second, nil)
	second := NewTimer(time.Second, nil)
	q.Push(&Entry{Timer: first, OnStart: func(time.Time) { order = append(order, "first") }})
	q.Push(&Entry{Timer: second, OnStart: func(time.Time) { order = append(order, "second") }})

	assert.Equal(t, 1, q.Advance(epoch))
	assert.False(t, second.Started())

	assert.Equal(t, 0, q.Advance(epoch.Add(500*time.Millisecond)))

	// the second entry starts on the tick the first one ends
	assert.Equal(t, 1, q.Advance(epoch.Add(time.Second)))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.InDelta(t, 0.5, second.Progress(epoch.Add(1500*time.Millisecond)), 1e-6)

	q.Advance(epoch.Add(2 * time.Second))
	assert.True(t, q.Idle())
}

func TestQueueSkipsZeroDurationEntries(t *testing.T) {
	q := NewQueue()
	instant := NewTimer(0, nil)
	after := NewTimer(time.Second, nil)
	q.Push(&Entry{Timer: instant})
	q.Push(&Entry{Timer: after})

	assert.Equal(t, 2, q.Advance(epoch))
	assert.True(t, after.Started())
	assert.Equal(t, 1, q.Len())
}

func TestQueueParallelRun(t *testing.T) {
	q := NewQueue()
	a := NewTimer(time.Second, nil)
	b := NewTimer(time.Second, nil)
	c := NewTimer(time.Second, nil)
	q.Push(&Entry{Timer: a, Parallel: true})
	q.Push(&Entry{Timer: b, Parallel: true})
	q.Push(&Entry{Timer: c})

	assert.Equal(t, 2, q.Advance(epoch))
	assert.True(t, a.Started())
	assert.True(t, b.Started())
	assert.False(t, c.Started())
}

func TestQueueDrivesValues(t *testing.T) {
	q := NewQueue()
	current := Constant(0.0)

	timer := NewTimer(time.Second, nil)
	q.Push(&Entry{Timer: timer, OnStart: func(now time.Time) {
		current = Driven(current.Resolve(now), 8.0, timer, LerpFloat)
	}})

	q.Advance(epoch)
	assert.InDelta(t, 4.0, current.Resolve(epoch.Add(500*time.Millisecond)), 1e-5)
	assert.Equal(t, 8.0, current.Resolve(epoch.Add(time.Second)))
}

func TestQueuePause(t *testing.T) {
	q := NewQueue()
	a := NewTimer(time.Second, nil)
	q.Push(&Entry{Timer: a})
	q.Advance(epoch)

	q.Pause(epoch.Add(100 * time.Millisecond))
	q.Advance(epoch.Add(5 * time.Second))
	assert.Equal(t, 1, q.Len())

	q.Resume(epoch.Add(5 * time.Second))
	q.Advance(epoch.Add(6 * time.Second))
	assert.True(t, q.Idle())
}

func TestProgressProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("progress stays in [0,1] and is monotone", prop.ForAll(
		func(ms int64, a, b int64) bool {
			d := time.Duration(ms) * time.Millisecond
			timer := NewTimer(d, nil)
			timer.Start(epoch)
			if a > b {
				a, b = b, a
			}
			pa := timer.Progress(epoch.Add(time.Duration(a) * time.Millisecond))
			pb := timer.Progress(epoch.Add(time.Duration(b) * time.Millisecond))
			return pa >= 0 && pb <= 1 && pa <= pb
		},
		gen.Int64Range(0, 5000),
		gen.Int64Range(-1000, 10000),
		gen.Int64Range(-1000, 10000),
	))

	properties.Property("lerp endpoints are exact", prop.ForAll(
		func(a, b float64) bool {
			return LerpFloat(a, b, 0) == a && LerpFloat(a, b, 1) == b
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
