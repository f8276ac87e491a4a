// Package anim turns wall-clock time into normalised animation progress and
// builds values that may either be constant or changing over time.
package anim

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDuration is used when an animation is created without a duration
const DefaultDuration = time.Second

// Timer reports eased progress from 0 to 1 over a fixed duration. A timer does
// nothing until started; it can be paused and resumed.
type Timer struct {
	duration time.Duration
	curve    Curve
	tween    *gween.Tween

	started   bool
	paused    bool
	resumedAt time.Time     // start of the current running stretch
	carried   time.Duration // time accumulated before the last pause
}

// NewTimer creates a stopped timer. A nil curve means linear progress.
func NewTimer(duration time.Duration, curve Curve) *Timer {
	if curve == nil {
		curve = ease.Linear
	}
	if duration < 0 {
		duration = 0
	}
	return &Timer{
		duration: duration,
		curve:    curve,
		tween:    gween.New(0, 1, float32(duration.Seconds()), curve),
	}
}

// Start (re)starts the timer at now, discarding previous progress
func (t *Timer) Start(now time.Time) {
	t.started = true
	t.paused = false
	t.carried = 0
	t.resumedAt = now
	t.tween.Reset()
}

// Pause freezes progress. It does nothing if the timer is not running.
func (t *Timer) Pause(now time.Time) {
	if !t.started || t.paused {
		return
	}
	t.carried += now.Sub(t.resumedAt)
	t.paused = true
}

// Resume continues a paused timer
func (t *Timer) Resume(now time.Time) {
	if !t.started || !t.paused {
		return
	}
	t.paused = false
	t.resumedAt = now
}

// Elapsed returns the running time at now, excluding paused stretches
func (t *Timer) Elapsed(now time.Time) time.Duration {
	if !t.started {
		return 0
	}
	if t.paused {
		return t.carried
	}
	return t.carried + now.Sub(t.resumedAt)
}

// Progress returns curve(clamp(elapsed/duration, 0, 1))
func (t *Timer) Progress(now time.Time) float64 {
	if !t.started {
		return 0
	}
	if t.duration <= 0 {
		return 1
	}

	elapsed := t.Elapsed(now)
	if elapsed >= t.duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}

	current, _ := t.tween.Set(float32(elapsed.Seconds()))
	p := float64(current)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Finished reports whether a started, running timer has used up its duration
func (t *Timer) Finished(now time.Time) bool {
	return t.started && !t.paused && t.Elapsed(now) >= t.duration
}

// Started reports whether Start was called
func (t *Timer) Started() bool {
	return t.started
}

// Paused reports whether the timer is paused
func (t *Timer) Paused() bool {
	return t.paused
}

// Duration returns the configured duration
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Curve returns the easing curve
func (t *Timer) Curve() Curve {
	return t.curve
}
