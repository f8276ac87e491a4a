package anim

import (
	"time"

	"github.com/TFMV/forcegraph/geom"
)

// LerpFunc interpolates between from and to at progress p in [0,1]
type LerpFunc[T any] func(from, to T, p float64) T

// Value is either a constant or an animation between two values. Both forms
// resolve the same way, so callers need not know which one they hold.
type Value[T any] struct {
	from  T
	to    T
	timer *Timer
	lerp  LerpFunc[T]
}

// Constant creates a value that never changes
func Constant[T any](v T) Value[T] {
	return Value[T]{from: v, to: v}
}

// Animate creates an animation that starts at now
func Animate[T any](from, to T, d time.Duration, curve Curve, lerp LerpFunc[T], now time.Time) Value[T] {
	v := Pending(from, to, d, curve, lerp)
	v.timer.Start(now)
	return v
}

// Pending creates an animation whose timer is started later, typically by a Queue.
// Until then it resolves to from.
func Pending[T any](from, to T, d time.Duration, curve Curve, lerp LerpFunc[T]) Value[T] {
	return Value[T]{
		from:  from,
		to:    to,
		timer: NewTimer(d, curve),
		lerp:  lerp,
	}
}

// Driven creates an animation run by an existing timer, usually one owned by a
// Queue entry
func Driven[T any](from, to T, timer *Timer, lerp LerpFunc[T]) Value[T] {
	return Value[T]{
		from:  from,
		to:    to,
		timer: timer,
		lerp:  lerp,
	}
}

// Resolve returns the value at now. Once the animation has run its course this
// is always the end value.
func (v Value[T]) Resolve(now time.Time) T {
	if v.timer == nil || v.lerp == nil {
		return v.to
	}

	p := v.timer.Progress(now)
	switch {
	case p >= 1:
		return v.to
	case p <= 0:
		return v.from
	}
	return v.lerp(v.from, v.to, p)
}

// Animated reports whether v is an animation rather than a constant
func (v Value[T]) Animated() bool {
	return v.timer != nil
}

// Terminal reports whether v can no longer change
func (v Value[T]) Terminal(now time.Time) bool {
	return v.timer == nil || v.timer.Finished(now)
}

// From returns the start value
func (v Value[T]) From() T {
	return v.from
}

// To returns the end value
func (v Value[T]) To() T {
	return v.to
}

// Timer returns the driving timer, nil for constants
func (v Value[T]) Timer() *Timer {
	return v.timer
}

// Restart re-arms the same animation from its original start value
func (v Value[T]) Restart(now time.Time) Value[T] {
	if v.timer == nil {
		return v
	}
	out := Pending(v.from, v.to, v.timer.Duration(), v.timer.Curve(), v.lerp)
	out.timer.Start(now)
	return out
}

// Retarget starts a new animation towards to, beginning from whatever v
// currently resolves to so that overriding a running animation does not jump.
// A nil lerp reuses v's interpolation.
func (v Value[T]) Retarget(to T, d time.Duration, curve Curve, lerp LerpFunc[T], now time.Time) Value[T] {
	if lerp == nil {
		lerp = v.lerp
	}
	if lerp == nil {
		return Constant(to)
	}
	return Animate(v.Resolve(now), to, d, curve, lerp, now)
}

// LerpFloat interpolates two numbers
func LerpFloat(from, to, p float64) float64 {
	return from*(1-p) + to*p
}

// LerpVector interpolates two 2D vectors component-wise
func LerpVector(from, to geom.Vector, p float64) geom.Vector {
	return geom.Vec(LerpFloat(from.X(), to.X(), p), LerpFloat(from.Y(), to.Y(), p))
}
