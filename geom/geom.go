// Package geom provides the 2D vector helpers and the canvas view transform
// shared by the layout engine and its consumers.
package geom

import (
	"math"

	"github.com/quartercastle/vector"
)

// Vector is a 2D vector; components are X() and Y().
type Vector = vector.Vector

// Vec creates a 2D vector
func Vec(x, y float64) Vector {
	return Vector{x, y}
}

// Zero returns the zero vector
func Zero() Vector {
	return Vector{0, 0}
}

// Distance returns the euclidean distance between two points
func Distance(a, b Vector) float64 {
	return a.Sub(b).Magnitude()
}

// Unit returns the unit vector of v, or the zero vector if v has no length
func Unit(v Vector) Vector {
	m := v.Magnitude()
	if m == 0 || math.IsNaN(m) {
		return Zero()
	}
	return v.Scale(1 / m)
}

// Sum adds all vectors together
func Sum(vs []Vector) Vector {
	total := Zero()
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

// Average returns the centroid of the given points (zero for an empty slice)
func Average(vs []Vector) Vector {
	if len(vs) == 0 {
		return Zero()
	}
	return Sum(vs).Scale(1 / float64(len(vs)))
}

// Rotate rotates v counter-clockwise by angle radians around the origin
func Rotate(v Vector, angle float64) Vector {
	return v.Rotate(angle)
}

// RotateAbout rotates the point v by angle radians around pivot
func RotateAbout(v Vector, angle float64, pivot Vector) Vector {
	return Rotate(v.Sub(pivot), angle).Add(pivot)
}

// SegmentDistance returns the distance from p to the segment between a and b
func SegmentDistance(p, a, b Vector) float64 {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	length := dx*dx + dy*dy
	if length == 0 {
		return Distance(p, a)
	}
	t := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / length
	t = math.Max(0, math.Min(1, t))
	return Distance(p, Vec(a.X()+t*dx, a.Y()+t*dy))
}

// Copy returns an independent 2D copy of v (nil and short vectors become zero-padded)
func Copy(v Vector) Vector {
	out := Zero()
	copy(out, v)
	return out
}

// Finite reports whether both components are finite numbers
func Finite(v Vector) bool {
	if len(v) < 2 {
		return false
	}
	for _, c := range v[:2] {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
