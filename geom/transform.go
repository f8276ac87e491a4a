package geom

import "math"

// DefaultScale is the initial zoom of a new Transform
const DefaultScale = 20.0

// Transform maps canvas (screen) coordinates to world coordinates and back.
// A world point w is drawn at w*Scale + Translation.
type Transform struct {
	Scale       float64 `json:"scale"`
	Translation Vector  `json:"translation"`
}

// NewTransform creates a transform with the default scale and no translation
func NewTransform() *Transform {
	return &Transform{
		Scale:       DefaultScale,
		Translation: Zero(),
	}
}

// Apply converts a canvas point to world space
func (t *Transform) Apply(point Vector) Vector {
	return point.Sub(t.Translation).Scale(1 / t.Scale)
}

// Inverse converts a world point to canvas space
func (t *Transform) Inverse(point Vector) Vector {
	return point.Scale(t.Scale).Add(t.Translation)
}

// Translate moves the view by a world-space delta
func (t *Transform) Translate(delta Vector) {
	t.Translation = t.Translation.Add(delta.Scale(t.Scale))
}

// Zoom scales the view by 2^delta, keeping the world point under position fixed
func (t *Transform) Zoom(position Vector, delta float64) {
	previous := t.Scale
	t.Scale *= math.Pow(2, delta)

	t.Translation = t.Translation.Sub(position.Scale(t.Scale - previous))
}

// Center moves the view so that point drifts towards the middle of a viewport of
// the given canvas size. A smoothness of 1 centers immediately; smaller values
// move a fraction of the way each call.
func (t *Transform) Center(point Vector, viewport Vector, smoothness float64) {
	smoothness = math.Max(0, math.Min(1, smoothness))

	middle := t.Apply(viewport.Scale(0.5))
	offset := middle.Sub(point).Scale(smoothness)

	t.Translate(offset)
}
