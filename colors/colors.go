// Package colors resolves theme-independent colour specifications against an
// explicit palette. Nothing here reads ambient theme state: a colour is a pure
// function of (spec, palette).
package colors

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette holds the role colours of the active theme
type Palette struct {
	Name       string
	Text       colorful.Color
	Background colorful.Color
	Selected   colorful.Color
	Accents    []colorful.Color
}

// Light returns a light theme palette
func Light() Palette {
	return Palette{
		Name:       "light",
		Text:       mustHex("#1e1e1e"),
		Background: mustHex("#f8f8f8"),
		Selected:   mustHex("#4285F4"),
		Accents: []colorful.Color{
			mustHex("#EA4335"), // red
			mustHex("#34A853"), // green
			mustHex("#4285F4"), // blue
			mustHex("#FBBC05"), // yellow
			mustHex("#673AB7"), // purple
			mustHex("#00BCD4"), // cyan
		},
	}
}

// Dark returns a dark theme palette
func Dark() Palette {
	return Palette{
		Name:       "dark",
		Text:       mustHex("#e0e0e0"),
		Background: mustHex("#212121"),
		Selected:   mustHex("#FF6D00"),
		Accents: []colorful.Color{
			mustHex("#F50057"),
			mustHex("#00E676"),
			mustHex("#2979FF"),
			mustHex("#C6FF00"),
			mustHex("#651FFF"),
			mustHex("#00B0FF"),
		},
	}
}

// PaletteByName returns a palette by its name
func PaletteByName(name string) (Palette, error) {
	switch strings.ToLower(name) {
	case "", "light":
		return Light(), nil
	case "dark":
		return Dark(), nil
	default:
		return Palette{}, fmt.Errorf("unknown palette: %s", name)
	}
}

// Spec is a colour that is only known once a palette is supplied
type Spec interface {
	Resolve(p Palette) colorful.Color
}

// SpecFunc adapts a function to the Spec interface
type SpecFunc func(p Palette) colorful.Color

// Resolve calls f(p)
func (f SpecFunc) Resolve(p Palette) colorful.Color {
	return f(p)
}

// Text is the palette's text colour
func Text() Spec {
	return SpecFunc(func(p Palette) colorful.Color { return p.Text })
}

// Background is the palette's background colour
func Background() Spec {
	return SpecFunc(func(p Palette) colorful.Color { return p.Background })
}

// Selected is the palette's highlight colour
func Selected() Spec {
	return SpecFunc(func(p Palette) colorful.Color { return p.Selected })
}

// Accent returns the i-th accent colour of the palette, wrapping around in
// both directions
func Accent(i int) Spec {
	return SpecFunc(func(p Palette) colorful.Color {
		n := len(p.Accents)
		if n == 0 {
			return p.Selected
		}
		return p.Accents[((i%n)+n)%n]
	})
}

// literal is a palette-independent colour
type literal colorful.Color

func (l literal) Resolve(Palette) colorful.Color {
	return colorful.Color(l)
}

// RGB returns a fixed colour from 8-bit components
func RGB(r, g, b uint8) Spec {
	return literal(colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	})
}

// Hex parses a fixed colour like "#4285F4"
func Hex(s string) (Spec, error) {
	c, err := colorful.Hex(normalizeHex(s))
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return literal(c), nil
}

// Lighter scales the lightness of s up by factor (1.1 is 10% lighter)
func Lighter(s Spec, factor float64) Spec {
	return SpecFunc(func(p Palette) colorful.Color {
		h, sat, l := s.Resolve(p).Hsl()
		return colorful.Hsl(h, sat, math.Min(1, l*factor)).Clamped()
	})
}

// Darker scales the lightness of s down by factor (1.1 is roughly 10% darker)
func Darker(s Spec, factor float64) Spec {
	if factor <= 0 {
		factor = 1
	}
	return SpecFunc(func(p Palette) colorful.Color {
		h, sat, l := s.Resolve(p).Hsl()
		return colorful.Hsl(h, sat, l/factor).Clamped()
	})
}

// Contrast returns a grey that contrasts with s
func Contrast(s Spec) Spec {
	return SpecFunc(func(p Palette) colorful.Color {
		c := s.Resolve(p)
		v := 1 - (c.R+c.G+c.B)/3
		return colorful.Color{R: v, G: v, B: v}
	})
}

// Blend interpolates between two specs in RGB space. The endpoints are returned
// unchanged so a finished animation resolves to exactly its target.
func Blend(a, b Spec, t float64) Spec {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return SpecFunc(func(p Palette) colorful.Color {
		return a.Resolve(p).BlendRgb(b.Resolve(p), t)
	})
}

// HexOf resolves s and formats it as "#rrggbb"
func HexOf(s Spec, p Palette) string {
	if s == nil {
		return p.Text.Clamped().Hex()
	}
	return s.Resolve(p).Clamped().Hex()
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		// expand #abc to #aabbcc
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	return s
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
