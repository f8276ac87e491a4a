package colors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolesFollowPalette(t *testing.T) {
	light, dark := Light(), Dark()

	assert.Equal(t, light.Text, Text().Resolve(light))
	assert.Equal(t, dark.Text, Text().Resolve(dark))
	assert.NotEqual(t, Background().Resolve(light), Background().Resolve(dark))
}

func TestHexParsing(t *testing.T) {
	s, err := Hex("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", HexOf(s, Light()))

	short, err := Hex("0f0")
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", HexOf(short, Dark()))

	_, err = Hex("not-a-colour")
	assert.Error(t, err)
}

func TestBlendEndpoints(t *testing.T) {
	a, b := RGB(0, 0, 0), RGB(255, 255, 255)
	p := Light()

	assert.Equal(t, a.Resolve(p), Blend(a, b, 0).Resolve(p))
	assert.Equal(t, b.Resolve(p), Blend(a, b, 1).Resolve(p))

	mid := Blend(a, b, 0.5).Resolve(p)
	assert.InDelta(t, 0.5, mid.R, 1e-9)
	assert.InDelta(t, 0.5, mid.G, 1e-9)
}

func TestLighterDarker(t *testing.T) {
	p := Light()
	base := RGB(100, 100, 100)

	_, _, l := base.Resolve(p).Hsl()
	_, _, lighter := Lighter(base, 1.2).Resolve(p).Hsl()
	_, _, darker := Darker(base, 1.2).Resolve(p).Hsl()

	assert.Greater(t, lighter, l)
	assert.Less(t, darker, l)
}

func TestContrastAndAccent(t *testing.T) {
	p := Light()
	white := Contrast(RGB(0, 0, 0)).Resolve(p)
	assert.InDelta(t, 1.0, white.R, 1e-9)

	assert.Equal(t, p.Accents[1], Accent(1).Resolve(p))
	assert.Equal(t, p.Accents[0], Accent(len(p.Accents)).Resolve(p))
	assert.Equal(t, p.Accents[len(p.Accents)-1], Accent(-1).Resolve(p))
}

func TestAccentWrapsExtremeIndices(t *testing.T) {
	p := Light()
	n := len(p.Accents)

	for _, i := range []int{math.MinInt, math.MinInt + 1, math.MaxInt, -n, -n - 1} {
		spec := Accent(i)
		want := p.Accents[((i%n)+n)%n]
		assert.NotPanics(t, func() { HexOf(spec, p) }, "accent %d", i)
		assert.Equal(t, want, spec.Resolve(p), "accent %d", i)
		// resolving again sees the same index
		assert.Equal(t, want, spec.Resolve(p), "accent %d", i)
	}

	assert.Equal(t, p.Selected, Accent(math.MinInt).Resolve(Palette{Selected: p.Selected}))
}

func TestPaletteByName(t *testing.T) {
	p, err := PaletteByName("dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", p.Name)

	_, err = PaletteByName("neon")
	assert.Error(t, err)
}
