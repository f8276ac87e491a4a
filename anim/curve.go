package anim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

// Curve is an easing function in the gween form f(t, begin, change, duration)
type Curve = ease.TweenFunc

var curves = map[string]Curve{
	"linear":      ease.Linear,
	"inquad":      ease.InQuad,
	"outquad":     ease.OutQuad,
	"inoutquad":   ease.InOutQuad,
	"incubic":     ease.InCubic,
	"outcubic":    ease.OutCubic,
	"inoutcubic":  ease.InOutCubic,
	"insine":      ease.InSine,
	"outsine":     ease.OutSine,
	"inoutsine":   ease.InOutSine,
	"inexpo":      ease.InExpo,
	"outexpo":     ease.OutExpo,
	"inoutexpo":   ease.InOutExpo,
	"incirc":      ease.InCirc,
	"outcirc":     ease.OutCirc,
	"inoutcirc":   ease.InOutCirc,
	"outbounce":   ease.OutBounce,
	"inoutbounce": ease.InOutBounce,
	"inquart":     ease.InQuart,
	"outquart":    ease.OutQuart,
	"inoutquart":  ease.InOutQuart,
}

// CurveByName looks up an easing curve, ignoring case, dashes and underscores
func CurveByName(name string) (Curve, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	if key == "" {
		return ease.Linear, nil
	}
	c, ok := curves[key]
	if !ok {
		return nil, fmt.Errorf("unknown easing curve: %s", name)
	}
	return c, nil
}

// CurveNames lists the curves known to CurveByName
func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates c at normalised progress p in [0,1]
func Eval(c Curve, p float64) float64 {
	if c == nil {
		c = ease.Linear
	}
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	return float64(c(float32(p), 0, 1, 1))
}
