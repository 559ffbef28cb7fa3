package color

import (
	"math"

	"github.com/mazznoer/csscolorparser"
)

// hsla is a color in hue (degrees), saturation, lightness and alpha, all
// but hue in [0, 1].
type hsla struct{ h, s, l, a float64 }

func toHSLA(c csscolorparser.Color) hsla {
	hi := math.Max(c.R, math.Max(c.G, c.B))
	lo := math.Min(c.R, math.Min(c.G, c.B))
	out := hsla{l: (hi + lo) / 2, a: c.A}

	d := hi - lo
	if d == 0 {
		return out
	}

	if out.l > 0.5 {
		out.s = d / (2 - hi - lo)
	} else {
		out.s = d / (hi + lo)
	}

	switch hi {
	case c.R:
		out.h = (c.G - c.B) / d
		if c.G < c.B {
			out.h += 6
		}
	case c.G:
		out.h = (c.B-c.R)/d + 2
	default:
		out.h = (c.R-c.G)/d + 4
	}

	out.h *= 60

	return out
}

func (h hsla) color() csscolorparser.Color {
	hue := math.Mod(h.h, 360)
	if hue < 0 {
		hue += 360
	}

	s, l := clamp(h.s, 0, 1), clamp(h.l, 0, 1)
	c := csscolorparser.Color{R: l, G: l, B: l, A: clamp(h.a, 0, 1)}

	if s == 0 {
		return c
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}

	p := 2*l - q
	k := hue / 360

	c.R = hueToRGB(p, q, k+1.0/3)
	c.G = hueToRGB(p, q, k)
	c.B = hueToRGB(p, q, k-1.0/3)

	return c
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}

	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}

	return p
}
