// Package color implements the built-in color functions available in DSS
// expressions.
package color

import (
	"fmt"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/silentmatt/dss-sub000/lang/ast"
)

// Builtins returns a fresh table of the built-in color functions keyed by
// lower-case name.
func Builtins() map[string]ast.Function {
	return map[string]ast.Function{
		"rgb":        rgb,
		"rgba":       rgb,
		"hsl":        hsl,
		"hsla":       hsl,
		"lighten":    adjust(func(h *hsla, n float64) { h.l += n }),
		"darken":     adjust(func(h *hsla, n float64) { h.l -= n }),
		"saturate":   adjust(func(h *hsla, n float64) { h.s += n }),
		"desaturate": adjust(func(h *hsla, n float64) { h.s -= n }),
		"fadein":     adjust(func(h *hsla, n float64) { h.a += n }),
		"fadeout":    adjust(func(h *hsla, n float64) { h.a -= n }),
		"fade":       adjust(func(h *hsla, n float64) { h.a = n }),
		"spin":       spin,
		"mix":        mix,
		"grayscale":  unary(func(h *hsla) { h.s = 0 }),
		"complement": unary(func(h *hsla) { h.h += 180 }),
		"hex":        hex,
	}
}

// Parse returns the color denoted by a single term: a hex literal, a named
// color or an rgb/hsl function call.
func Parse(t ast.Term) (csscolorparser.Color, bool) {
	switch t := t.(type) {
	case ast.Hex, ast.Keyword:
	case ast.Call:
		switch strings.ToLower(t.Name) {
		case "rgb", "rgba", "hsl", "hsla", "hwb":
		default:
			return csscolorparser.Color{}, false
		}
	default:
		return csscolorparser.Color{}, false
	}

	c, err := csscolorparser.Parse(t.String())
	if err != nil {
		return csscolorparser.Color{}, false
	}

	return c, true
}

// Term returns the CSS term for c: a hex literal when opaque, otherwise an
// rgba(...) call.
func Term(c csscolorparser.Color) ast.Term {
	r, g, b := channel(c.R), channel(c.G), channel(c.B)

	if c.A >= 1 {
		return ast.Hex{Value: fmt.Sprintf("%02x%02x%02x", r, g, b)}
	}

	return ast.Call{Name: "rgba", Args: ast.Expression{
		ast.Number{Value: float64(r)},
		ast.Number{Value: float64(g), Separator: ast.SepComma},
		ast.Number{Value: float64(b), Separator: ast.SepComma},
		ast.Number{Value: clamp(c.A, 0, 1), Separator: ast.SepComma},
	}}
}

func result(c csscolorparser.Color) (ast.Expression, bool) {
	return ast.Expression{Term(c)}, true
}

// rgb handles rgb(r, g, b), rgba(r, g, b, a) and rgba(color, a).
func rgb(args ast.Expression) (ast.Expression, bool) {
	parts := args.Split()

	if len(parts) == 2 && len(parts[0]) == 1 {
		c, ok := Parse(parts[0][0])
		if !ok {
			return nil, false
		}

		a, ok := alpha(parts[1])
		if !ok {
			return nil, false
		}

		c.A = clamp(a, 0, 1)

		return result(c)
	}

	return reparse("rgba", parts, 3)
}

// hsl handles hsl(h, s, l) and hsla(h, s, l, a).
func hsl(args ast.Expression) (ast.Expression, bool) {
	return reparse("hsla", args.Split(), 3)
}

func reparse(name string, parts []ast.Expression, minArgs int) (ast.Expression, bool) {
	if len(parts) < minArgs || len(parts) > minArgs+1 {
		return nil, false
	}

	for _, p := range parts {
		if len(p) != 1 {
			return nil, false
		}

		if _, ok := p[0].(ast.Number); !ok {
			return nil, false
		}
	}

	if len(parts) == minArgs {
		name = strings.TrimSuffix(name, "a")
	}

	c, err := csscolorparser.Parse(name + "(" + ast.Join(parts...).String() + ")")
	if err != nil {
		return nil, false
	}

	return result(c)
}

// adjust returns a function of (color, amount) that edits the HSL form of
// the color. Amounts are read as percentages.
func adjust(edit func(h *hsla, n float64)) ast.Function {
	return func(args ast.Expression) (ast.Expression, bool) {
		parts := args.Split()
		if len(parts) != 2 || len(parts[0]) != 1 {
			return nil, false
		}

		c, ok := Parse(parts[0][0])
		if !ok {
			return nil, false
		}

		n, ok := percent(parts[1])
		if !ok {
			return nil, false
		}

		h := toHSLA(c)
		edit(&h, n)

		return result(h.color())
	}
}

func unary(edit func(h *hsla)) ast.Function {
	return func(args ast.Expression) (ast.Expression, bool) {
		if len(args) != 1 {
			return nil, false
		}

		c, ok := Parse(args[0])
		if !ok {
			return nil, false
		}

		h := toHSLA(c)
		edit(&h)

		return result(h.color())
	}
}

// spin rotates the hue by an angle in degrees.
func spin(args ast.Expression) (ast.Expression, bool) {
	parts := args.Split()
	if len(parts) != 2 || len(parts[0]) != 1 || len(parts[1]) != 1 {
		return nil, false
	}

	c, ok := Parse(parts[0][0])
	if !ok {
		return nil, false
	}

	n, ok := parts[1][0].(ast.Number)
	if !ok || (n.Unit != "" && !strings.EqualFold(n.Unit, "deg")) {
		return nil, false
	}

	h := toHSLA(c)
	h.h += n.Value

	return result(h.color())
}

// mix blends two colors. The optional weight is the share of the first.
func mix(args ast.Expression) (ast.Expression, bool) {
	parts := args.Split()
	if len(parts) < 2 || len(parts) > 3 || len(parts[0]) != 1 || len(parts[1]) != 1 {
		return nil, false
	}

	c1, ok := Parse(parts[0][0])
	if !ok {
		return nil, false
	}

	c2, ok := Parse(parts[1][0])
	if !ok {
		return nil, false
	}

	w := 0.5
	if len(parts) == 3 {
		if w, ok = percent(parts[2]); !ok {
			return nil, false
		}

		w = clamp(w, 0, 1)
	}

	blend := func(a, b float64) float64 { return a*w + b*(1-w) }

	return result(csscolorparser.Color{
		R: blend(c1.R, c2.R),
		G: blend(c1.G, c2.G),
		B: blend(c1.B, c2.B),
		A: blend(c1.A, c2.A),
	})
}

// hex converts any color to its hex form, keeping alpha as #rrggbbaa.
func hex(args ast.Expression) (ast.Expression, bool) {
	if len(args) != 1 {
		return nil, false
	}

	c, ok := Parse(args[0])
	if !ok {
		return nil, false
	}

	return ast.Expression{ast.Hex{Value: strings.TrimPrefix(c.HexString(), "#")}}, true
}

// percent reads an amount: 10% and a plain 10 both mean 0.1.
func percent(e ast.Expression) (float64, bool) {
	n, ok := number(e)
	if !ok || (n.Unit != "" && n.Unit != "%") {
		return 0, false
	}

	return n.Value / 100, true
}

// alpha reads an opacity: a plain number is already a fraction of one.
func alpha(e ast.Expression) (float64, bool) {
	n, ok := number(e)
	if !ok {
		return 0, false
	}

	switch n.Unit {
	case "%":
		return n.Value / 100, true
	case "":
		return n.Value, true
	}

	return 0, false
}

func number(e ast.Expression) (ast.Number, bool) {
	if len(e) != 1 {
		return ast.Number{}, false
	}

	n, ok := e[0].(ast.Number)

	return n, ok
}

func channel(f float64) uint8 { return uint8(math.Round(clamp(f, 0, 1) * 255)) }

func clamp(f, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, f)) }
