package color_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/color"
)

func args(terms ...ast.Term) ast.Expression {
	out := make(ast.Expression, len(terms))
	for i, t := range terms {
		if i > 0 {
			t = t.WithSep(ast.SepComma)
		}

		out[i] = t
	}

	return out
}

func hexTerm(v string) ast.Term { return ast.Hex{Value: v} }

func pct(v float64) ast.Term { return ast.Number{Value: v, Unit: "%"} }

func num(v float64) ast.Term { return ast.Number{Value: v} }

func TestBuiltins(t *testing.T) {
	fns := color.Builtins()

	tests := []struct {
		fn   string
		args ast.Expression
		want string
	}{
		{"rgb", args(num(255), num(0), num(0)), "#ff0000"},
		{"rgba", args(num(255), num(0), num(0), num(0.5)), "rgba(255, 0, 0, 0.5)"},
		{"rgba", args(hexTerm("f00"), pct(50)), "rgba(255, 0, 0, 0.5)"},
		{"rgba", args(num(0), num(0), num(0), num(1)), "#000000"},
		{"hsl", args(num(120), pct(100), pct(50)), "#00ff00"},
		{"lighten", args(hexTerm("000000"), pct(50)), "#808080"},
		{"darken", args(hexTerm("ffffff"), pct(100)), "#000000"},
		{"lighten", args(ast.Keyword{Name: "red"}, num(20)), "#ff6666"},
		{"desaturate", args(ast.Call{Name: "hsl", Args: args(num(120), pct(100), pct(50))}, pct(100)), "#808080"},
		{"saturate", args(hexTerm("808080"), pct(0)), "#808080"},
		{"spin", args(hexTerm("ff0000"), num(120)), "#00ff00"},
		{"spin", args(hexTerm("ff0000"), ast.Number{Value: -120, Unit: "deg"}), "#0000ff"},
		{"complement", args(hexTerm("ff0000")), "#00ffff"},
		{"grayscale", args(hexTerm("ff0000")), "#808080"},
		{"mix", args(hexTerm("000000"), hexTerm("ffffff")), "#808080"},
		{"mix", args(hexTerm("ff0000"), hexTerm("0000ff"), pct(100)), "#ff0000"},
		{"fade", args(hexTerm("ff0000"), pct(50)), "rgba(255, 0, 0, 0.5)"},
		{"fadeout", args(hexTerm("ff0000"), num(25)), "rgba(255, 0, 0, 0.75)"},
		{"fadeout", args(hexTerm("000000"), num(1)), "rgba(0, 0, 0, 0.99)"},
		{"lighten", args(hexTerm("000000"), num(1)), "#030303"},
		{"lighten", args(hexTerm("000000"), pct(1)), "#030303"},
		{"lighten", args(hexTerm("000000"), num(0.5)), "#010101"},
		{"lighten", args(hexTerm("000000"), num(2)), "#050505"},
		{"mix", args(hexTerm("ff0000"), hexTerm("0000ff"), num(100)), "#ff0000"},
		{"fadein", args(ast.Call{Name: "rgba", Args: args(num(0), num(0), num(0), num(0.5))}, pct(50)), "#000000"},
		{"hex", args(ast.Keyword{Name: "white"}), "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.fn+"("+tt.args.String()+")", func(t *testing.T) {
			fn, ok := fns[tt.fn]
			require.True(t, ok)

			out, ok := fn(tt.args)
			require.True(t, ok)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestDecline(t *testing.T) {
	fns := color.Builtins()

	tests := []struct {
		fn   string
		args ast.Expression
	}{
		{"lighten", args(ast.Keyword{Name: "auto"}, pct(10))},
		{"lighten", args(hexTerm("fff"))},
		{"lighten", args(hexTerm("fff"), ast.Number{Value: 1, Unit: "px"})},
		{"rgb", args(num(1), num(2))},
		{"rgb", args(num(1), ast.Keyword{Name: "x"}, num(3))},
		{"spin", args(hexTerm("fff"), ast.Number{Value: 1, Unit: "px"})},
		{"mix", args(hexTerm("fff"))},
		{"hex", args(ast.String{Value: "red"})},
		{"grayscale", nil},
	}

	for _, tt := range tests {
		t.Run(tt.fn+"("+tt.args.String()+")", func(t *testing.T) {
			_, ok := fns[tt.fn](tt.args)
			assert.False(t, ok)
		})
	}
}

func TestParse(t *testing.T) {
	c, ok := color.Parse(ast.Keyword{Name: "blue"})
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.B, 1e-9)

	_, ok = color.Parse(ast.Call{Name: "url", Args: args(num(1))})
	assert.False(t, ok)

	_, ok = color.Parse(ast.Number{Value: 1})
	assert.False(t, ok)
}
