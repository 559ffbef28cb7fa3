package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentmatt/dss-sub000/lang/ast"
)

func px(v float64) ast.Number { return ast.Number{Value: v, Unit: "px"} }

func TestExpressionString(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"empty", nil, ""},
		{"spaces", ast.Expression{px(1), px(2)}, "1px 2px"},
		{
			"comma",
			ast.Expression{
				ast.Keyword{Name: "Arial"},
				ast.Keyword{Name: "sans-serif", Separator: ast.SepComma},
			},
			"Arial, sans-serif",
		},
		{
			"slash",
			ast.Expression{
				ast.Number{Value: 12, Unit: "px"},
				ast.Number{Value: 1.5, Separator: ast.SepSlash},
				ast.Keyword{Name: "serif"},
			},
			"12px/1.5 serif",
		},
		{
			"call",
			ast.Expression{ast.Call{Name: "rgba", Args: ast.Expression{
				ast.Number{Value: 0},
				ast.Number{Value: 0, Separator: ast.SepComma},
				ast.Number{Value: 0, Separator: ast.SepComma},
				ast.Number{Value: 0.5, Separator: ast.SepComma},
			}}},
			"rgba(0, 0, 0, 0.5)",
		},
		{"raw number", ast.Expression{ast.Number{Value: 0.5, Raw: ".5em"}}, ".5em"},
		{"string", ast.Expression{ast.String{Value: "a b", Quote: '\''}}, "'a b'"},
		{"reference", ast.Expression{ast.Reference{Kind: ast.RefParam, Name: "w"}}, "param(w)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestCalcString(t *testing.T) {
	one := ast.CalcTerm{Term: px(1)}
	two := ast.CalcTerm{Term: px(2)}
	sum := ast.CalcBinary{Op: '+', Left: one, Right: two}

	assert.Equal(t, "1px + 2px", sum.String())
	assert.Equal(t, "(1px + 2px) * 2px",
		ast.CalcBinary{Op: '*', Left: sum, Right: two}.String())
	assert.Equal(t, "1px - (1px + 2px)",
		ast.CalcBinary{Op: '-', Left: one, Right: sum}.String())
	assert.Equal(t, "-(1px + 2px)", ast.CalcNegate{Operand: sum}.String())
	assert.Equal(t, "calc(1px + 2px)", ast.Calculation{Expr: sum}.String())
}

func TestSplitJoin(t *testing.T) {
	e := ast.Expression{
		px(1), px(2),
		ast.Keyword{Name: "a", Separator: ast.SepComma},
		ast.Keyword{Name: "b", Separator: ast.SepComma},
	}

	parts := e.Split()
	assert.Len(t, parts, 3)
	assert.Equal(t, "1px 2px", parts[0].String())
	assert.Equal(t, ast.SepNone, parts[1][0].Sep())
	assert.Equal(t, e.String(), ast.Join(parts...).String())
}

func TestSplice(t *testing.T) {
	out := ast.Splice(ast.Expression{px(1), px(2)}, ast.SepComma)
	assert.Equal(t, ast.SepComma, out[0].Sep())
	assert.Equal(t, ast.SepNone, out[1].Sep())
	assert.Nil(t, ast.Splice(nil, ast.SepComma))
}

func TestDeclarationsGet(t *testing.T) {
	ds := ast.Declarations{
		{Name: "color", Value: ast.Expression{ast.Keyword{Name: "red"}}},
		{Name: "color", Value: ast.Expression{ast.Keyword{Name: "blue"}}, Important: true},
		{Name: "color", Value: ast.Expression{ast.Keyword{Name: "green"}}},
		{Name: "width", Value: ast.Expression{px(1)}},
		{Name: "width", Value: ast.Expression{px(2)}},
	}

	d, ok := ds.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", d.Value.String())

	d, ok = ds.Get("width")
	assert.True(t, ok)
	assert.Equal(t, "2px", d.Value.String())

	_, ok = ds.Get("height")
	assert.False(t, ok)
	assert.True(t, ds.Has("width"))

	c := ds.Clone()
	c[0].Name = "background"
	assert.Equal(t, "color", ds[0].Name)
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		10:         "10",
		0.5:        "0.5",
		1.0 / 3.0:  "0.333333",
		-0.0000001: "0",
		144:        "144",
		-2.25:      "-2.25",
	}

	for in, want := range tests {
		assert.Equal(t, want, ast.FormatNumber(in))
	}
}

func TestPosition(t *testing.T) {
	assert.Equal(t, "", ast.Position{}.String())
	assert.Equal(t, "3:4", ast.Position{Line: 3, Column: 4}.String())
	assert.Equal(t, "a.dss:3:4",
		ast.Position{URL: "a.dss", Line: 3, Column: 4}.String())
}

func TestFprint(t *testing.T) {
	doc := &ast.Document{
		URL: "a.dss",
		Rules: []ast.Rule{
			&ast.DefineDirective{
				Declarations: ast.Declarations{{Name: "w", Value: ast.Expression{px(2)}}},
				Global:       true,
				Pos:          ast.Position{Line: 1, Column: 1},
			},
			&ast.RuleSet{
				Selectors: []string{"p", "div"},
				Body: []ast.Statement{
					ast.Declaration{Name: "color", Value: ast.Expression{ast.Keyword{Name: "red"}}},
					&ast.RuleSet{Selectors: []string{"a"}},
				},
				Pos: ast.Position{Line: 2, Column: 1},
			},
		},
	}

	var sb strings.Builder
	require.NoError(t, ast.Fprint(&sb, doc))

	assert.Equal(t, `Document "a.dss"
  Define global [1:1]
    Declaration w: 2px []
  RuleSet "p, div" [2:1]
    Declaration color: red []
    RuleSet "a" []
`, sb.String())
}
