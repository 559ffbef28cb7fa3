package calc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/calc"
)

func value(t *testing.T, n float64, unit string) calc.Value {
	t.Helper()

	v, err := calc.Parse(n, unit)
	require.NoError(t, err)

	return v
}

func css(t *testing.T, v calc.Value) string {
	t.Helper()

	n, err := v.Term()
	require.NoError(t, err)

	return n.String()
}

func TestAdd(t *testing.T) {
	sum, err := value(t, 1, "px").Add(value(t, 1, "px"))
	require.NoError(t, err)
	assert.Equal(t, "2px", css(t, sum))

	_, err = value(t, 1, "px").Add(value(t, 1, "%"))
	require.ErrorIs(t, err, calc.ErrIncompatibleUnits)

	_, err = value(t, 1, "px").Sub(value(t, 1, "pt"))
	require.ErrorIs(t, err, calc.ErrIncompatibleUnits)
}

func TestCanonicalLength(t *testing.T) {
	sum, err := value(t, 1, "in").Add(value(t, 72, "pt"))
	require.NoError(t, err)
	assert.Equal(t, "144pt", css(t, sum))

	two, err := value(t, 2, "in").Sub(sum)
	require.NoError(t, err)
	assert.Equal(t, "0pt", css(t, two))

	cm, err := value(t, 2.54, "cm").Sub(value(t, 1, "in"))
	require.NoError(t, err)
	assert.InDelta(t, 0, cm.Scalar, 1e-9)
}

func TestConversions(t *testing.T) {
	tests := []struct {
		n    float64
		unit string
		want string
	}{
		{1, "turn", "360deg"},
		{500, "ms", "0.5s"},
		{2, "khz", "2000hz"},
		{96, "dpi", "1dppx"},
		{1, "pc", "12pt"},
		{10, "EM", "10em"},
		{50, "%", "50%"},
		{3, "", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, css(t, value(t, tt.n, tt.unit)))
		})
	}
}

func TestUnknownUnit(t *testing.T) {
	_, err := calc.Parse(1, "furlong")
	require.ErrorIs(t, err, calc.ErrUnknownUnit)
}

func TestMulDiv(t *testing.T) {
	sq := value(t, 1, "px").Mul(value(t, 1, "px"))
	_, err := sq.Term()
	require.ErrorIs(t, err, calc.ErrNotRepresentable)
	assert.Equal(t, "1px^2", sq.String())

	back, err := sq.Div(value(t, 2, "px"))
	require.NoError(t, err)
	assert.Equal(t, "0.5px", css(t, back))

	ratio, err := value(t, 10, "px").Div(value(t, 4, "px"))
	require.NoError(t, err)
	assert.True(t, ratio.Unit.IsScalar())
	assert.Equal(t, "2.5", css(t, ratio))

	speed, err := value(t, 10, "px").Div(value(t, 2, "s"))
	require.NoError(t, err)
	assert.Equal(t, "5px/s", speed.String())

	_, err = value(t, 1, "px").Div(value(t, 0, ""))
	require.ErrorIs(t, err, calc.ErrCalc)

	assert.Equal(t, "-3px", css(t, value(t, 3, "px").Neg()))
}

func num(v float64, unit string) ast.CalcExpr {
	return ast.CalcTerm{Term: ast.Number{Value: v, Unit: unit}}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr ast.CalcExpr
		want string
		err  error
	}{
		{
			name: "scale",
			expr: ast.CalcBinary{Op: '*', Left: num(1, "px"), Right: num(10, "")},
			want: "10px",
		},
		{
			name: "nested",
			expr: ast.CalcBinary{
				Op:    '-',
				Left:  num(100, "%"),
				Right: ast.CalcBinary{Op: '/', Left: num(20, "%"), Right: num(2, "")},
			},
			want: "90%",
		},
		{
			name: "negate",
			expr: ast.CalcNegate{Operand: num(2, "em")},
			want: "-2em",
		},
		{
			name: "incompatible",
			expr: ast.CalcBinary{Op: '+', Left: num(1, "px"), Right: num(1, "%")},
			err:  calc.ErrIncompatibleUnits,
		},
		{
			name: "not a number",
			expr: ast.CalcTerm{Term: ast.Keyword{Name: "auto"}},
			err:  calc.ErrCalc,
		},
		{
			name: "empty",
			err:  calc.ErrCalc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := calc.Eval(tt.expr)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, css(t, v))
		})
	}
}

func TestUnitString(t *testing.T) {
	u, ok := calc.Lookup("cm")
	require.True(t, ok)
	assert.Equal(t, "cm", u.String())
	assert.Equal(t, "pt", u.Canonical().String())
	assert.InDelta(t, 72/2.54, u.Scale(), 1e-9)
	assert.True(t, calc.Scalar.IsScalar())
	assert.Equal(t, "1/s", calc.Scalar.Div(mustUnit(t, "s")).String())
}

func mustUnit(t *testing.T, token string) calc.Unit {
	t.Helper()

	u, ok := calc.Lookup(token)
	require.True(t, ok)

	return u
}
