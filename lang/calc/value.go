package calc

import (
	"log/slog"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/pkg"
)

// Errors returned by unit arithmetic.
var (
	ErrIncompatibleUnits = pkg.NewError("incompatible units")
	ErrNotRepresentable  = pkg.NewError("not a representable CSS unit")
	ErrUnknownUnit       = pkg.NewError("unknown unit")
	ErrCalc              = pkg.NewError("calculation error")
)

// Value is a scalar expressed in the canonical unit of its dimension vector.
type Value struct {
	Unit   Unit
	Scalar float64
}

// NewValue returns n in unit u, rescaled to u's canonical unit.
func NewValue(n float64, u Unit) Value {
	return Value{Scalar: n * u.scale, Unit: u.Canonical()}
}

// Parse returns the value of n in the unit named by token.
func Parse(n float64, token string) (Value, error) {
	u, ok := Lookup(token)
	if !ok {
		return Value{}, ErrUnknownUnit.With(slog.String("unit", token))
	}

	return NewValue(n, u), nil
}

// Add returns v+w. The units must be compatible.
func (v Value) Add(w Value) (Value, error) {
	if !v.Unit.Compatible(w.Unit) {
		return Value{}, incompatible(v, w)
	}

	return Value{Scalar: v.Scalar + w.Scalar, Unit: v.Unit}, nil
}

// Sub returns v-w. The units must be compatible.
func (v Value) Sub(w Value) (Value, error) {
	if !v.Unit.Compatible(w.Unit) {
		return Value{}, incompatible(v, w)
	}

	return Value{Scalar: v.Scalar - w.Scalar, Unit: v.Unit}, nil
}

// Mul returns v*w.
func (v Value) Mul(w Value) Value {
	return Value{Scalar: v.Scalar * w.Scalar, Unit: v.Unit.Mul(w.Unit).Canonical()}
}

// Div returns v/w. Division by zero fails with [ErrCalc].
func (v Value) Div(w Value) (Value, error) {
	if w.Scalar == 0 {
		return Value{}, ErrCalc.With(slog.String("reason", "division by zero"))
	}

	return Value{Scalar: v.Scalar / w.Scalar, Unit: v.Unit.Div(w.Unit).Canonical()}, nil
}

// Neg returns -v.
func (v Value) Neg() Value { return Value{Scalar: -v.Scalar, Unit: v.Unit} }

// CSS returns the number and unit token v is written with. It fails with
// [ErrNotRepresentable] when the unit is not a single registered CSS unit.
func (v Value) CSS() (float64, string, error) {
	token, ok := v.Unit.css()
	if !ok {
		return 0, "", ErrNotRepresentable.With(slog.String("unit", v.Unit.String()))
	}

	return v.Scalar, token, nil
}

// Term returns v as a number term.
func (v Value) Term() (ast.Number, error) {
	n, unit, err := v.CSS()
	if err != nil {
		return ast.Number{}, err
	}

	return ast.Number{Value: n, Unit: unit}, nil
}

// String returns the CSS text of v, or the compound form when v is not
// representable.
func (v Value) String() string {
	return ast.FormatNumber(v.Scalar) + v.Unit.String()
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value { return slog.StringValue(v.String()) }

func incompatible(v, w Value) error {
	return ErrIncompatibleUnits.With(
		slog.String("left", v.Unit.String()),
		slog.String("right", w.Unit.String()),
	)
}
