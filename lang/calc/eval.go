package calc

import (
	"log/slog"

	"github.com/silentmatt/dss-sub000/lang/ast"
)

// Eval evaluates a calc expression whose leaves are number terms.
func Eval(e ast.CalcExpr) (Value, error) {
	switch e := e.(type) {
	case ast.CalcTerm:
		n, ok := e.Term.(ast.Number)
		if !ok {
			return Value{}, ErrCalc.With(
				slog.String("reason", "operand is not a number"),
				slog.String("operand", e.Term.String()),
			)
		}

		return Parse(n.Value, n.Unit)

	case ast.CalcNegate:
		v, err := Eval(e.Operand)
		if err != nil {
			return Value{}, err
		}

		return v.Neg(), nil

	case ast.CalcBinary:
		l, err := Eval(e.Left)
		if err != nil {
			return Value{}, err
		}

		r, err := Eval(e.Right)
		if err != nil {
			return Value{}, err
		}

		switch e.Op {
		case '+':
			return l.Add(r)
		case '-':
			return l.Sub(r)
		case '*':
			return l.Mul(r), nil
		case '/':
			return l.Div(r)
		}

		return Value{}, ErrCalc.With(slog.String("operator", string(e.Op)))

	case nil:
		return Value{}, ErrCalc.With(slog.String("reason", "empty expression"))
	}

	return Value{}, ErrCalc.With(slog.String("reason", "unsupported expression"))
}
