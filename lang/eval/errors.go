package eval

import (
	"github.com/silentmatt/dss-sub000/lang/calc"
	"github.com/silentmatt/dss-sub000/lang/resource"
	"github.com/silentmatt/dss-sub000/lang/scope"
	"github.com/silentmatt/dss-sub000/pkg"
)

// Errors reported during evaluation.
var (
	ErrUndefinedConst           = pkg.NewError("undefined constant")
	ErrUndefinedProperty        = pkg.NewError("undefined property")
	ErrInvalidParameter         = pkg.NewError("invalid parameter reference")
	ErrMissingRequiredParameter = pkg.NewError("missing required parameter")
	ErrUnknownParameter         = pkg.NewError("unknown parameter")
	ErrTooManyArguments         = pkg.NewError("too many arguments")
	ErrPositionalAfterNamed     = pkg.NewError("positional argument after named argument")
	ErrUnknownClass             = pkg.NewError("unknown class")
	ErrInvalidCondition         = pkg.NewError("invalid condition")
	ErrMaxDepth                 = pkg.NewError("class application too deep")
	ErrRecursiveInclude         = pkg.NewError("recursive include")
)

// Errors raised by the packages evaluation is built on, re-exported so
// callers can match every reported failure against this package.
var (
	ErrUndeclaredAssignment = scope.ErrUndeclaredAssignment
	ErrIncompatibleUnits    = calc.ErrIncompatibleUnits
	ErrNotRepresentable     = calc.ErrNotRepresentable
	ErrCalc                 = calc.ErrCalc
	ErrIO                   = resource.ErrIO
)
