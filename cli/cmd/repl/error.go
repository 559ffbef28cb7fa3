package repl

import "github.com/silentmatt/dss-sub000/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrHistory      = pkg.NewError("history file")
)
