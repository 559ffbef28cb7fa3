// Package lang compiles DSS, a CSS superset, to plain CSS.
//
// # Language
//
// A DSS document is a CSS stylesheet that may also use:
//
//	@define [global] name: value;       constants, read with @name or const(name)
//	@class Name(param; other: default) { declarations }
//	extend: Name(args), ruleset(.selector);
//	calc(@gutter * 2 - 1px)             unit-aware arithmetic
//	prop(width)                         a property of the enclosing block
//	@if @a and not @b { } @else { }     conditional rules
//	@include "lib.dss";                 textual inclusion
//
// Rule-sets nest; a nested selector containing '&' replaces it with the
// parent selector, any other nested selector becomes a descendant of it.
//
// # Diagnostics
//
// Compilation fails only when the source cannot be parsed. Every other
// problem is recorded in [Result.Diagnostics] and the offending term or
// declaration is skipped, so one bad rule does not prevent the rest of the
// stylesheet from being written. Callers decide whether errors are fatal
// with [eval.Diagnostics.Err].
//
// # Sessions
//
// A [Session] keeps constants and classes between calls to [Session.Eval],
// which is how the interactive REPL builds a stylesheet a snippet at a time.
package lang
