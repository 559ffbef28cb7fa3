// Package ast defines the DSS input tree produced by the parser and consumed
// by the evaluator.
//
// The tree is read-only from the evaluator's point of view: terms are
// immutable values, and evaluation builds new expressions and declaration
// lists instead of rewriting the ones stored here.
package ast
