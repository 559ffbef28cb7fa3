// Package eval turns a parsed DSS document into a plain CSS output tree.
//
// Evaluation is synchronous and proceeds in document order. Constants,
// classes and call-time parameters live in separate scope chains; rule-sets
// are expanded in two passes, first resolving inheritance and references and
// then evaluating calc() expressions against the finished declaration list.
// Failures never stop evaluation: they are reported to a [Sink] and the
// offending term or declaration is skipped.
package eval
