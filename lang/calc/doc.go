// Package calc implements the unit-aware arithmetic behind calc(...).
//
// A [Value] is a scalar expressed in the canonical unit of its dimension
// vector. Same-dimension units (in, cm, pt, ...) are rescaled when a Value is
// constructed, so addition never needs per-pair conversion tables.
// Multiplication and division combine dimension vectors freely, but only
// vectors registered as CSS units can be written back as literals.
package calc
