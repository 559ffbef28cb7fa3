package eval

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/pkg"
)

// Severity classifies a [Diagnostic].
type Severity uint8

// Severities.
const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// Sink receives the failures found during evaluation. Evaluation continues
// after every report.
type Sink interface {
	ReportError(err error, pos ast.Position)
	ReportWarning(err error, pos ast.Position)
}

// Diagnostic is a reported failure with its source position.
type Diagnostic struct {
	Err      error
	Pos      ast.Position
	Severity Severity
}

// Error formats d as "url:line:col: severity: message (attrs)".
func (d Diagnostic) Error() string {
	var sb strings.Builder

	if p := d.Pos.String(); p != "" {
		sb.WriteString(p)
		sb.WriteString(": ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(d.Err.Error())

	var e *pkg.Error
	if errors.As(d.Err, &e) {
		if attrs := e.Attrs(); len(attrs) > 0 {
			part := make([]string, 0, len(attrs))
			for _, a := range attrs {
				part = append(part, fmt.Sprintf("%s=%s", a.Key, a.Value))
			}

			sb.WriteString(" (")
			sb.WriteString(strings.Join(part, ", "))
			sb.WriteString(")")
		}
	}

	return sb.String()
}

// Unwrap returns the reported error.
func (d Diagnostic) Unwrap() error { return d.Err }

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("severity", d.Severity.String()),
		slog.Any("pos", d.Pos),
		slog.Any("error", d.Err),
	)
}

// Diagnostics is an ordered list of reports.
type Diagnostics []Diagnostic

// Error joins the formatted diagnostics with newlines.
func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Error()
	}

	return strings.Join(lines, "\n")
}

// Unwrap exposes every diagnostic to errors.Is and errors.As.
func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}

	return errs
}

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Errors returns the diagnostics with error severity.
func (ds Diagnostics) Errors() Diagnostics { return ds.filter(SeverityError) }

// Warnings returns the diagnostics with warning severity.
func (ds Diagnostics) Warnings() Diagnostics { return ds.filter(SeverityWarning) }

// Err returns the error diagnostics as an error, or nil when there are only
// warnings.
func (ds Diagnostics) Err() error {
	if !ds.HasErrors() {
		return nil
	}

	return ds.Errors()
}

func (ds Diagnostics) filter(s Severity) Diagnostics {
	var out Diagnostics

	for _, d := range ds {
		if d.Severity == s {
			out = append(out, d)
		}
	}

	return out
}

// Collector is a [Sink] that records every report.
type Collector struct {
	Diagnostics Diagnostics
}

func (c *Collector) ReportError(err error, pos ast.Position) {
	c.Diagnostics = append(c.Diagnostics,
		Diagnostic{Err: err, Pos: pos, Severity: SeverityError})
}

func (c *Collector) ReportWarning(err error, pos ast.Position) {
	c.Diagnostics = append(c.Diagnostics,
		Diagnostic{Err: err, Pos: pos, Severity: SeverityWarning})
}

// capture collects reports made while evaluating a condition, so they can
// be folded into a single ErrInvalidCondition.
type capture struct {
	Collector
}
