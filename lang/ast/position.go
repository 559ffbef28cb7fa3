package ast

import (
	"log/slog"
	"strconv"
)

// Position identifies a location in a DSS source.
type Position struct {
	URL    string `json:"url,omitempty"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// IsValid reports whether the position refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "url:line:col", omitting the parts that are unknown.
func (p Position) String() string {
	if !p.IsValid() {
		return p.URL
	}

	s := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.URL != "" {
		s = p.URL + ":" + s
	}

	return s
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 3)
	if p.URL != "" {
		attrs = append(attrs, slog.String("url", p.URL))
	}

	return slog.GroupValue(append(attrs,
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)...)
}
