//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the dss module embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version with surrounding whitespace
// removed.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command identifier. It appears in help text, the
	// default config paths and the environment variable prefix.
	Name = "dss"
	// Description is a short summary used in help output.
	Description = "DSS to CSS compiler"
	// Extension is the conventional file name extension of DSS sources.
	Extension = ".dss"
)
