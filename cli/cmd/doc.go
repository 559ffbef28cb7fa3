// Package cmd implements the dss subcommands: compile, fmt, init and repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the YAML configuration file written by [Init].
	ConfigIdentifier = "config"
)
