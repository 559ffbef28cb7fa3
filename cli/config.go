package cli

import (
	"bytes"
	"io"
	"maps"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"

	"github.com/silentmatt/dss-sub000/pkg"
)

// ErrConfig is returned when a configuration file cannot be decoded.
var ErrConfig = pkg.NewError("invalid configuration file")

// loadJSONC is a [kong.ConfigurationLoader] for JSON with comments and
// trailing commas. An empty file is an empty configuration.
func loadJSONC(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	data = jsonc.ToJSON(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return config{}, nil
	}

	res, err := kong.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	return res, nil
}

// loadYAML is a [kong.ConfigurationLoader] for the YAML file written by the
// init command.
//
// Keys are flag names with hyphens replaced by underscores:
//
//	log_level: debug
//	include_path:
//	  - ./styles
//	define:
//	  accent: teal
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return config{}, nil
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	return makeConfig(values), nil
}

// config implements [kong.Resolver] over decoded configuration values.
type config map[string]any

// makeConfig normalizes decoded values into the forms Kong decodes.
func makeConfig(values map[string]any) config {
	c := make(config, len(values))
	for k, v := range values {
		c[k] = configValue(v)
	}

	return c
}

// configValue converts numbers to strings, which Kong parses for every
// numeric flag type, and recurses into sequences and mappings.
func configValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = configValue(e)
		}

		return out
	case map[string]any:
		out := maps.Clone(v)
		for k, e := range out {
			out[k] = configValue(e)
		}

		return out
	}

	return v
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. The flag name is tried as written and
// with underscores in place of hyphens.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
