package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/silentmatt/dss-sub000/log"
	"github.com/silentmatt/dss-sub000/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		i.buildConfig(ctx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	err = os.WriteFile(confPath, data, 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig collects the current flag values keyed by configuration name.
// Flags that only make sense on the command line are skipped.
func (i *Init) buildConfig(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	prefixIgnore := []string{"help", "version", profile.Tag}

	var entries yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := configValue(ktx.FlagValue(flag))
		if val != nil {
			entries = append(entries, yaml.MapItem{Key: configKey(flag), Value: val})
		}
	}

	return entries
}

// configKey returns the configuration file key of flag. Keys use
// underscores, which both configuration loaders accept.
func configKey(flag *kong.Flag) string {
	return strings.ReplaceAll(flag.Name, "-", "_")
}

// configValue converts a flag value to a YAML-encodable value, or nil when
// the value is unset or empty.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case fmt.Stringer:
		if s := v.String(); s != "" {
			return s
		}

		return nil
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]any, rv.Len())
		for n := range rv.Len() {
			items[n] = configValue(rv.Index(n).Interface())
		}

		return items

	case reflect.Map:
		if rv.Len() == 0 {
			return nil
		}

		var m yaml.MapSlice

		iter := rv.MapRange()
		for iter.Next() {
			m = append(m, yaml.MapItem{
				Key:   fmt.Sprint(iter.Key().Interface()),
				Value: configValue(iter.Value().Interface()),
			})
		}

		slices.SortFunc(m, func(a, b yaml.MapItem) int {
			return strings.Compare(a.Key.(string), b.Key.(string))
		})

		return m

	case reflect.String:
		return configValue(rv.String())

	default:
		return fmt.Sprint(val)
	}
}
