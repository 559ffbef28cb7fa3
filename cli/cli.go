package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/silentmatt/dss-sub000/cli/cmd"
	"github.com/silentmatt/dss-sub000/lang"
	"github.com/silentmatt/dss-sub000/log"
	"github.com/silentmatt/dss-sub000/pkg"
)

// Base names of the configuration files under [pkg.ConfigDir].
const (
	baseConfigYAML  = "config.yaml"
	baseConfigJSONC = "config.jsonc"
)

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// CLI is the top-level command-line interface for dss.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Define      map[string]string `help:"Define a constant visible to every source (name=value)." short:"D"`
	IncludePath []string          `help:"Directory searched for @include and @import targets."   short:"I" type:"path"`
	MaxDepth    int               `default:"${maxDepth}"                                          help:"Maximum nesting of class and rule-set application."`

	Compile cmd.Compile `cmd:"" default:"withargs" help:"Compile DSS sources to CSS"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Print one compiled source in another format"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
}

// Run executes the dss CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), baseConfigYAML)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadJSONC, filepath.Join(pkg.ConfigDir(), baseConfigJSONC)),
		kong.Configuration(loadYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithLogger(ctx, log.Default())
	ctx = cmd.WithOptions(ctx,
		lang.WithDefines(cli.Define),
		lang.WithSearchPath(pkg.SearchPath(cli.IncludePath...)...),
		lang.WithMaxDepth(cli.MaxDepth),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
