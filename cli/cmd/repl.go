package cmd

import (
	"context"
	"log/slog"

	"github.com/silentmatt/dss-sub000/cli/cmd/repl"
	"github.com/silentmatt/dss-sub000/lang"
)

// Repl starts an interactive session.
type Repl struct {
	Sources []string `arg:"" help:"Files or globs evaluated before the prompt opens." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := loggerFrom(ctx)

	session, err := lang.NewSession(optionsFrom(ctx)...)
	if err != nil {
		return err
	}

	if len(r.Sources) > 0 {
		sources, err := expandSources(r.Sources)
		if err != nil {
			return err
		}

		for _, src := range sources {
			// Standard input belongs to the prompt.
			if src.isStdin() {
				continue
			}

			res, err := session.EvalFile(ctx, src.path)
			if err != nil {
				return err
			}

			logger.DebugContext(ctx, "repl preload",
				slog.String("source", src.String()),
				slog.Int("diagnostic_count", len(res.Diagnostics)))
		}
	}

	cacheDir, ok := kongContextFrom(ctx).Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	return repl.Run(ctx, session, cacheDir, logger)
}
