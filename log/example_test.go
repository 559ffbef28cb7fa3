package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/silentmatt/dss-sub000/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.InfoContext(context.Background(), "compile started", slog.String("file", "site.dss"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.TraceContext(context.Background(), "enter rule-set", slog.String("selector", ".box"))
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr, log.WithFormat(log.FormatText))
	logger = logger.With(slog.String("file", "theme.dss"))

	logger.WarnContext(context.Background(), "unknown parameter", slog.String("name", "colour"))
}

func Example_slog() {
	logger := log.Make(os.Stderr, log.WithPretty(false))

	logger.Slog().Info("compiled", "rules", 12)
}
