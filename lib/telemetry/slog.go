package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide text handler. `verbose` drops the
// level to debug, which also turns on request/response dumps in the
// instrumented http clients.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
