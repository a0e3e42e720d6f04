package logger

import (
	"log/slog"
	"os"
)

// Init installs the process-wide JSON slog handler.
func Init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
