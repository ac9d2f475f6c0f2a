package vtext

import (
	"log/slog"

	"github.com/gogpu/vtext/internal/logging"
)

// SetLogger configures the logger for vtext and all its sub-packages.
// By default, vtext produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vtext:
//   - [slog.LevelDebug]: per-pass statistics, record evictions, edits
//   - [slog.LevelInfo]: lifecycle events (font loaded, text set)
//   - [slog.LevelWarn]: benign anomalies (empty view size, paint failures)
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	vtext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by vtext.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
