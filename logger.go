package sapling

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the package logger. Accessed atomically because image
// fetch goroutines log failures.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by documents that have no
// Config.Logger. By default sapling produces no log output. Pass nil to
// restore the silent default.
//
// Log levels used by sapling:
//   - [slog.LevelDebug]: per-frame render statistics in debug mode
//   - [slog.LevelWarn]: recoverable problems (undefined clip paths, bad
//     matrices, failed image fetches, unknown enum values)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// logger returns the document's logger, falling back to the package logger.
func (d *Document) logger() *slog.Logger {
	if d.log != nil {
		return d.log
	}
	return Logger()
}
