package texcopy

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so engines never build
// attributes for a silent logger.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var silent = slog.New(discard{})

// pkgLogger is read by every engine without a WithLogger option, possibly
// while SetLogger runs on another goroutine.
var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(silent)
}

// SetLogger sets the logger for engines created without WithLogger. Until it
// is called texcopy logs nothing, and passing nil silences it again. It is
// safe to call while copies are running.
//
// Records written by an engine:
//   - "texcopy: full copy" and "texcopy: sub copy" at [slog.LevelDebug],
//     with the source and destination formats and the region
//   - "texcopy: parallel conversion" at Debug when a copy is split across
//     the worker pool
//   - "texcopy: copy rejected" at Debug with the returned error
//   - "texcopy: engine started" and "texcopy: engine stopped" at
//     [slog.LevelInfo]
//
// To see copy diagnostics:
//
//	texcopy.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	pkgLogger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}
