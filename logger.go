package worldwrap

import (
	"log/slog"
	"sync/atomic"
)

// silent is installed until the host asks for diagnostics. Its handler
// reports every level as disabled, so log calls on hot per-frame paths cost
// a level check and nothing more.
var silent = slog.New(slog.DiscardHandler)

// current is read by every package on each log call and may be replaced by
// SetLogger from another goroutine.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes diagnostics from worldwrap and every sub-package to l.
// nil restores the silent default.
//
// What is logged at each level:
//   - [slog.LevelDebug]: target allocation and release per surface
//   - [slog.LevelInfo]: controller ready, wrap setup applied
//   - [slog.LevelWarn]: viewer clip range too wide for a depth tier, skipped portal passes
//
// Example:
//
//	worldwrap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger, or the silent default.
// It never returns nil.
func Logger() *slog.Logger {
	return current.Load()
}
