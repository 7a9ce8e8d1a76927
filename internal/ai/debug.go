package ai

import "sync/atomic"

// traceTicks switches on the per-tick slog.Debug calls of controllers,
// the tick manager and the simulated animator. Off unless the configured
// log level is debug.
var traceTicks atomic.Bool

// EnableDebugLogging turns tick tracing on or off. cmd/zombiesim sets it
// once from log_level; tests flip it freely.
func EnableDebugLogging(enabled bool) {
	traceTicks.Store(enabled)
}

// IsDebugEnabled reports whether tick tracing is on. Hot paths check it
// before building slog attributes.
func IsDebugEnabled() bool {
	return traceTicks.Load()
}
