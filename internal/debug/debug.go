// Package debug is a minimal, Config.Debug-gated trace logger. It mirrors
// the teacher's -verbose CLI convention (cmd/dungeongen/main.go) for the
// one ambient concern the source corpus carries no dedicated library
// for: low-volume constraint-rejection tracing during generation.
package debug

import "log"

// Logger gates log.Printf calls behind an Enabled flag, set from
// citygen.Config.Debug.
type Logger struct {
	Enabled bool
}

// New creates a Logger, enabled iff debug is true.
func New(debug bool) *Logger {
	return &Logger{Enabled: debug}
}

// Printf logs format/args via the standard logger when Enabled, and is a
// no-op otherwise.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	log.Printf(format, args...)
}
