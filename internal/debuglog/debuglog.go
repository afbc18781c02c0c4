// Package debuglog provides the timestamped debug logging enabled by --verbose.
package debuglog

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger writes timestamped debug lines to a writer when enabled.
// A nil or disabled logger is a no-op, so callers never need to guard calls.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
}

// New creates a logger writing to out. When enabled is false every
// call is a no-op.
func New(out io.Writer, enabled bool) *Logger {
	return &Logger{out: out, enabled: enabled}
}

// Nop returns a disabled logger.
func Nop() *Logger {
	return &Logger{}
}

// Logf writes a timestamped debug line.
func (l *Logger) Logf(format string, args ...interface{}) {
	if l == nil || !l.enabled || l.out == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.out, "[DEBUG %s] %s\n", timestamp, msg)
}

// Enabled reports whether the logger writes anything.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}
