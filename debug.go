package sketchpad

import (
	"fmt"
	"io"
	"os"
)

// debugOut is where debug diagnostics are written. Tests swap it out.
var debugOut io.Writer = os.Stderr

// debugf prints a diagnostic line to stderr. Callers check their own debug
// flag first; this never panics so a misbehaving host keeps running.
func debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(debugOut, "[sketchpad] "+format+"\n", args...)
}

// SetDebugMode enables or disables debug mode. When enabled, state
// transitions, dropped gesture frames and scene consistency violations are
// logged to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
	e.scene.debug = enabled
}

// logf prints a diagnostic when the engine is in debug mode.
func (e *Engine) logf(format string, args ...any) {
	if e.debug {
		debugf(format, args...)
	}
}
