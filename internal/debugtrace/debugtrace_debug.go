//go:build debug

// Package debugtrace gates verbose stage-layering diagnostics behind a
// build tag, mirroring github.com/arnodel/jsonstream/internal/debug.
package debugtrace

import "log"

// On reports whether the debug build tag is active.
const On = true

// Tracef logs a formatted trace line when the debug build tag is active.
func Tracef(format string, args ...any) {
	log.Printf(format, args...)
}
