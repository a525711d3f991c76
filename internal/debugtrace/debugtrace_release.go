//go:build !debug

package debugtrace

// On reports whether the debug build tag is active.
const On = false

// Tracef is a no-op in release builds.
func Tracef(format string, args ...any) {}
