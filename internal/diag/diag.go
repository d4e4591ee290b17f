// Package diag centralizes the "not an error" diagnostics the core emits:
// an unsupported mapper id, or an unknown opcode decoded from ROM. Neither
// condition stops emulation (§7); they are logged once so a host can
// surface them without drowning stdout in per-cycle chatter.
//
// No third-party structured-logging library appears anywhere in the
// reference corpus for this domain (see DESIGN.md) — every retrieved NES/8-
// bit emulator logs through the standard library, so this package is a
// thin wrapper around log.Logger rather than an adopted dependency.
package diag

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "gones: ", log.LstdFlags)

// Warnf logs a recoverable condition the core degrades gracefully from.
func Warnf(format string, args ...any) {
	logger.Printf("warn: "+format, args...)
}

// Infof logs a non-error informational event (ROM loaded, mapper selected).
func Infof(format string, args ...any) {
	logger.Printf("info: "+format, args...)
}
