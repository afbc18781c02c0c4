//go:build !linux && !windows

package overlay

import "github.com/henryjosephson/clauden-handcuffs/internal/capture"

// moveNative is a no-op where no client-side positioning is available;
// macOS manages full-screen placement through its own spaces.
func moveNative(any, capture.Region) {}
