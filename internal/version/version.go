// Package version exposes the release version embedded at build time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// Get returns the embedded version string, or "dev" when the VERSION
// file is empty.
func Get() string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "dev"
	}
	return v
}
