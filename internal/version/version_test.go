package version

import "testing"

func TestGet(t *testing.T) {
	if got := Get(); got != "0.1.0" {
		t.Errorf("Get() = %q, want the embedded VERSION", got)
	}
}

func TestGetFallsBackWhenEmpty(t *testing.T) {
	orig := raw
	defer func() { raw = orig }()

	raw = "  \n"
	if got := Get(); got != "dev" {
		t.Errorf("Get() with empty VERSION = %q, want %q", got, "dev")
	}
}
