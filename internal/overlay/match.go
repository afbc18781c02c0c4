package overlay

import "strings"

// normalize strips surrounding whitespace, then surrounding quote
// characters. Quote stripping happens after the whitespace trim and is
// not followed by another trim, so a challenge like `"stay focused"`
// matches with or without its quotes but interior text is untouched.
func normalize(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// Matches reports whether the user's input unlocks the challenge.
// The comparison is case-sensitive after normalization.
func Matches(input, challenge string) bool {
	return normalize(input) == normalize(challenge)
}
