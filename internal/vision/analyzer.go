// Package vision asks a remote vision model whether a screenshot is
// consistent with the user's declared task, and generates the apology
// text the overlay requires the user to transcribe.
package vision

import "context"

// Analyzer is the capability interface implemented per model provider.
// Callers depend only on these two operations.
type Analyzer interface {
	// AnalyzeImage sends a PNG plus a prompt and returns the model's
	// response text.
	AnalyzeImage(ctx context.Context, pngData []byte, prompt string) (string, error)

	// GenerateText sends a text-only prompt and returns the model's
	// response text.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
