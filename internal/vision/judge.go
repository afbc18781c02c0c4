package vision

import (
	"context"
	"fmt"
	"strings"
)

// onTaskPrompt is the fixed yes/no question asked of the vision model.
const onTaskPrompt = "You're a diligent productivity checker whose job is to review my desktop and ensure I'm staying on-task. Is this image consistent with working on the following task: '%s'? Answer with ONLY 'yes' or 'no'."

// apologyPrompt generates the challenge text the user must retype.
const apologyPrompt = "Generate a short apologetic message (1-2 sentences) from someone who got distracted instead of working on this task: '%s'. Make it sincere and remorseful. Keep it under 100 characters. Only respond with the message, nothing else."

// Judge turns raw Analyzer responses into verdicts and challenges.
type Judge struct {
	analyzer Analyzer
}

// NewJudge wraps an analyzer.
func NewJudge(analyzer Analyzer) *Judge {
	return &Judge{analyzer: analyzer}
}

// OnTask reports whether the screenshot is consistent with the task.
// Only a trimmed, case-insensitive "yes" counts as on-task; any other
// response text is treated as off-task.
func (j *Judge) OnTask(ctx context.Context, pngData []byte, task string) (bool, error) {
	resp, err := j.analyzer.AnalyzeImage(ctx, pngData, fmt.Sprintf(onTaskPrompt, task))
	if err != nil {
		return false, fmt.Errorf("on-task check: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(resp), "yes"), nil
}

// Apology generates a fresh challenge string for an overlay episode.
// The trimmed response is used verbatim.
func (j *Judge) Apology(ctx context.Context, task string) (string, error) {
	resp, err := j.analyzer.GenerateText(ctx, fmt.Sprintf(apologyPrompt, task))
	if err != nil {
		return "", fmt.Errorf("generate apology: %w", err)
	}
	return strings.TrimSpace(resp), nil
}
