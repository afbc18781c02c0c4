package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/henryjosephson/clauden-handcuffs/internal/config"
	"github.com/henryjosephson/clauden-handcuffs/internal/vision"
)

// newAnalyzer builds the provider-specific vision analyzer. The
// constructors fail fast when the provider's credential is missing.
func newAnalyzer(cfg *config.Config) (vision.Analyzer, error) {
	switch cfg.Provider {
	case config.ProviderClaude:
		analyzer, err := vision.NewClaudeAnalyzer(vision.ClaudeConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        cfg.Anthropic.APIKey,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("create claude analyzer: %w", err)
		}
		return analyzer, nil

	case config.ProviderGemini:
		analyzer, err := vision.NewGeminiAnalyzer(vision.GeminiConfig{
			Model:  cfg.Gemini.Model,
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini analyzer: %w", err)
		}
		return analyzer, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
