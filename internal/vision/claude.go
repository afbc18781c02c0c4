package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

const claudeMaxTokens = 1024

// ClaudeConfig contains configuration for creating a ClaudeAnalyzer.
type ClaudeConfig struct {
	// Model is the Claude model to use. Defaults to a Haiku-class model;
	// the on-task check is a one-word answer and does not need a larger one.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// ClaudeAnalyzer implements Analyzer via the Anthropic Messages API.
type ClaudeAnalyzer struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewClaudeAnalyzer creates an Anthropic-backed analyzer. It fails fast
// when no credential is available.
func NewClaudeAnalyzer(cfg ClaudeConfig) (*ClaudeAnalyzer, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaude3_5Haiku20241022
	}

	return &ClaudeAnalyzer{
		inner: anthropic.NewClient(opts...),
		model: model,
	}, nil
}

// Model returns the configured model name.
func (a *ClaudeAnalyzer) Model() anthropic.Model {
	return a.model
}

// AnalyzeImage sends the PNG as a base64 image block alongside the prompt.
func (a *ClaudeAnalyzer) AnalyzeImage(ctx context.Context, pngData []byte, prompt string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(pngData)

	resp, err := a.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				anthropic.NewImageBlockBase64("image/png", encoded),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude image request: %w", err)
	}

	return textContent(resp), nil
}

// GenerateText sends a text-only prompt.
func (a *ClaudeAnalyzer) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := a.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude text request: %w", err)
	}

	return textContent(resp), nil
}

// textContent concatenates the text blocks of a response.
func textContent(resp *anthropic.Message) string {
	var out string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			out += variant.Text
		}
	}
	return out
}
