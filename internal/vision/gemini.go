package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel = "gemini-2.0-flash"
)

// GeminiConfig contains configuration for creating a GeminiAnalyzer.
type GeminiConfig struct {
	// Model is the Gemini model to use. Defaults to gemini-2.0-flash.
	Model string
	// APIKey is the Google API key. If empty, uses GOOGLE_API_KEY env var.
	APIKey string
}

// GeminiAnalyzer implements Analyzer via the Generative Language REST API.
type GeminiAnalyzer struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer. It fails fast
// when no credential is available.
func NewGeminiAnalyzer(cfg GeminiConfig) (*GeminiAnalyzer, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
	}

	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel
	}

	return &GeminiAnalyzer{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		model:   model,
		// Vision calls on large screenshots can be slow.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Model returns the configured model name.
func (a *GeminiAnalyzer) Model() string {
	return a.model
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// AnalyzeImage sends the PNG as an inline data part alongside the prompt.
func (a *GeminiAnalyzer) AnalyzeImage(ctx context.Context, pngData []byte, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{
					MimeType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(pngData),
				}},
			},
		}},
	}

	text, err := a.generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("gemini image request: %w", err)
	}
	return text, nil
}

// GenerateText sends a text-only prompt.
func (a *GeminiAnalyzer) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	text, err := a.generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("gemini text request: %w", err)
	}
	return text, nil
}

func (a *GeminiAnalyzer) generate(ctx context.Context, req geminiRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("gemini API error %d (%s): %s", resp.Error.Code, resp.Error.Status, resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", httpResp.StatusCode)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}
