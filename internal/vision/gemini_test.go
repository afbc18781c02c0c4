package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiAnalyzer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewGeminiAnalyzer(GeminiConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGeminiAnalyzer: %v", err)
	}
	a.baseURL = srv.URL
	a.httpClient = srv.Client()
	return a, srv
}

func TestGeminiGenerateText(t *testing.T) {
	var gotReq geminiRequest
	a, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "Sorry, I got distracted."}},
				},
			}},
		})
	})

	got, err := a.GenerateText(context.Background(), "apologize")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "Sorry, I got distracted." {
		t.Errorf("expected response text, got %q", got)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "apologize" {
		t.Errorf("expected prompt in request, got %+v", gotReq)
	}
}

func TestGeminiAnalyzeImageSendsInlineData(t *testing.T) {
	var gotReq geminiRequest
	a, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "yes"}},
				},
			}},
		})
	})

	got, err := a.AnalyzeImage(context.Background(), []byte{0x89, 0x50}, "on task?")
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	if got != "yes" {
		t.Errorf("expected yes, got %q", got)
	}

	parts := gotReq.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected text + image parts, got %d", len(parts))
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "image/png" {
		t.Errorf("expected inline png data, got %+v", parts[1])
	}
}

func TestGeminiAPIError(t *testing.T) {
	a, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    400,
				"message": "API key not valid",
				"status":  "INVALID_ARGUMENT",
			},
		})
	})

	if _, err := a.GenerateText(context.Background(), "hi"); err == nil {
		t.Fatal("expected API error")
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	if _, err := NewGeminiAnalyzer(GeminiConfig{}); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}
