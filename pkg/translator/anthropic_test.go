package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicComplete(t *testing.T) {
	var gotBody map[string]any
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_01",
			"type":        "message",
			"role":        "assistant",
			"model":       DefaultAnthropicModel,
			"stop_reason": "end_turn",
			"content": []map[string]any{
				{"type": "text", "text": "Sing, goddess, the wrath of Achilles"},
			},
			"usage": map[string]any{"input_tokens": 12, "output_tokens": 9},
		})
	}))
	defer server.Close()

	a := NewAnthropic(AnthropicConfig{BaseURL: server.URL, HTTPClient: server.Client()})

	got, err := a.Complete(context.Background(), Request{
		Credential: "sk-test",
		Model:      DefaultAnthropicModel,
		System:     SystemPrompt,
		Prompt:     BuildPrompt("μῆνιν ἄειδε θεὰ"),
	})
	if err != nil {
		t.Fatalf("Complete() unexpected error = %v", err)
	}
	if got != "Sing, goddess, the wrath of Achilles" {
		t.Errorf("Complete() = %q", got)
	}
	if gotKey != "sk-test" {
		t.Errorf("x-api-key header = %q, want %q", gotKey, "sk-test")
	}
	if gotBody["model"] != DefaultAnthropicModel {
		t.Errorf("request model = %v", gotBody["model"])
	}
	if gotBody["system"] != SystemPrompt {
		t.Errorf("request system prompt = %v", gotBody["system"])
	}
	if gotBody["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("request max_tokens = %v, want %d", gotBody["max_tokens"], DefaultMaxTokens)
	}
}

func TestAnthropicCompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Number of request tokens has exceeded your rate limit"}}`))
	}))
	defer server.Close()

	a := NewAnthropic(AnthropicConfig{BaseURL: server.URL, HTTPClient: server.Client()})

	_, err := a.Complete(context.Background(), Request{Credential: "sk-test", Model: DefaultAnthropicModel, Prompt: "x"})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !IsRateLimit(err) {
		t.Errorf("IsRateLimit(%v) = false, want true", err)
	}
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	a := NewAnthropic(AnthropicConfig{BaseURL: server.URL, HTTPClient: server.Client()})

	_, err := a.Complete(context.Background(), Request{Credential: "bad", Model: DefaultAnthropicModel, Prompt: "x"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if IsRateLimit(err) {
		t.Errorf("IsRateLimit(%v) = true, want false", err)
	}
}

func TestAnthropicCompleteNoCredential(t *testing.T) {
	a := NewAnthropic(AnthropicConfig{})

	_, err := a.Complete(context.Background(), Request{Model: DefaultAnthropicModel, Prompt: "x"})
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Complete() error = %v, want %v", err, ErrMissingCredential)
	}
}
