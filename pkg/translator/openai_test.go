package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIComplete(t *testing.T) {
	var gotAuth string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   DefaultOpenAIModel,
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": "  Know thyself.  "},
				},
			},
		})
	}))
	defer server.Close()

	o := NewOpenAI(server.URL+"/v1", server.Client())

	got, err := o.Complete(context.Background(), Request{
		Credential: "sk-openai",
		Model:      DefaultOpenAIModel,
		System:     SystemPrompt,
		Prompt:     BuildPrompt("γνῶθι σεαυτόν"),
	})
	if err != nil {
		t.Fatalf("Complete() unexpected error = %v", err)
	}
	if got != "Know thyself." {
		t.Errorf("Complete() = %q, want %q", got, "Know thyself.")
	}
	if gotAuth != "Bearer sk-openai" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestOpenAICompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached for gpt-4o","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	o := NewOpenAI(server.URL+"/v1", server.Client())

	_, err := o.Complete(context.Background(), Request{Credential: "sk-openai", Model: DefaultOpenAIModel, Prompt: "x"})
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Complete() error = %v, want %v", err, ErrRateLimitExceeded)
	}
}

func TestProvidersRequireCredential(t *testing.T) {
	backends := map[string]Completer{
		"anthropic": NewAnthropic(AnthropicConfig{}),
		"gemini":    NewGemini(nil),
		"openai":    NewOpenAI("", nil),
	}

	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			_, err := c.Complete(context.Background(), Request{Model: "any", Prompt: "x"})
			if !errors.Is(err, ErrMissingCredential) {
				t.Errorf("Complete() error = %v, want %v", err, ErrMissingCredential)
			}
		})
	}
}
