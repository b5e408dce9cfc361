// Package models lists the model IDs a translation can be requested with.
package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyenvanduocit/grctrans/pkg/translator"
)

type Model struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Provider translator.Provider `json:"provider"`
	Default  bool                `json:"default,omitempty"`
}

var catalogue = []Model{
	{ID: translator.DefaultAnthropicModel, Name: "Claude 3.7 Sonnet", Provider: translator.ProviderAnthropic, Default: true},
	{ID: "claude-3-5-sonnet-20240620", Name: "Claude 3.5 Sonnet", Provider: translator.ProviderAnthropic},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Provider: translator.ProviderAnthropic},
	{ID: translator.DefaultGeminiModel, Name: "Gemini 1.5 Pro", Provider: translator.ProviderGemini},
	{ID: translator.DefaultOpenAIModel, Name: "GPT-4o", Provider: translator.ProviderOpenAI},
}

// List returns the supported models, default first.
func List() []Model {
	out := make([]Model, len(catalogue))
	copy(out, catalogue)
	return out
}

func Default() Model {
	return catalogue[0]
}

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// Lister asks a provider which models the given key can use.
type Lister struct {
	http    *resty.Client
	baseURL string
}

func NewLister(baseURL string) *Lister {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &Lister{
		http:    resty.New().SetTimeout(20 * time.Second),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (l *Lister) ListAnthropic(ctx context.Context, apiKey string) ([]Model, error) {
	if apiKey == "" {
		return nil, translator.ErrMissingCredential
	}

	var resp struct {
		Data []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"data"`
	}
	r, err := l.http.R().SetContext(ctx).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetQueryParam("limit", "100").
		SetResult(&resp).
		Get(l.baseURL + "/v1/models")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, fmt.Errorf("anthropic list models: %s; body: %s", r.Status(), r.String())
	}

	out := make([]Model, 0, len(resp.Data))
	for _, d := range resp.Data {
		name := d.DisplayName
		if name == "" {
			name = d.ID
		}
		out = append(out, Model{
			ID:       d.ID,
			Name:     name,
			Provider: translator.ProviderAnthropic,
			Default:  d.ID == translator.DefaultAnthropicModel,
		})
	}
	return out, nil
}
