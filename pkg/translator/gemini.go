package translator

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-1.5-pro"

type Gemini struct {
	httpClient *http.Client
}

func NewGemini(httpClient *http.Client) *Gemini {
	return &Gemini{httpClient: httpClient}
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	if req.Credential == "" {
		return "", ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     req.Credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx,
		req.Model,
		[]*genai.Content{
			{
				Role: "user",
				Parts: []*genai.Part{
					{Text: req.Prompt},
				},
			},
		},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: req.System},
				},
			},
		},
	)
	if err != nil {
		if IsRateLimit(err) {
			return "", fmt.Errorf("%w: %w", ErrRateLimitExceeded, err)
		}
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
