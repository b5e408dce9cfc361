package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"
)

const DefaultAnthropicModel = "claude-3-7-sonnet-latest"

type AnthropicConfig struct {
	// BaseURL overrides the API root, e.g. for a proxy. Empty uses the public endpoint.
	BaseURL     string
	HTTPClient  *http.Client
	Temperature *float32
}

// Anthropic talks to the Messages API with a client built from each request's credential.
type Anthropic struct {
	config AnthropicConfig
}

func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	return &Anthropic{config: cfg}
}

func (a *Anthropic) client(apiKey string) *anthropic.Client {
	var opts []anthropic.ClientOption
	if a.config.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(a.config.BaseURL))
	}
	if a.config.HTTPClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(a.config.HTTPClient))
	}
	return anthropic.NewClient(apiKey, opts...)
}

func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	if req.Credential == "" {
		return "", ErrMissingCredential
	}

	resp, err := a.client(req.Credential).CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       req.Model,
		System:      req.System,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(req.Prompt)},
		MaxTokens:   maxTokens(req),
		Temperature: a.config.Temperature,
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimitErr() {
			return "", fmt.Errorf("%w: %w", ErrRateLimitExceeded, err)
		}
		var reqErr *anthropic.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", ErrRateLimitExceeded, err)
		}
		return "", fmt.Errorf("anthropic: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.GetFirstContentText(), nil
}
