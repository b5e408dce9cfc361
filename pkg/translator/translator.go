package translator

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrMissingCredential = errors.New("API key is required")
	ErrEmptyResponse     = errors.New("no translation received")
)

// Request is a single prompt sent to a remote model on behalf of the user
// whose credential it carries.
type Request struct {
	Credential string
	Model      string
	System     string
	Prompt     string
	MaxTokens  int
}

// Completer sends one prompt to a remote model and returns the text of its reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// IsRateLimit reports whether err signals that the remote API throttled the call.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit")
}

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return DefaultMaxTokens
}
