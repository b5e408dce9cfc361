package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownModel = errors.New("unknown model")

type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
)

var modelPrefixes = []struct {
	prefix   string
	provider Provider
}{
	{"claude-", ProviderAnthropic},
	{"gemini-", ProviderGemini},
	{"gpt-", ProviderOpenAI},
	{"o1", ProviderOpenAI},
	{"o3", ProviderOpenAI},
	{"o4", ProviderOpenAI},
}

// ProviderFor maps a model ID to the API that serves it.
func ProviderFor(model string) (Provider, error) {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, p := range modelPrefixes {
		if strings.HasPrefix(m, p.prefix) {
			return p.provider, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, model)
}

// Registry routes each request to the backend registered for its model.
type Registry struct {
	backends map[Provider]Completer
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[Provider]Completer)}
}

func (r *Registry) Register(p Provider, c Completer) {
	r.backends[p] = c
}

func (r *Registry) Complete(ctx context.Context, req Request) (string, error) {
	p, err := ProviderFor(req.Model)
	if err != nil {
		return "", err
	}
	c, ok := r.backends[p]
	if !ok {
		return "", fmt.Errorf("%w: no %s backend configured for %q", ErrUnknownModel, p, req.Model)
	}
	return c.Complete(ctx, req)
}
