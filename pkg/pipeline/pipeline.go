package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nguyenvanduocit/grctrans/pkg/chunker"
	"github.com/nguyenvanduocit/grctrans/pkg/translator"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	ErrEmptyText         = errors.New("no text provided for translation")
	ErrMissingCredential = translator.ErrMissingCredential
)

// TranslationRequest is one user submission. It is never persisted.
type TranslationRequest struct {
	Credential string
	ModelID    string
	SourceText string
}

// TranslationResult is built once every chunk has been translated.
type TranslationResult struct {
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	ModelID        string    `json:"model"`
	ChunkCount     int       `json:"chunks"`
	Timestamp      time.Time `json:"timestamp"`
}

type Option func(*Pipeline)

func WithChunkSize(n int) Option {
	return func(p *Pipeline) { p.chunkSize = n }
}

func WithRetrier(r *translator.Retrier) Option {
	return func(p *Pipeline) { p.retrier = r }
}

// WithWorkers translates up to n chunks at once. Results are still joined in
// chunk order.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithLimiter(l *rate.Limiter) Option {
	return func(p *Pipeline) { p.limiter = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithMaxTokens caps the reply length of each chunk request. Non-positive
// values keep the default.
func WithMaxTokens(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// Pipeline chunks source text, translates each chunk through a Completer and
// joins the translations.
type Pipeline struct {
	completer translator.Completer
	retrier   *translator.Retrier
	limiter   *rate.Limiter
	logger    *slog.Logger
	now       func() time.Time
	chunkSize int
	maxTokens int
	workers   int
}

func New(c translator.Completer, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer: c,
		logger:    slog.Default(),
		now:       time.Now,
		chunkSize: chunker.DefaultMaxChunkSize,
		maxTokens: translator.DefaultMaxTokens,
		workers:   1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.retrier == nil {
		p.retrier = translator.NewRetrier(translator.DefaultMaxRetries, translator.DefaultInitialDelay, p.logger)
	}
	return p
}

// Translate returns nil and an error if any chunk fails; partial translations
// are discarded.
func (p *Pipeline) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(req.SourceText) == "" {
		return nil, ErrEmptyText
	}

	chunks, err := chunker.Chunk(req.SourceText, p.chunkSize)
	if err != nil {
		return nil, err
	}

	p.logger.Info("translating",
		"model", req.ModelID,
		"characters", utf8.RuneCountInString(req.SourceText),
		"chunks", len(chunks),
	)

	translations := make([]string, len(chunks))
	if p.workers <= 1 {
		for i, chunk := range chunks {
			text, err := p.translateChunk(ctx, req, i, len(chunks), chunk)
			if err != nil {
				return nil, err
			}
			translations[i] = text
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)
		for i, chunk := range chunks {
			g.Go(func() error {
				text, err := p.translateChunk(gctx, req, i, len(chunks), chunk)
				if err != nil {
					return err
				}
				translations[i] = text
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &TranslationResult{
		OriginalText:   req.SourceText,
		TranslatedText: chunker.Join(translations),
		ModelID:        req.ModelID,
		ChunkCount:     len(chunks),
		Timestamp:      p.now(),
	}, nil
}

func (p *Pipeline) translateChunk(ctx context.Context, req TranslationRequest, i, total int, chunk string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	p.logger.Info("translating chunk", "chunk", i+1, "of", total, "characters", utf8.RuneCountInString(chunk))

	text, err := p.retrier.CallModel(ctx, p.completer, translator.Request{
		Credential: req.Credential,
		Model:      req.ModelID,
		System:     translator.SystemPrompt,
		Prompt:     translator.BuildPrompt(chunk),
		MaxTokens:  p.maxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("chunk %d failed: %w", i+1, err)
	}
	return text, nil
}

// IsValidation reports whether err was caused by the request itself rather
// than by the remote API.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, chunker.ErrInvalidChunkSize) ||
		errors.Is(err, translator.ErrUnknownModel)
}
