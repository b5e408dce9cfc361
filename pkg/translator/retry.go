package translator

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"
)

const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 2 * time.Second
)

// Retrier calls a Completer until it succeeds or MaxRetries attempts are
// spent. The delay between attempts starts at InitialDelay and doubles after
// every failure. Rate-limit replies and other failures share the schedule.
type Retrier struct {
	MaxRetries   int
	InitialDelay time.Duration
	// Sleep waits between attempts. Nil uses a timer that honours ctx.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

func NewRetrier(maxRetries int, initialDelay time.Duration, logger *slog.Logger) *Retrier {
	return &Retrier{MaxRetries: maxRetries, InitialDelay: initialDelay, Logger: logger}
}

// CallModel returns the first successful reply, or the error of the last attempt.
func (r *Retrier) CallModel(ctx context.Context, c Completer, req Request) (string, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	delay := r.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Debug("calling model",
			"attempt", attempt,
			"model", req.Model,
			"prompt_chars", utf8.RuneCountInString(req.Prompt),
			"max_tokens", maxTokens(req),
		)

		text, err := c.Complete(ctx, req)
		if err == nil {
			logger.Debug("model responded",
				"attempt", attempt,
				"model", req.Model,
				"response_chars", utf8.RuneCountInString(text),
			)
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if attempt == maxRetries {
			logger.Error("model call failed, no attempts left",
				"attempt", attempt,
				"model", req.Model,
				"error", err,
			)
			break
		}

		logger.Warn("model call failed, backing off",
			"attempt", attempt,
			"model", req.Model,
			"rate_limited", IsRateLimit(err),
			"delay", delay,
			"error", err,
		)

		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}

	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
