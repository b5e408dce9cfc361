package processor

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrNotRun marks items that were never handed to a worker because the
// context ended first.
var ErrNotRun = errors.New("not processed")

// Config holds the configuration for the file processor
type Config struct {
	Workers int
}

// ItemProcessor handles one item. index is the item's position in the input.
type ItemProcessor func(ctx context.Context, index int, item string) error

type job struct {
	index int
	item  string
}

// Process runs fn over items with a bounded pool of workers. The returned
// slice holds the result of each item at the item's position: nil on success,
// the error fn returned, or ErrNotRun. The second return value is non-nil only
// when ctx ends before every item ran.
func Process(ctx context.Context, items []string, cfg Config, fn ItemProcessor) ([]error, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	itemErrors := make([]error, len(items))
	for i := range itemErrors {
		itemErrors[i] = ErrNotRun
	}
	jobs := make(chan job)

	g, gctx := errgroup.WithContext(ctx)

	// Start worker pool
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return worker(gctx, jobs, itemErrors, fn)
		})
	}

	// Feed jobs
	g.Go(func() error {
		defer close(jobs)
		for i, item := range items {
			select {
			case jobs <- job{index: i, item: item}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return itemErrors, err
	}

	return itemErrors, ctx.Err()
}

func worker(ctx context.Context, jobs <-chan job, itemErrors []error, fn ItemProcessor) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j, ok := <-jobs:
			if !ok {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			itemErrors[j.index] = fn(ctx, j.index, j.item)
		}
	}
}
