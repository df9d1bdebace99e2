// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"context"
	"errors"
	"time"

	"cyphergremlin/cli/internal/gremlin"
	"cyphergremlin/cli/internal/logging"
)

// Retrier runs statements through another Runner and retries failures that
// may be transient.
type Retrier struct {
	runner    Runner
	attempts  int
	delay     time.Duration
	retryable func(error) bool
}

// NewRetrier retries up to attempts times in total, waiting delay between
// attempts. attempts below one is treated as one.
func NewRetrier(runner Runner, attempts int, delay time.Duration) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		runner:    runner,
		attempts:  attempts,
		delay:     delay,
		retryable: gremlin.IsRetryable,
	}
}

// Run runs stmt. When every attempt fails, the returned error joins the
// error of each attempt.
func (r *Retrier) Run(ctx context.Context, stmt Statement) ([]Record, error) {
	var errs []error
	for attempt := 1; ; attempt++ {
		records, err := r.runner.Run(ctx, stmt)
		if err == nil {
			return records, nil
		}
		errs = append(errs, err)
		if attempt >= r.attempts || !r.retryable(err) {
			return nil, errors.Join(errs...)
		}

		logging.L().Debug("retrying cypher statement", logging.L().Args("attempt", attempt, "error", logging.Mask(err.Error())))

		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			errs = append(errs, ctx.Err())
			return nil, errors.Join(errs...)
		case <-timer.C:
		}
	}
}
