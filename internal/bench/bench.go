// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bench runs one statement repeatedly and reports latency figures.
package bench

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"cyphergremlin/cli/internal/cypher"
	"cyphergremlin/cli/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Options controls a benchmark run.
type Options struct {
	Iterations  int
	Concurrency int
}

// Stats summarizes the latency of successful runs.
type Stats struct {
	Count   int
	Errors  int
	Min     time.Duration
	Mean    time.Duration
	P50     time.Duration
	P95     time.Duration
	Max     time.Duration
	Elapsed time.Duration
}

// Run executes stmt opts.Iterations times with at most opts.Concurrency
// statements in flight. Failed runs are counted, not returned; only
// cancellation of ctx stops the benchmark early.
func Run(ctx context.Context, runner cypher.Runner, stmt cypher.Statement, opts Options) (Stats, error) {
	if opts.Iterations < 1 {
		return Stats{}, errors.New("iterations must be at least 1")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	var (
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, opts.Iterations)
		failures  int
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := 0; i < opts.Iterations; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			t0 := time.Now()
			_, err := runner.Run(gctx, stmt)
			d := time.Since(t0)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				logging.L().Debug("bench iteration failed", logging.L().Args("error", logging.Mask(err.Error())))
				return nil
			}
			latencies = append(latencies, d)
			return nil
		})
	}
	err := g.Wait()
	st := Summarize(latencies, failures)
	st.Elapsed = time.Since(start)
	if err == nil {
		err = ctx.Err()
	}
	return st, err
}

// Summarize computes the figures for a set of latencies.
func Summarize(latencies []time.Duration, failures int) Stats {
	st := Stats{Count: len(latencies), Errors: failures}
	if len(latencies) == 0 {
		return st
	}
	sorted := append([]time.Duration(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.Mean = total / time.Duration(len(sorted))
	st.P50 = percentile(sorted, 0.50)
	st.P95 = percentile(sorted, 0.95)
	return st
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
