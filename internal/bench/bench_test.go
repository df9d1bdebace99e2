// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bench

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cyphergremlin/cli/internal/cypher"
)

type countingRunner struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
	failEach int32
	delay    time.Duration
}

func (r *countingRunner) Run(ctx context.Context, _ cypher.Statement) ([]cypher.Record, error) {
	n := r.calls.Add(1)
	cur := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if cur <= p || r.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if r.failEach > 0 && n%r.failEach == 0 {
		return nil, errors.New("boom")
	}
	return nil, nil
}

func TestRunCountsIterations(t *testing.T) {
	r := &countingRunner{failEach: 4, delay: time.Millisecond}
	st, err := Run(context.Background(), r, cypher.NewStatement("RETURN 1"), Options{Iterations: 20, Concurrency: 4})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.calls.Load() != 20 {
		t.Errorf("calls = %d", r.calls.Load())
	}
	if st.Count != 15 || st.Errors != 5 {
		t.Errorf("stats = %+v", st)
	}
	if r.peak.Load() > 4 {
		t.Errorf("peak concurrency = %d, want <= 4", r.peak.Load())
	}
	if st.Min > st.P50 || st.P50 > st.P95 || st.P95 > st.Max {
		t.Errorf("unordered figures: %+v", st)
	}
}

func TestRunValidates(t *testing.T) {
	if _, err := Run(context.Background(), &countingRunner{}, cypher.NewStatement("RETURN 1"), Options{}); err == nil {
		t.Error("expected error for zero iterations")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := &countingRunner{delay: time.Hour}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, r, cypher.NewStatement("RETURN 1"), Options{Iterations: 100, Concurrency: 2})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v", err)
	}
	if r.calls.Load() > 4 {
		t.Errorf("calls = %d after cancel", r.calls.Load())
	}
}

func TestSummarize(t *testing.T) {
	var lat []time.Duration
	for i := 1; i <= 20; i++ {
		lat = append(lat, time.Duration(i)*time.Millisecond)
	}
	st := Summarize(lat, 2)
	if st.Min != time.Millisecond || st.Max != 20*time.Millisecond {
		t.Errorf("min/max = %v/%v", st.Min, st.Max)
	}
	if st.P50 != 10*time.Millisecond || st.P95 != 19*time.Millisecond {
		t.Errorf("p50/p95 = %v/%v", st.P50, st.P95)
	}
	if st.Mean != 10500*time.Microsecond || st.Errors != 2 || st.Count != 20 {
		t.Errorf("stats = %+v", st)
	}
	if empty := Summarize(nil, 3); empty.Count != 0 || empty.Errors != 3 || empty.Max != 0 {
		t.Errorf("empty = %+v", empty)
	}
}
