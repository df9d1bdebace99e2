// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"context"
	"io"
	"sync"
	"time"
)

// ResultSet streams the items of one request as the server sends them.
// It is safe for one consumer and one producer; the queue is unbounded so
// the connection reader never blocks on a slow consumer.
type ResultSet struct {
	requestID string
	processor string
	started   time.Time
	observer  Observer

	mu      sync.Mutex
	items   []any
	done    bool
	code    StatusCode
	err     error
	attrs   map[string]any
	signal  chan struct{}
	release func()
}

func newResultSet(requestID, processor string, obs Observer) *ResultSet {
	rs := &ResultSet{
		requestID: requestID,
		processor: processor,
		started:   time.Now(),
		observer:  obs,
		signal:    make(chan struct{}, 1),
	}
	if obs != nil {
		obs.RequestStarted(processor)
	}
	return rs
}

// NewResultSet returns an already completed result set holding items. A
// non-nil err is reported after the items have been consumed.
func NewResultSet(items []any, attrs map[string]any, err error) *ResultSet {
	rs := newResultSet("", "", nil)
	rs.items = append(rs.items, items...)
	code := StatusSuccess
	if err != nil {
		code = terminalCode(err)
	}
	rs.finish(code, attrs, err)
	return rs
}

// RequestID returns the ID the request was submitted with.
func (rs *ResultSet) RequestID() string { return rs.requestID }

func (rs *ResultSet) notify() {
	select {
	case rs.signal <- struct{}{}:
	default:
	}
}

func (rs *ResultSet) push(items []any) {
	if len(items) == 0 {
		return
	}
	rs.mu.Lock()
	if !rs.done {
		rs.items = append(rs.items, items...)
	}
	rs.mu.Unlock()
	rs.notify()
}

func (rs *ResultSet) finish(code StatusCode, attrs map[string]any, err error) {
	rs.mu.Lock()
	if rs.done {
		rs.mu.Unlock()
		return
	}
	rs.done = true
	rs.code = code
	rs.attrs = attrs
	rs.err = err
	rs.mu.Unlock()
	rs.notify()
	if rs.observer != nil {
		rs.observer.RequestFinished(rs.processor, code, time.Since(rs.started))
	}
}

// Next blocks until the next item is available. It returns io.EOF once the
// request completed successfully and every item was consumed.
func (rs *ResultSet) Next(ctx context.Context) (any, error) {
	for {
		rs.mu.Lock()
		if len(rs.items) > 0 {
			item := rs.items[0]
			rs.items[0] = nil
			rs.items = rs.items[1:]
			rs.mu.Unlock()
			return item, nil
		}
		if rs.done {
			err := rs.err
			rs.mu.Unlock()
			if err == nil {
				err = io.EOF
			}
			return nil, err
		}
		rs.mu.Unlock()

		select {
		case <-ctx.Done():
			rs.abandon(ctx.Err())
			return nil, ctx.Err()
		case <-rs.signal:
		}
	}
}

// All drains the result set.
func (rs *ResultSet) All(ctx context.Context) ([]any, error) {
	var out []any
	for {
		item, err := rs.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
}

// StatusAttributes returns the attributes of the final status, once done.
func (rs *ResultSet) StatusAttributes() map[string]any {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.attrs
}

// Err returns the terminal error, if the request finished with one.
func (rs *ResultSet) Err() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.err
}

func (rs *ResultSet) abandon(err error) {
	if rs.release != nil {
		rs.release()
	}
	rs.finish(terminalCode(err), nil, err)
}
