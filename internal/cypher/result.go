// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// rowStream is the part of a gremlin result set a Result reads from.
type rowStream interface {
	Next(ctx context.Context) (any, error)
	StatusAttributes() map[string]any
}

// Summary describes a fully consumed result.
type Summary struct {
	Statement            Statement
	Server               string
	Records              int
	Attributes           map[string]any
	ResultAvailableAfter time.Duration
	ResultConsumedAfter  time.Duration
}

// Result streams the records of one statement. It is not safe for
// concurrent use.
type Result struct {
	stmt    Statement
	server  string
	rows    rowStream
	started time.Time

	peeked    *Record
	count     int
	firstAt   time.Time
	err       error
	exhausted bool
}

func newResult(stmt Statement, server string, rows rowStream) *Result {
	return &Result{stmt: stmt, server: server, rows: rows, started: time.Now()}
}

// Statement returns the statement that produced the result.
func (r *Result) Statement() Statement { return r.stmt }

func (r *Result) fetch(ctx context.Context) (Record, error) {
	if r.exhausted {
		if r.err != nil {
			return Record{}, r.err
		}
		return Record{}, io.EOF
	}
	item, err := r.rows.Next(ctx)
	if err != nil {
		r.exhausted = true
		if !errors.Is(err, io.EOF) {
			r.err = translateError(err)
			return Record{}, r.err
		}
		return Record{}, io.EOF
	}
	if r.firstAt.IsZero() {
		r.firstAt = time.Now()
	}
	return NormalizeRow(item), nil
}

// Next returns the next record, or io.EOF when the result is exhausted.
func (r *Result) Next(ctx context.Context) (Record, error) {
	if r.peeked != nil {
		rec := *r.peeked
		r.peeked = nil
		r.count++
		return rec, nil
	}
	rec, err := r.fetch(ctx)
	if err != nil {
		return Record{}, err
	}
	r.count++
	return rec, nil
}

// Peek returns the next record without consuming it.
func (r *Result) Peek(ctx context.Context) (Record, error) {
	if r.peeked != nil {
		return *r.peeked, nil
	}
	rec, err := r.fetch(ctx)
	if err != nil {
		return Record{}, err
	}
	r.peeked = &rec
	return rec, nil
}

// Keys returns the column names of the next record. An empty result has
// no keys.
func (r *Result) Keys(ctx context.Context) ([]string, error) {
	rec, err := r.Peek(ctx)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Keys(), nil
}

// All consumes the remaining records.
func (r *Result) All(ctx context.Context) ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Single returns the only record. It fails with ErrNoSuchRecord when the
// result is empty or holds more than one record.
func (r *Result) Single(ctx context.Context) (Record, error) {
	rec, err := r.Next(ctx)
	if errors.Is(err, io.EOF) {
		return Record{}, fmt.Errorf("%w: cannot retrieve a single record, because this result is empty", ErrNoSuchRecord)
	}
	if err != nil {
		return Record{}, err
	}
	_, err = r.Peek(ctx)
	if err == nil {
		return Record{}, fmt.Errorf("%w: expected a result with a single record, but this result contains at least one more", ErrNoSuchRecord)
	}
	if !errors.Is(err, io.EOF) {
		return Record{}, err
	}
	return rec, nil
}

// Consume discards the remaining records and returns the summary.
func (r *Result) Consume(ctx context.Context) (Summary, error) {
	for {
		_, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.summary(), err
		}
	}
	return r.summary(), nil
}

func (r *Result) summary() Summary {
	s := Summary{
		Statement:           r.stmt,
		Server:              r.server,
		Records:             r.count,
		Attributes:          r.rows.StatusAttributes(),
		ResultConsumedAfter: time.Since(r.started),
	}
	if !r.firstAt.IsZero() {
		s.ResultAvailableAfter = r.firstAt.Sub(r.started)
	}
	return s
}
