// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgimport

import (
	"context"
	"errors"
	"math/big"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"cyphergremlin/cli/internal/cypher"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type fakeRows struct {
	cols   []string
	data   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}
func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}
func (r *fakeRows) Scan(...any) error      { return errors.New("not supported") }
func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

type fakeSource struct {
	rows *fakeRows
	sql  string
	err  error
}

func (s *fakeSource) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	s.sql = sql
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type recordingRunner struct {
	stmts  []cypher.Statement
	failAt int
}

func (r *recordingRunner) Run(_ context.Context, stmt cypher.Statement) ([]cypher.Record, error) {
	r.stmts = append(r.stmts, stmt)
	if r.failAt > 0 && len(r.stmts) == r.failAt {
		return nil, errors.New("server unavailable")
	}
	return nil, nil
}

func people(n int) *fakeRows {
	rows := &fakeRows{cols: []string{"id", "name"}}
	for i := 0; i < n; i++ {
		rows.data = append(rows.data, []any{int64(i + 1), "person"})
	}
	return rows
}

func TestImportBatches(t *testing.T) {
	src := &fakeSource{rows: people(5)}
	runner := &recordingRunner{}
	im, err := New(src, runner, Options{Label: "Person", BatchSize: 2})
	if err != nil {
		t.Fatal(err)
	}

	var progress []int
	st, err := im.Import(context.Background(), "SELECT id, name FROM people", func(s Stats) {
		progress = append(progress, s.Rows)
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if st.Rows != 5 || st.Batches != 3 {
		t.Errorf("stats = %+v", st)
	}
	if !reflect.DeepEqual(progress, []int{2, 4, 5}) {
		t.Errorf("progress = %v", progress)
	}
	if src.sql != "SELECT id, name FROM people" || !src.rows.closed {
		t.Errorf("source sql = %q, closed = %v", src.sql, src.rows.closed)
	}

	first := runner.stmts[0]
	if first.Query() != "UNWIND $rows AS row CREATE (n:`Person`) SET n += row" {
		t.Errorf("query = %q", first.Query())
	}
	batch := first.Parameters()["rows"].([]any)
	want := []any{
		map[string]any{"id": int64(1), "name": "person"},
		map[string]any{"id": int64(2), "name": "person"},
	}
	if !reflect.DeepEqual(batch, want) {
		t.Errorf("batch = %v", batch)
	}
	if last := runner.stmts[2].Parameters()["rows"].([]any); len(last) != 1 {
		t.Errorf("last batch has %d rows", len(last))
	}
}

func TestImportEmptyResult(t *testing.T) {
	runner := &recordingRunner{}
	im, _ := New(&fakeSource{rows: people(0)}, runner, Options{Label: "Person"})
	st, err := im.Import(context.Background(), "SELECT 1 WHERE false", nil)
	if err != nil || st.Rows != 0 || st.Batches != 0 || len(runner.stmts) != 0 {
		t.Errorf("Import() = %+v, %v, statements %d", st, err, len(runner.stmts))
	}
}

func TestImportErrors(t *testing.T) {
	t.Run("source query", func(t *testing.T) {
		im, _ := New(&fakeSource{err: errors.New("relation does not exist")}, &recordingRunner{}, Options{Label: "X"})
		if _, err := im.Import(context.Background(), "SELECT", nil); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("rows error", func(t *testing.T) {
		rows := people(1)
		rows.err = errors.New("connection reset")
		im, _ := New(&fakeSource{rows: rows}, &recordingRunner{}, Options{Label: "X"})
		if _, err := im.Import(context.Background(), "SELECT", nil); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("write", func(t *testing.T) {
		runner := &recordingRunner{failAt: 2}
		im, _ := New(&fakeSource{rows: people(5)}, runner, Options{Label: "X", BatchSize: 2})
		st, err := im.Import(context.Background(), "SELECT", nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if st.Batches != 1 {
			t.Errorf("batches = %d, want 1", st.Batches)
		}
	})
}

func TestNewValidatesLabel(t *testing.T) {
	if _, err := New(&fakeSource{}, &recordingRunner{}, Options{Label: "  "}); err == nil {
		t.Error("expected error for blank label")
	}
	im, err := New(&fakeSource{}, &recordingRunner{}, Options{Label: "a"})
	if err != nil || im.batchSize != DefaultBatchSize {
		t.Errorf("New() = %+v, %v", im, err)
	}
}

func TestQuoteLabel(t *testing.T) {
	if got := QuoteLabel("we`ird"); got != "`we``ird`" {
		t.Errorf("QuoteLabel() = %s", got)
	}
}

func TestConvertValue(t *testing.T) {
	uuidBytes := [16]byte{0x12, 0x3e, 0x45, 0x67, 0xe8, 0x9b, 0x12, 0xd3, 0xa4, 0x56, 0x42, 0x66, 0x14, 0x17, 0x40, 0x00}
	when := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "uuid array", in: uuidBytes, want: "123e4567-e89b-12d3-a456-426614174000"},
		{name: "uuid bytes", in: uuidBytes[:], want: "123e4567-e89b-12d3-a456-426614174000"},
		{name: "bytea", in: []byte{0xde, 0xad}, want: `\xdead`},
		{name: "time", in: when, want: when},
		{name: "numeric", in: pgtype.Numeric{Int: big.NewInt(1234), Exp: -2, Valid: true}, want: 12.34},
		{name: "null numeric", in: pgtype.Numeric{}, want: nil},
		{name: "inet", in: netip.MustParsePrefix("10.0.0.0/8"), want: "10.0.0.0/8"},
		{name: "json", in: map[string]any{"k": []byte{1, 2}}, want: map[string]any{"k": `\x0102`}},
		{name: "array", in: []any{int32(1), nil}, want: []any{int32(1), nil}},
		{name: "int", in: int64(7), want: int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertValue(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("convertValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
