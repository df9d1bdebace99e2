// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgimport copies the rows of a PostgreSQL query into the graph as
// nodes, one batch per Cypher statement.
package pgimport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cyphergremlin/cli/internal/cypher"
	"cyphergremlin/cli/internal/logging"

	"github.com/jackc/pgx/v5"
)

// DefaultBatchSize is the number of rows written per statement.
const DefaultBatchSize = 500

// Source runs the SQL query. *pgxpool.Pool and *pgx.Conn satisfy it.
type Source interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Stats summarizes an import.
type Stats struct {
	Rows     int
	Batches  int
	Duration time.Duration
}

// Options configures an Importer.
type Options struct {
	Label     string
	BatchSize int
}

// Importer reads rows from a Source and creates one node per row.
type Importer struct {
	src       Source
	runner    cypher.Runner
	label     string
	batchSize int
}

// New validates opts and returns an importer.
func New(src Source, runner cypher.Runner, opts Options) (*Importer, error) {
	if strings.TrimSpace(opts.Label) == "" {
		return nil, errors.New("a node label is required")
	}
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &Importer{src: src, runner: runner, label: opts.Label, batchSize: size}, nil
}

// QuoteLabel escapes label for use in a Cypher pattern.
func QuoteLabel(label string) string {
	return "`" + strings.ReplaceAll(label, "`", "``") + "`"
}

// Statement returns the Cypher statement that writes one batch.
func (im *Importer) Statement() string {
	return "UNWIND $rows AS row CREATE (n:" + QuoteLabel(im.label) + ") SET n += row"
}

// Import runs sql and writes every returned row. progress, when non-nil, is
// called after each batch.
func (im *Importer) Import(ctx context.Context, sql string, progress func(Stats)) (Stats, error) {
	start := time.Now()
	var st Stats

	rows, err := im.src.Query(ctx, sql)
	if err != nil {
		return st, fmt.Errorf("source query failed: %w", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}

	query := im.Statement()
	batch := make([]any, 0, im.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stmt := cypher.NewStatementWithParameters(query, map[string]any{"rows": batch})
		if _, err := im.runner.Run(ctx, stmt); err != nil {
			return fmt.Errorf("writing batch %d: %w", st.Batches+1, err)
		}
		st.Batches++
		logging.L().Debug("import batch written", logging.L().Args("batch", st.Batches, "rows", len(batch)))
		batch = make([]any, 0, im.batchSize)
		if progress != nil {
			st.Duration = time.Since(start)
			progress(st)
		}
		return nil
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return st, fmt.Errorf("reading row %d: %w", st.Rows+1, err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if i < len(vals) {
				row[c] = convertValue(vals[i])
			}
		}
		batch = append(batch, row)
		st.Rows++
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				return st, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("source query failed: %w", err)
	}
	if err := flush(); err != nil {
		return st, err
	}
	st.Duration = time.Since(start)
	return st, nil
}
