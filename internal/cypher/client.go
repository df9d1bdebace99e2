// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cypher runs Cypher statements against a Gremlin Server that has
// the Cypher plugin installed. Statements are sent to the cypher op
// processor and every returned row is normalized into a Record whose values
// are plain Go values, Nodes, Relationships or Paths.
package cypher

import (
	"context"
	"time"

	"cyphergremlin/cli/internal/gremlin"
	"cyphergremlin/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Submitter sends raw protocol requests. *gremlin.Client and *gremlin.Conn
// satisfy it.
type Submitter interface {
	Submit(ctx context.Context, req gremlin.RequestMessage) (*gremlin.ResultSet, error)
}

// Runner executes a statement and collects its records.
type Runner interface {
	Run(ctx context.Context, stmt Statement) ([]Record, error)
}

// Client runs Cypher statements over a Submitter.
type Client struct {
	sub    Submitter
	opts   RequestOptions
	server string
	logger *pterm.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithProcessor overrides the op processor name.
func WithProcessor(name string) Option {
	return func(c *Client) { c.opts.Processor = name }
}

// WithTraversalSource binds the g alias to a server-side traversal source.
func WithTraversalSource(source string) Option {
	return func(c *Client) { c.opts.TraversalSource = source }
}

// WithGraph sets the default graph for statements that name none.
func WithGraph(graph string) Option {
	return func(c *Client) { c.opts.Graph = graph }
}

// WithBatchSize asks the server for result batches of n items.
func WithBatchSize(n int) Option {
	return func(c *Client) { c.opts.BatchSize = n }
}

// WithServer records the endpoint name reported in summaries.
func WithServer(url string) Option {
	return func(c *Client) { c.server = url }
}

// WithLogger overrides the package logger.
func WithLogger(l *pterm.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Cypher client on top of sub.
func NewClient(sub Submitter, opts ...Option) *Client {
	c := &Client{sub: sub}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.L()
	}
	return c
}

// Options returns the request options the client applies.
func (c *Client) Options() RequestOptions { return c.opts }

// Submit sends stmt and returns a streaming result.
func (c *Client) Submit(ctx context.Context, stmt Statement) (*Result, error) {
	req := BuildRequest(stmt, c.opts)
	c.logger.Debug("submitting cypher statement", c.logger.Args(
		"processor", req.Processor,
		"query", logging.Mask(stmt.Query()),
		"parameters", len(stmt.Parameters()),
	))
	rs, err := c.sub.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return newResult(stmt, c.server, rs), nil
}

// Run submits stmt and collects every record.
func (c *Client) Run(ctx context.Context, stmt Statement) ([]Record, error) {
	start := time.Now()
	res, err := c.Submit(ctx, stmt)
	if err != nil {
		return nil, err
	}
	records, err := res.All(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("cypher statement finished", c.logger.Args("records", len(records), "elapsed", time.Since(start).String()))
	return records, nil
}

// Query runs query text with params.
func (c *Client) Query(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return c.Run(ctx, NewStatementWithParameters(query, params))
}

// Explanation is the server's answer to an EXPLAIN statement.
type Explanation struct {
	Translation string
	Options     any
}

// Explain asks the server how it would translate stmt without running it.
func (c *Client) Explain(ctx context.Context, stmt Statement) (Explanation, error) {
	res, err := c.Submit(ctx, stmt.Explain())
	if err != nil {
		return Explanation{}, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return Explanation{}, err
	}
	var ex Explanation
	if v, ok := rec.Get("translation"); ok {
		ex.Translation, _ = v.(string)
	}
	ex.Options, _ = rec.Get("options")
	return ex, nil
}
