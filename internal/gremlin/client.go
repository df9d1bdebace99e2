// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"context"
	"sync"
)

// Client is a long-lived handle to one Gremlin Server endpoint. It dials
// lazily and redials when the current connection has been closed.
type Client struct {
	url  string
	opts []Option

	mu   sync.Mutex
	conn *Conn
}

// NewClient creates a client for url. No connection is opened until the
// first request.
func NewClient(url string, opts ...Option) *Client {
	return &Client{url: url, opts: opts}
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string { return c.url }

// Connect eagerly opens the connection.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.connection(ctx)
	return err
}

// Submit sends req over the current connection. A request that fails
// because the connection went away is retried once on a fresh connection.
func (c *Client) Submit(ctx context.Context, req RequestMessage) (*ResultSet, error) {
	conn, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	rs, err := conn.Submit(ctx, req)
	if err == nil || !conn.Closed() {
		return rs, err
	}

	c.drop(conn)
	conn, err = c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Submit(ctx, req)
}

// Close closes the current connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) connection(ctx context.Context) (*Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil && !c.conn.Closed() {
		return c.conn, nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	conn, err := Dial(ctx, c.url, c.opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return conn, nil
}

func (c *Client) drop(conn *Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}
