// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"strings"
	"time"
)

// Statement is an immutable Cypher query with its parameters. The With*
// and Add* methods return modified copies.
type Statement struct {
	query   string
	params  map[string]any
	timeout time.Duration
	graph   string
}

// NewStatement creates a statement without parameters.
func NewStatement(query string) Statement {
	return Statement{query: query}
}

// NewStatementWithParameters creates a statement with a copy of params.
func NewStatementWithParameters(query string, params map[string]any) Statement {
	return Statement{query: query, params: copyParams(params)}
}

func copyParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Query returns the query text.
func (s Statement) Query() string { return s.query }

// Parameters returns a copy of the parameters. It is never nil.
func (s Statement) Parameters() map[string]any {
	out := copyParams(s.params)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// HasParameters reports whether any parameter is set.
func (s Statement) HasParameters() bool { return len(s.params) > 0 }

// Timeout returns the evaluation timeout, or zero for the server default.
func (s Statement) Timeout() time.Duration { return s.timeout }

// Graph returns the target graph name, or "" for the server default.
func (s Statement) Graph() string { return s.graph }

// WithParameters replaces all parameters.
func (s Statement) WithParameters(params map[string]any) Statement {
	s.params = copyParams(params)
	return s
}

// AddParameter returns a copy with one more parameter.
func (s Statement) AddParameter(name string, value any) Statement {
	params := copyParams(s.params)
	if params == nil {
		params = make(map[string]any, 1)
	}
	params[name] = value
	s.params = params
	return s
}

// WithTimeout sets the evaluation timeout.
func (s Statement) WithTimeout(d time.Duration) Statement {
	s.timeout = d
	return s
}

// WithGraph targets a named graph.
func (s Statement) WithGraph(graph string) Statement {
	s.graph = graph
	return s
}

// Explain returns the statement prefixed with EXPLAIN. The server then
// answers with the translation instead of running the query.
func (s Statement) Explain() Statement {
	if s.IsExplain() {
		return s
	}
	s.query = "EXPLAIN " + s.query
	return s
}

// IsExplain reports whether the query starts with EXPLAIN.
func (s Statement) IsExplain() bool {
	q := strings.TrimSpace(s.query)
	if len(q) < len("EXPLAIN") || !strings.EqualFold(q[:len("EXPLAIN")], "EXPLAIN") {
		return false
	}
	rest := q[len("EXPLAIN"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\n' || rest[0] == '\t' || rest[0] == '\r'
}

func (s Statement) String() string { return s.query }
