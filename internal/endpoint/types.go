// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoint parses and normalizes the addresses the CLI connects to:
// Gremlin Server WebSocket URLs and the PostgreSQL DSNs used by import.
package endpoint

import "fmt"

// Kind represents the type of endpoint
type Kind string

const (
	KindGremlin  Kind = "gremlin"
	KindPostgres Kind = "postgresql"
	KindUnknown  Kind = "unknown"
)

// Defaults for Gremlin Server endpoints.
const (
	DefaultScheme = "ws"
	DefaultPort   = "8182"
	DefaultPath   = "/gremlin"
)

// Info contains parsed information from an endpoint string
type Info struct {
	Kind     Kind
	Scheme   string
	Host     string
	Port     string
	Path     string
	Query    string
	User     string
	Password string
	Database string
	Params   map[string]string
	Original string
}

// Resolver parses and normalizes one kind of endpoint
type Resolver interface {
	// Parse parses an endpoint string and returns its parts
	Parse(input string) (*Info, error)

	// Normalize converts parsed info to a canonical connection string
	Normalize(info *Info) (string, error)
}

// ParseError represents an error that occurred during endpoint parsing
type ParseError struct {
	Input  string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid endpoint: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid endpoint: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(input, reason, hint string) *ParseError {
	return &ParseError{
		Input:  input,
		Reason: reason,
		Hint:   hint,
	}
}
