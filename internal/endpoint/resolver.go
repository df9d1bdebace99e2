// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import (
	"strings"
)

// Detect guesses the endpoint kind from its scheme. Scheme-less input is a
// Gremlin host.
func Detect(input string) Kind {
	lower := strings.ToLower(strings.TrimSpace(input))

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(lower, "ws://"), strings.HasPrefix(lower, "wss://"), strings.HasPrefix(lower, "gremlin://"):
		return KindGremlin
	case !strings.Contains(lower, "://") && lower != "":
		return KindGremlin
	}
	return KindUnknown
}

// Parse parses a Gremlin Server address
func Parse(input string) (*Info, error) {
	return NewGremlinResolver().Parse(input)
}

// Normalize parses a Gremlin Server address and returns its canonical
// WebSocket URL together with any credentials found in it
func Normalize(input string) (string, *Info, error) {
	r := NewGremlinResolver()
	info, err := r.Parse(input)
	if err != nil {
		return "", nil, err
	}
	u, err := r.Normalize(info)
	if err != nil {
		return "", nil, err
	}
	return u, info, nil
}

// NormalizePostgres validates a PostgreSQL DSN and returns it in canonical
// form
func NormalizePostgres(dsn string) (string, error) {
	r := NewPostgresResolver()
	info, err := r.Parse(strings.TrimSpace(dsn))
	if err != nil {
		return "", err
	}
	return r.Normalize(info)
}
