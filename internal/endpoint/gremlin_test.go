// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantURL  string
		wantUser string
		wantPass string
	}{
		{
			name:    "bare host",
			input:   "localhost",
			wantURL: "ws://localhost:8182/gremlin",
		},
		{
			name:    "host and port",
			input:   "graph.internal:9000",
			wantURL: "ws://graph.internal:9000/gremlin",
		},
		{
			name:    "full ws url",
			input:   "ws://localhost:8182/gremlin",
			wantURL: "ws://localhost:8182/gremlin",
		},
		{
			name:    "custom path kept",
			input:   "ws://localhost:8182/custom",
			wantURL: "ws://localhost:8182/custom",
		},
		{
			name:    "gremlin scheme is ws",
			input:   "gremlin://db:8182",
			wantURL: "ws://db:8182/gremlin",
		},
		{
			name:    "wss keeps the gremlin port",
			input:   "wss://graph.example.com",
			wantURL: "wss://graph.example.com:8182/gremlin",
		},
		{
			name:    "scheme is case insensitive",
			input:   "WS://localhost",
			wantURL: "ws://localhost:8182/gremlin",
		},
		{
			name:    "ipv6 host",
			input:   "ws://[::1]:8182/gremlin",
			wantURL: "ws://[::1]:8182/gremlin",
		},
		{
			name:    "query kept",
			input:   "ws://localhost/gremlin?x=1",
			wantURL: "ws://localhost:8182/gremlin?x=1",
		},
		{
			name:     "credentials split off",
			input:    "ws://stephen:password@localhost:8182/gremlin",
			wantURL:  "ws://localhost:8182/gremlin",
			wantUser: "stephen",
			wantPass: "password",
		},
		{
			name:     "unencoded at sign in password",
			input:    "ws://user:p@ss@localhost",
			wantURL:  "ws://localhost:8182/gremlin",
			wantUser: "user",
			wantPass: "p@ss",
		},
		{
			name:     "encoded password",
			input:    "ws://user:p%40ss@localhost",
			wantURL:  "ws://localhost:8182/gremlin",
			wantUser: "user",
			wantPass: "p@ss",
		},
		{
			name:    "surrounding whitespace",
			input:   "  localhost:8182  ",
			wantURL: "ws://localhost:8182/gremlin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, info, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got != tt.wantURL {
				t.Errorf("Normalize() url = %q, want %q", got, tt.wantURL)
			}
			if info.User != tt.wantUser || info.Password != tt.wantPass {
				t.Errorf("credentials = %q/%q, want %q/%q", info.User, info.Password, tt.wantUser, tt.wantPass)
			}
			if strings.Contains(got, "@") {
				t.Errorf("normalized url leaks userinfo: %q", got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{name: "empty", input: "   ", wantReason: "empty endpoint"},
		{name: "http scheme", input: "http://localhost:8182", wantReason: "unsupported scheme http"},
		{name: "unknown scheme", input: "bolt://localhost", wantReason: "unsupported scheme bolt"},
		{name: "missing host", input: "ws://:8182/gremlin", wantReason: "missing host"},
		{name: "non-numeric port", input: "localhost:abc", wantReason: "invalid port number: abc"},
		{name: "port out of range", input: "localhost:70000", wantReason: "invalid port number: 70000"},
		{name: "unterminated ipv6", input: "ws://[::1:8182", wantReason: "unterminated IPv6 address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if perr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", perr.Reason, tt.wantReason)
			}
			if perr.Input != tt.input {
				t.Errorf("Input = %q, want %q", perr.Input, tt.input)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := NewParseError("x", "bad", "try y")
	if err.Error() != "invalid endpoint: bad\nHint: try y" {
		t.Errorf("Error() = %q", err.Error())
	}
	if NewParseError("x", "bad", "").Error() != "invalid endpoint: bad" {
		t.Error("hint-less message mismatch")
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]Kind{
		"localhost":               KindGremlin,
		"ws://localhost":          KindGremlin,
		"gremlin://db":            KindGremlin,
		"postgres://u:p@h/db":     KindPostgres,
		"postgresql://u:p@h/db":   KindPostgres,
		"mysql://u:p@h/db":        KindUnknown,
		"":                        KindUnknown,
	}
	for input, want := range tests {
		if got := Detect(input); got != want {
			t.Errorf("Detect(%q) = %v, want %v", input, got, want)
		}
	}
}
