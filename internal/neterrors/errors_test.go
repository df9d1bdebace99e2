// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package neterrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/gorilla/websocket"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "deadline", err: fmt.Errorf("dial: %w", context.DeadlineExceeded), want: CategoryTimeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "graph.invalid"}, want: CategoryDNS},
		{name: "refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: CategoryRefused},
		{name: "tls", err: errors.New("x509: certificate signed by unknown authority"), want: CategoryTLS},
		{name: "bad handshake", err: fmt.Errorf("handshake rejected with 404 Not Found: %w", websocket.ErrBadHandshake), want: CategoryHandshake},
		{name: "generic", err: errors.New("boom"), want: CategoryGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatNetworkErrorWraps(t *testing.T) {
	if FormatNetworkError(nil, "connecting", "ws://localhost:8182/gremlin") != nil {
		t.Error("nil error should stay nil")
	}
	cause := errors.New("boom")
	err := FormatNetworkError(cause, "connecting", "ws://localhost:8182/gremlin")
	if !errors.Is(err, cause) {
		t.Errorf("FormatNetworkError() = %v, does not wrap cause", err)
	}
}

func TestExtractHostFromURL(t *testing.T) {
	if got := ExtractHostFromURL("ws://graph:8182/gremlin"); got != "graph:8182" {
		t.Errorf("got %q", got)
	}
	if got := ExtractHostFromURL("::bad"); got != "server" {
		t.Errorf("got %q", got)
	}
}
