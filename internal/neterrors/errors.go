// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package neterrors provides user-friendly reporting of failures to reach a
// Gremlin Server endpoint.
package neterrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
)

// Category classifies a connection failure.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryTimeout
	CategoryDNS
	CategoryRefused
	CategoryTLS
	CategoryHandshake
)

// FormatNetworkError converts dial and transport errors into user-friendly
// messages. It prints troubleshooting hints for the detected category and
// returns a wrapped error for logging.
func FormatNetworkError(err error, context string, endpoint string) error {
	if err == nil {
		return nil
	}

	displayErrorMessage(err, context, ExtractHostFromURL(endpoint))

	return fmt.Errorf("network error: %w", err)
}

// Classify returns the category of err.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryGeneric
	case isHandshakeError(err):
		return CategoryHandshake
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isTLSError(err):
		return CategoryTLS
	}
	return CategoryGeneric
}

func displayErrorMessage(err error, context, host string) {
	switch Classify(err) {
	case CategoryHandshake:
		showHandshakeError(context, host, err.Error())
	case CategoryTimeout:
		showTimeoutError(context, host)
	case CategoryDNS:
		showDNSError(context, host)
	case CategoryRefused:
		showConnectionRefusedError(context, host)
	case CategoryTLS:
		showTLSError(context)
	default:
		showGenericError(context, host, err.Error())
	}
}

// isHandshakeError checks if the server answered the upgrade with a non-101 status.
func isHandshakeError(err error) bool {
	if errors.Is(err, websocket.ErrBadHandshake) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "handshake rejected")
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused")
}

// isTLSError checks if the error is a TLS error.
func isTLSError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

func showHandshakeError(context, host, details string) {
	pterm.Printf("🚫 %s refused the WebSocket upgrade while %s\n", host, context)
	pterm.Println()
	pterm.Println("The address answers HTTP but is not a Gremlin WebSocket endpoint. Check:")
	pterm.Println("  • The path (Gremlin Server listens on /gremlin by default)")
	pterm.Println("  • That a proxy in front of the server forwards WebSocket upgrades")
	pterm.Println()
	pterm.Debug.Printf("Technical details: %s\n", details)
}

func showTimeoutError(context, host string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Printf("%s took too long to respond. This could mean:\n", host)
	pterm.Println("  • The server is under heavy load")
	pterm.Println("  • A firewall is silently dropping the connection")
	pterm.Println()
	pterm.Println("Please try again in a few moments.")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Please check:\n", host)
	pterm.Println("  • The host name in --url or CYPHER_GREMLIN_URL")
	pterm.Println("  • DNS settings are correct")
	pterm.Println()
}

func showConnectionRefusedError(context, host string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Printf("Nothing is listening on %s. This could mean:\n", host)
	pterm.Println("  • Gremlin Server is not running")
	pterm.Println("  • Wrong port (the default is 8182)")
	pterm.Println()
}

func showTLSError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish a TLS connection. This could mean:")
	pterm.Println("  • The server certificate is not trusted")
	pterm.Println("  • The server does not speak TLS (use ws:// instead of wss://)")
	pterm.Println()
}

func showGenericError(context, host, details string) {
	pterm.Printf("❌ Cannot connect to %s while %s\n", host, context)
	pterm.Println()

	if details != "" {
		shortErr := details
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the host from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
