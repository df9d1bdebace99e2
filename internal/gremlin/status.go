// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"errors"
	"fmt"
	"strconv"
)

// StatusCode is a Gremlin Server response status code.
type StatusCode int

const (
	StatusSuccess                  StatusCode = 200
	StatusNoContent                StatusCode = 204
	StatusPartialContent           StatusCode = 206
	StatusUnauthorized             StatusCode = 401
	StatusAuthenticate             StatusCode = 407
	StatusMalformedRequest         StatusCode = 498
	StatusInvalidRequestArguments  StatusCode = 499
	StatusServerError              StatusCode = 500
	StatusServerTimeoutLegacy      StatusCode = 596
	StatusScriptEvaluationError    StatusCode = 597
	StatusServerTimeout            StatusCode = 598
	StatusServerSerializationError StatusCode = 599
)

// Client-side codes for requests that ended without a final server status.
const (
	StatusTransportFailure StatusCode = -1
	StatusCancelled        StatusCode = -2
)

var statusNames = map[StatusCode]string{
	StatusSuccess:                  "success",
	StatusNoContent:                "no content",
	StatusPartialContent:           "partial content",
	StatusUnauthorized:             "unauthorized",
	StatusAuthenticate:             "authenticate",
	StatusMalformedRequest:         "malformed request",
	StatusInvalidRequestArguments:  "invalid request arguments",
	StatusServerError:              "server error",
	StatusServerTimeoutLegacy:      "server timeout",
	StatusScriptEvaluationError:    "script evaluation error",
	StatusServerTimeout:            "server timeout",
	StatusServerSerializationError: "server serialization error",
	StatusTransportFailure:         "transport failure",
	StatusCancelled:                "cancelled",
}

func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return "status " + strconv.Itoa(int(c))
}

// IsSuccess reports whether c is a 2xx code.
func (c StatusCode) IsSuccess() bool { return c >= 200 && c < 300 }

// ErrConnClosed is returned when submitting on a closed connection.
var ErrConnClosed = errors.New("gremlin: connection closed")

// ResponseError is a terminal error status returned by the server.
type ResponseError struct {
	RequestID  string
	Code       StatusCode
	Message    string
	Attributes map[string]any
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gremlin server returned %d (%s)", int(e.Code), e.Code)
	}
	return fmt.Sprintf("gremlin server returned %d (%s): %s", int(e.Code), e.Code, e.Message)
}

// Retryable reports whether resubmitting the same request may succeed.
func (e *ResponseError) Retryable() bool {
	switch e.Code {
	case StatusServerError, StatusServerTimeout, StatusServerTimeoutLegacy:
		return true
	}
	return false
}

// TransportError wraps failures of the underlying WebSocket.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("gremlin %s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err originates from the transport rather than
// from a server status.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsTransport(err) {
		return true
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return false
}

// terminalCode is the code a request ends with when it fails with err.
func terminalCode(err error) StatusCode {
	if code := StatusOf(err); code != 0 {
		return code
	}
	if IsTransport(err) {
		return StatusTransportFailure
	}
	return StatusCancelled
}

// StatusOf returns the server status code carried by err, or 0.
func StatusOf(err error) StatusCode {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Code
	}
	return 0
}
