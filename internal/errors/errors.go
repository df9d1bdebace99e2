// Package errors defines typed errors with categories for user-friendly reporting.
// Each error carries a machine-readable kind and a human-friendly message, and
// wraps the underlying cause so errors.Is and errors.As keep working.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConnectFailed indicates the server could not be reached.
	ConnectFailed Kind = "connect_failed"
	// AuthFailed indicates the server rejected the credentials.
	AuthFailed Kind = "auth_failed"
	// RequestFailed indicates the server returned an error status for a query.
	RequestFailed Kind = "request_failed"
	// ExpectationFailed indicates query results did not match an expectations file.
	ExpectationFailed Kind = "expectation_failed"
	// ConfigInvalid indicates unusable configuration or flags.
	ConfigInvalid Kind = "config_invalid"
	// ImportFailed indicates a relational import could not complete.
	ImportFailed Kind = "import_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first E in err's chain, or "".
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
