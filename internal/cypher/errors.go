// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cyphergremlin/cli/internal/gremlin"
)

// ErrNoSuchRecord is returned by Result.Single when the result does not
// hold exactly one record.
var ErrNoSuchRecord = errors.New("cypher: no such record")

// Exception names raised by the Cypher runtime on the server.
const (
	ExceptionDeleteConnectedNode = "DELETE_CONNECTED_NODE"
	ExceptionInvalidRange        = "INVALID_RANGE"
)

var exceptionMessages = map[string]string{
	ExceptionDeleteConnectedNode: "Cannot delete node, because it still has relationships. To delete this node, you must first delete its relationships.",
	ExceptionInvalidRange:        "Invalid range argument",
}

// MessageByName returns the human message of a Cypher exception name.
func MessageByName(name string) (string, bool) {
	msg, ok := exceptionMessages[strings.TrimSpace(name)]
	return msg, ok
}

// Error is a server failure recognized as a Cypher runtime exception.
type Error struct {
	Name    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cypher: %s (%s)", e.Message, e.Name)
}

func (e *Error) Unwrap() error { return e.Err }

// translateError maps server errors that carry a Cypher exception name to
// an *Error. Other errors are returned unchanged.
func translateError(err error) error {
	var re *gremlin.ResponseError
	if !errors.As(err, &re) {
		return err
	}
	if name := exceptionName(re.Message); name != "" {
		return &Error{Name: name, Message: exceptionMessages[name], Err: err}
	}
	return err
}

func exceptionName(message string) string {
	names := make([]string, 0, len(exceptionMessages))
	for name := range exceptionMessages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.Contains(message, name) {
			return name
		}
	}
	return ""
}
