// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gremlin implements the client side of the Gremlin Server WebSocket
// protocol: request framing, GraphSON serialization, response streaming and
// SASL authentication.
//
// The package is transport-level only. It knows nothing about Cypher; the
// cypher package builds requests for the Cypher op processor on top of it.
package gremlin

// Operation names understood by Gremlin Server op processors.
const (
	OpEval           = "eval"
	OpAuthentication = "authentication"
)

// Request argument keys.
const (
	ArgGremlin           = "gremlin"
	ArgBindings          = "bindings"
	ArgAliases           = "aliases"
	ArgBatchSize         = "batchSize"
	ArgEvaluationTimeout = "evaluationTimeout"
	ArgLanguage          = "language"
	ArgSASL              = "sasl"
	ArgSASLMechanism     = "saslMechanism"
)

// TraversalSourceAlias is the alias key a traversal source is bound to in
// the aliases argument.
const TraversalSourceAlias = "g"

// RequestMessage is a single request sent to the server.
// RequestID is generated on submit when left empty.
type RequestMessage struct {
	RequestID string
	Op        string
	Processor string
	Args      map[string]any
}

// Status is the status block of a response.
type Status struct {
	Code       StatusCode
	Message    string
	Attributes map[string]any
}

// Result is the result block of a response.
type Result struct {
	Data any
	Meta map[string]any
}

// ResponseMessage is one frame of a (possibly multi-frame) response.
type ResponseMessage struct {
	RequestID string
	Status    Status
	Result    Result
}

// Items flattens the result data into a list of items. A nil payload yields
// no items and a scalar payload yields a single item.
func (r ResponseMessage) Items() []any {
	switch d := r.Result.Data.(type) {
	case nil:
		return nil
	case []any:
		return d
	default:
		return []any{d}
	}
}
