// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"reflect"

	"cyphergremlin/cli/internal/gremlin"
)

// DefaultProcessor is the Gremlin Server op processor provided by the
// Cypher plugin.
const DefaultProcessor = "cypher"

// ArgGraph names the target graph for the Cypher op processor.
const ArgGraph = "graph"

// NullToken is how the Cypher plugin represents null inside traversals.
const NullToken = "  cypher.null"

// RequestOptions holds per-client request settings.
type RequestOptions struct {
	Processor       string
	TraversalSource string
	Graph           string
	BatchSize       int
}

// BuildRequest turns a statement into an eval request for the Cypher op
// processor.
func BuildRequest(stmt Statement, opts RequestOptions) gremlin.RequestMessage {
	processor := opts.Processor
	if processor == "" {
		processor = DefaultProcessor
	}
	args := map[string]any{gremlin.ArgGremlin: stmt.Query()}
	if stmt.HasParameters() {
		args[gremlin.ArgBindings] = NormalizeParameters(stmt.Parameters())
	}
	graph := stmt.Graph()
	if graph == "" {
		graph = opts.Graph
	}
	if graph != "" {
		args[ArgGraph] = graph
	}
	if opts.TraversalSource != "" {
		args[gremlin.ArgAliases] = map[string]any{gremlin.TraversalSourceAlias: opts.TraversalSource}
	}
	if t := stmt.Timeout(); t > 0 {
		args[gremlin.ArgEvaluationTimeout] = t.Milliseconds()
	}
	if opts.BatchSize > 0 {
		args[gremlin.ArgBatchSize] = opts.BatchSize
	}
	return gremlin.RequestMessage{
		Op:        gremlin.OpEval,
		Processor: processor,
		Args:      args,
	}
}

// NormalizeParameters prepares parameters for the wire: integers widen to
// int64, float32 widens to float64, nil becomes the null token, and nested
// maps and slices are converted recursively.
func NormalizeParameters(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = normalizeParameter(v)
	}
	return out
}

func normalizeParameter(v any) any {
	switch t := v.(type) {
	case nil:
		return NullToken
	case string, bool, int64, float64:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case float32:
		return float64(t)
	case map[string]any:
		return NormalizeParameters(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeParameter(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalizeParameter(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeParameter(iter.Value().Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return NullToken
		}
		return normalizeParameter(rv.Elem().Interface())
	}
	return v
}
