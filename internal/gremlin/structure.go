// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import "fmt"

// MapEntry is a single key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is an insertion-ordered map. GraphSON maps may carry non-string keys
// (T.id, T.label) and column order matters for tabular results, so decoded
// maps keep their entries as a list.
type Map struct {
	entries []MapEntry
}

// NewMap builds a Map from alternating key/value arguments.
func NewMap(kv ...any) *Map {
	m := &Map{}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Set appends an entry, or replaces the value of an existing string key.
func (m *Map) Set(key, value any) {
	if k, ok := key.(string); ok {
		for i := range m.entries {
			if ek, ok := m.entries[i].Key.(string); ok && ek == k {
				m.entries[i].Value = value
				return
			}
		}
	}
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get looks up a string key.
func (m *Map) Get(key string) (any, bool) {
	for _, e := range m.Entries() {
		if k, ok := e.Key.(string); ok && k == key {
			return e.Value, true
		}
	}
	return nil, false
}

// StringMap converts the map into a plain Go map, formatting non-string keys.
func (m *Map) StringMap() map[string]any {
	out := make(map[string]any, m.Len())
	for _, e := range m.Entries() {
		out[KeyString(e.Key)] = e.Value
	}
	return out
}

// KeyString renders a map key as a string.
func KeyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// Vertex is a graph vertex.
type Vertex struct {
	ID         any
	Label      string
	Properties map[string][]VertexProperty
}

// Edge is a graph edge.
type Edge struct {
	ID         any
	Label      string
	OutV       any
	OutVLabel  string
	InV        any
	InVLabel   string
	Properties map[string]any
}

// VertexProperty is a (possibly multi-valued) vertex property.
type VertexProperty struct {
	ID    any
	Label string
	Value any
}

// Property is an edge or meta property.
type Property struct {
	Key   string
	Value any
}

// Path is a traversal path.
type Path struct {
	Labels  [][]string
	Objects []any
}
