// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one result row. Column order is the order the server sent.
type Record struct {
	keys   []string
	values []any
}

// NewRecord builds a record from parallel key and value slices.
func NewRecord(keys []string, values []any) Record {
	if len(keys) != len(values) {
		panic(fmt.Sprintf("cypher: %d keys for %d values", len(keys), len(values)))
	}
	return Record{keys: keys, values: values}
}

// Keys returns the column names.
func (r Record) Keys() []string { return r.keys }

// Values returns the column values in key order.
func (r Record) Values() []any { return r.values }

// Len returns the number of columns.
func (r Record) Len() int { return len(r.keys) }

// Get returns the value of a column.
func (r Record) Get(key string) (any, bool) {
	for i, k := range r.keys {
		if k == key {
			return r.values[i], true
		}
	}
	return nil, false
}

// Index returns the value at position i.
func (r Record) Index(i int) any { return r.values[i] }

// AsMap returns the record as a plain map.
func (r Record) AsMap() map[string]any {
	out := make(map[string]any, len(r.keys))
	for i, k := range r.keys {
		out[k] = r.values[i]
	}
	return out
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("cypher: column %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Record) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprint(r.AsMap())
	}
	return string(b)
}

// Node is a graph vertex as seen from Cypher.
type Node struct {
	ID         any            `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// HasLabel reports whether the node carries label.
func (n Node) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Relationship is a graph edge as seen from Cypher.
type Relationship struct {
	ID         any            `json:"id"`
	Type       string         `json:"type"`
	StartID    any            `json:"start"`
	EndID      any            `json:"end"`
	Properties map[string]any `json:"properties"`
}

// Path is an alternating sequence of nodes and relationships. It always
// holds one more node than relationships.
type Path struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// Start returns the first node.
func (p Path) Start() Node { return p.Nodes[0] }

// End returns the last node.
func (p Path) End() Node { return p.Nodes[len(p.Nodes)-1] }

// Len returns the number of relationships.
func (p Path) Len() int { return len(p.Relationships) }
