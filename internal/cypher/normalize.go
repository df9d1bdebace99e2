// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cypher

import (
	"fmt"
	"strconv"
	"strings"

	"cyphergremlin/cli/internal/gremlin"
)

// Element keys the Cypher plugin adds to returned nodes and relationships.
const (
	KeyID      = " cypher.id"
	KeyLabel   = " cypher.label"
	KeyType    = " cypher.type"
	KeyElement = " cypher.element"
	KeyInV     = " cypher.inv"
	KeyOutV    = " cypher.outv"
)

// Element type tags.
const (
	TypeNode         = "node"
	TypeRelationship = "relationship"
)

// defaultVertexLabel is the label TinkerPop gives unlabeled vertices.
const defaultVertexLabel = "vertex"

// ValueColumn names the single column of rows that arrive as bare values.
const ValueColumn = "value"

// NormalizeRow converts one decoded response item into a record.
func NormalizeRow(item any) Record {
	m, ok := item.(*gremlin.Map)
	if !ok {
		return NewRecord([]string{ValueColumn}, []any{Normalize(item)})
	}
	keys := make([]string, 0, m.Len())
	values := make([]any, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, gremlin.KeyString(e.Key))
		values = append(values, Normalize(e.Value))
	}
	return NewRecord(keys, values)
}

// Normalize converts a decoded GraphSON value into its Cypher form.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == NullToken {
			return nil
		}
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case *gremlin.Map:
		switch elementType(t) {
		case TypeNode:
			return nodeFromMap(t)
		case TypeRelationship:
			return relationshipFromMap(t)
		}
		out := make(map[string]any, t.Len())
		for _, e := range t.Entries() {
			out[gremlin.KeyString(e.Key)] = Normalize(e.Value)
		}
		return out
	case []any:
		if p, ok := pathFromList(t); ok {
			return p
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case gremlin.VertexProperty:
		return Normalize(t.Value)
	case gremlin.Property:
		return Normalize(t.Value)
	case gremlin.Vertex:
		return nodeFromVertex(t)
	case gremlin.Edge:
		return relationshipFromEdge(t)
	case gremlin.Path:
		if p, ok := pathFromList(t.Objects); ok {
			return p
		}
		return Normalize(t.Objects)
	}
	return v
}

func elementType(m *gremlin.Map) string {
	v, ok := m.Get(KeyType)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func isCypherKey(k string) bool {
	return strings.HasPrefix(k, " cypher.")
}

func elementProperties(m *gremlin.Map) map[string]any {
	props := make(map[string]any)
	for _, e := range m.Entries() {
		k, ok := e.Key.(string)
		if !ok || isCypherKey(k) {
			continue
		}
		v := e.Value
		if list, ok := v.([]any); ok && len(list) == 1 {
			v = list[0]
		}
		props[k] = Normalize(v)
	}
	return props
}

func nodeFromMap(m *gremlin.Map) Node {
	id, _ := m.Get(KeyID)
	label, _ := m.Get(KeyLabel)
	return Node{
		ID:         toID(id),
		Labels:     nodeLabels(label),
		Properties: elementProperties(m),
	}
}

func relationshipFromMap(m *gremlin.Map) Relationship {
	id, _ := m.Get(KeyID)
	label, _ := m.Get(KeyLabel)
	out, _ := m.Get(KeyOutV)
	in, _ := m.Get(KeyInV)
	r := Relationship{
		ID:         toID(id),
		Type:       labelString(label),
		StartID:    toID(out),
		EndID:      toID(in),
		Properties: elementProperties(m),
	}
	if el, ok := m.Get(KeyElement); ok {
		if em, ok := el.(*gremlin.Map); ok {
			for _, e := range em.Entries() {
				k := gremlin.KeyString(e.Key)
				switch k {
				case "id":
					if r.ID == nil {
						r.ID = toID(e.Value)
					}
				case "label":
					if r.Type == "" {
						r.Type = labelString(e.Value)
					}
				default:
					r.Properties[k] = Normalize(e.Value)
				}
			}
		}
	}
	return r
}

func nodeFromVertex(v gremlin.Vertex) Node {
	props := make(map[string]any, len(v.Properties))
	for k, vps := range v.Properties {
		switch len(vps) {
		case 0:
		case 1:
			props[k] = Normalize(vps[0].Value)
		default:
			list := make([]any, len(vps))
			for i, vp := range vps {
				list[i] = Normalize(vp.Value)
			}
			props[k] = list
		}
	}
	return Node{ID: toID(v.ID), Labels: nodeLabels(v.Label), Properties: props}
}

func relationshipFromEdge(e gremlin.Edge) Relationship {
	props := make(map[string]any, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = Normalize(v)
	}
	return Relationship{
		ID:         toID(e.ID),
		Type:       e.Label,
		StartID:    toID(e.OutV),
		EndID:      toID(e.InV),
		Properties: props,
	}
}

func nodeLabels(label any) []string {
	s := labelString(label)
	if s == "" || s == defaultVertexLabel {
		return []string{}
	}
	return strings.Split(s, "::")
}

func labelString(label any) string {
	switch l := label.(type) {
	case nil:
		return ""
	case string:
		return l
	case []any:
		if len(l) == 1 {
			return labelString(l[0])
		}
	}
	return fmt.Sprint(label)
}

// toID keeps numeric IDs as int64. Other IDs are kept as they are.
func toID(id any) any {
	switch t := id.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
		return t
	case string:
		if t == NullToken {
			return nil
		}
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
		return t
	}
	return id
}

// pathFromList recognizes node, relationship, node, ... sequences.
func pathFromList(list []any) (Path, bool) {
	if len(list) < 3 || len(list)%2 == 0 {
		return Path{}, false
	}
	var p Path
	for i, item := range list {
		if i%2 == 0 {
			n, ok := asNode(item)
			if !ok {
				return Path{}, false
			}
			p.Nodes = append(p.Nodes, n)
			continue
		}
		r, ok := asRelationship(item)
		if !ok {
			return Path{}, false
		}
		p.Relationships = append(p.Relationships, r)
	}
	for i := range p.Relationships {
		if p.Relationships[i].StartID == nil {
			p.Relationships[i].StartID = p.Nodes[i].ID
		}
		if p.Relationships[i].EndID == nil {
			p.Relationships[i].EndID = p.Nodes[i+1].ID
		}
	}
	return p, true
}

func asNode(v any) (Node, bool) {
	switch t := v.(type) {
	case gremlin.Vertex:
		return nodeFromVertex(t), true
	case *gremlin.Map:
		if elementType(t) == TypeNode {
			return nodeFromMap(t), true
		}
	case Node:
		return t, true
	}
	return Node{}, false
}

func asRelationship(v any) (Relationship, bool) {
	switch t := v.(type) {
	case gremlin.Edge:
		return relationshipFromEdge(t), true
	case *gremlin.Map:
		if elementType(t) == TypeRelationship {
			return relationshipFromMap(t), true
		}
	case Relationship:
		return t, true
	}
	return Relationship{}, false
}
