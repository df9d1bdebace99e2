// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package output

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"cyphergremlin/cli/internal/cypher"
)

// FormatValue renders v the way Cypher shells print values: nodes as
// (:Label {k: v}), relationships as [:TYPE {k: v}] and paths as chains.
// Top-level strings are printed bare.
func FormatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		b.WriteString(strconv.Quote(t))
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case cypher.Node:
		writeNode(b, t)
	case cypher.Relationship:
		b.WriteString("[")
		writeRelationshipBody(b, t)
		b.WriteString("]")
	case cypher.Path:
		writePath(b, t)
	case map[string]any:
		writeMap(b, t)
	case []any:
		b.WriteString("[")
		for i, e := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e)
		}
		b.WriteString("]")
	default:
		fmt.Fprint(b, v)
	}
}

func writeMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		writeValue(b, m[k])
	}
	b.WriteString("}")
}

func writeNode(b *strings.Builder, n cypher.Node) {
	b.WriteString("(")
	for _, l := range n.Labels {
		b.WriteString(":")
		b.WriteString(l)
	}
	if len(n.Properties) > 0 {
		if len(n.Labels) > 0 {
			b.WriteString(" ")
		}
		writeMap(b, n.Properties)
	}
	b.WriteString(")")
}

func writeRelationshipBody(b *strings.Builder, r cypher.Relationship) {
	if r.Type != "" {
		b.WriteString(":")
		b.WriteString(r.Type)
	}
	if len(r.Properties) > 0 {
		if r.Type != "" {
			b.WriteString(" ")
		}
		writeMap(b, r.Properties)
	}
}

func writePath(b *strings.Builder, p cypher.Path) {
	for i, n := range p.Nodes {
		if i > 0 {
			r := p.Relationships[i-1]
			if sameID(r.EndID, p.Nodes[i-1].ID) && !sameID(r.StartID, p.Nodes[i-1].ID) {
				b.WriteString("<-[")
				writeRelationshipBody(b, r)
				b.WriteString("]-")
			} else {
				b.WriteString("-[")
				writeRelationshipBody(b, r)
				b.WriteString("]->")
			}
		}
		writeNode(b, n)
	}
}

func sameID(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}
