// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package output

import (
	"sort"

	"cyphergremlin/cli/internal/cypher"

	"gopkg.in/yaml.v3"
)

func yamlKey(k string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
}

func yamlMapping(pairs ...any) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		vn, err := yamlValue(pairs[i+1])
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, yamlKey(pairs[i].(string)), vn)
	}
	return m, nil
}

// yamlValue builds a node for v. Graph elements and maps get stable key
// order so output is reproducible.
func yamlValue(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case cypher.Node:
		labels := make([]any, len(t.Labels))
		for i, l := range t.Labels {
			labels[i] = l
		}
		return yamlMapping("id", t.ID, "labels", labels, "properties", t.Properties)
	case cypher.Relationship:
		return yamlMapping("id", t.ID, "type", t.Type, "start", t.StartID, "end", t.EndID, "properties", t.Properties)
	case cypher.Path:
		nodes := make([]any, len(t.Nodes))
		for i, n := range t.Nodes {
			nodes[i] = n
		}
		rels := make([]any, len(t.Relationships))
		for i, r := range t.Relationships {
			rels[i] = r
		}
		return yamlMapping("nodes", nodes, "relationships", rels)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]any, 0, 2*len(keys))
		for _, k := range keys {
			pairs = append(pairs, k, t[k])
		}
		return yamlMapping(pairs...)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			en, err := yamlValue(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, en)
		}
		if len(t) == 0 {
			seq.Style = yaml.FlowStyle
		}
		return seq, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
