// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package output renders Cypher records as a terminal table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cyphergremlin/cli/internal/cypher"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Format selects how records are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected table, json or yaml)", name)
}

// Write renders records to w.
func Write(w io.Writer, format Format, records []cypher.Record) error {
	switch format {
	case FormatTable, "":
		return writeTable(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	case FormatYAML:
		return writeYAML(w, records)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeTable(w io.Writer, records []cypher.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "(no rows)")
		return err
	}
	keys := records[0].Keys()
	data := make(pterm.TableData, 0, len(records)+1)
	data = append(data, append([]string(nil), keys...))
	for _, rec := range records {
		row := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := rec.Get(k); ok {
				row[i] = FormatValue(v)
			}
		}
		data = append(data, row)
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%d row(s)\n", s, len(records))
	return err
}

func writeJSON(w io.Writer, records []cypher.Record) error {
	if records == nil {
		records = []cypher.Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func writeYAML(w io.Writer, records []cypher.Record) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range records {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, k := range rec.Keys() {
			vn, err := yamlValue(rec.Index(i))
			if err != nil {
				return fmt.Errorf("column %q: %w", k, err)
			}
			m.Content = append(m.Content, yamlKey(k), vn)
		}
		doc.Content = append(doc.Content, m)
	}
	if len(records) == 0 {
		doc.Style = yaml.FlowStyle
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
