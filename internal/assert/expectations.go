// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package assert checks query results against an expectations file.
package assert

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Expectations describes what a query is expected to return.
type Expectations struct {
	Rows     []map[string]any         `yaml:"rows"`
	Ordered  *bool                    `yaml:"ordered"`
	Count    *int                     `yaml:"count"`
	JSONPath map[string]JSONPathCheck `yaml:"jsonpath"`
}

// JSONPathCheck is evaluated against the value an expression selects.
type JSONPathCheck struct {
	Exists   bool    `yaml:"exists"`
	Eq       *string `yaml:"eq"`
	Contains *string `yaml:"contains"`
}

// IsOrdered reports whether rows must match in order. It defaults to true.
func (e Expectations) IsOrdered() bool {
	return e.Ordered == nil || *e.Ordered
}

// Parse decodes an expectations document. Unknown fields are rejected.
func Parse(data []byte) (Expectations, error) {
	var e Expectations
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&e); err != nil {
		return Expectations{}, fmt.Errorf("invalid expectations: %w", err)
	}
	if e.Count != nil && *e.Count < 0 {
		return Expectations{}, fmt.Errorf("invalid expectations: count must not be negative")
	}
	return e, nil
}

// Load reads an expectations file.
func Load(path string) (Expectations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Expectations{}, err
	}
	return Parse(data)
}
