// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseParams merges the parameters file with --param pairs. Pairs win.
func parseParams(pairs []string, file string) (map[string]any, error) {
	params := map[string]any{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("parameters file %s: %w", file, err)
		}
		if params == nil {
			params = map[string]any{}
		}
	}
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "$"))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", p)
		}
		params[name] = parseParamValue(raw)
	}
	return params, nil
}

// parseParamValue reads raw as JSON and falls back to the plain string.
// Whole numbers become int64.
func parseParamValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return raw
	}
	return fromJSON(v)
}

func fromJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = fromJSON(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = fromJSON(e)
		}
		return t
	}
	return v
}

// readQuery takes the statement from args, then file, then stdin. A single
// trailing semicolon is dropped.
func readQuery(args []string, file string, stdin io.Reader) (string, error) {
	var q string
	switch {
	case len(args) > 0:
		q = strings.Join(args, " ")
	case file == "-" && stdin != nil:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		q = string(b)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		q = string(bytes.TrimPrefix(b, []byte("\xef\xbb\xbf")))
	case stdin != nil:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		q = string(b)
	}
	q = strings.TrimSpace(q)
	q = strings.TrimSpace(strings.TrimSuffix(q, ";"))
	if q == "" {
		return "", errors.New("no Cypher statement given; pass it as an argument, with --file, or on stdin")
	}
	return q, nil
}
