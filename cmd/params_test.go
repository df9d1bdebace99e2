// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseParamValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{in: "42", want: int64(42)},
		{in: "1.5", want: 1.5},
		{in: "true", want: true},
		{in: "null", want: nil},
		{in: `"marko"`, want: "marko"},
		{in: "marko", want: "marko"},
		{in: "1 2", want: "1 2"},
		{in: `[1, "a"]`, want: []any{int64(1), "a"}},
		{in: `{"age": 29}`, want: map[string]any{"age": int64(29)}},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseParamValue(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseParamValue(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	file := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(file, []byte("name: vadas\nlimit: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := parseParams([]string{"name=marko", "$age=29"}, file)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"name": "marko", "limit": 2, "age": int64(29)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseParams() = %#v, want %#v", got, want)
	}

	for _, bad := range []string{"novalue", "=1"} {
		if _, err := parseParams([]string{bad}, ""); err == nil {
			t.Errorf("parseParams(%q) expected error", bad)
		}
	}
	if _, err := parseParams(nil, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadQuery(t *testing.T) {
	file := filepath.Join(t.TempDir(), "q.cypher")
	if err := os.WriteFile(file, []byte("\xef\xbb\xbfMATCH (n)\nRETURN n;\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{name: "args", args: []string{"RETURN", "1;"}, want: "RETURN 1"},
		{name: "file", file: file, want: "MATCH (n)\nRETURN n"},
		{name: "stdin", stdin: "  RETURN 2 ; \n", want: "RETURN 2"},
		{name: "dash", file: "-", stdin: "RETURN 3", want: "RETURN 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var err error
			if tt.stdin != "" {
				got, err = readQuery(tt.args, tt.file, strings.NewReader(tt.stdin))
			} else {
				got, err = readQuery(tt.args, tt.file, nil)
			}
			if err != nil || got != tt.want {
				t.Errorf("readQuery() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
	if _, err := readQuery(nil, "", strings.NewReader(" ; ")); err == nil {
		t.Error("expected error for empty statement")
	}
	if _, err := readQuery(nil, "", nil); err == nil {
		t.Error("expected error without any input")
	}
}
