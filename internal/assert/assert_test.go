// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package assert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cyphergremlin/cli/internal/cypher"
)

func nameRecords(names ...string) []cypher.Record {
	out := make([]cypher.Record, len(names))
	for i, n := range names {
		out[i] = cypher.NewRecord([]string{"n.name", "n.age"}, []any{n, int64(20 + i)})
	}
	return out
}

func mustParse(t *testing.T, doc string) Expectations {
	t.Helper()
	e, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return e
}

func TestParse(t *testing.T) {
	e := mustParse(t, "count: 2\nrows:\n  - {n.name: marko}\n")
	if e.Count == nil || *e.Count != 2 || len(e.Rows) != 1 || !e.IsOrdered() {
		t.Errorf("Parse() = %+v", e)
	}
	if mustParse(t, "ordered: false\n").IsOrdered() {
		t.Error("ordered: false was ignored")
	}

	for _, bad := range []string{"count: -1\n", "unknown: 1\n", "rows: 3\n"} {
		if _, err := Parse([]byte(bad)); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "expect.yaml")
	if err := os.WriteFile(p, []byte("count: 6\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := Load(p)
	if err != nil || *e.Count != 6 {
		t.Fatalf("Load() = %+v, %v", e, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEvaluateCount(t *testing.T) {
	records := nameRecords("marko", "vadas", "lop", "josh", "ripple", "peter")
	results := Evaluate(mustParse(t, "count: 6\n"), records)
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("results = %+v", results)
	}
	results = Evaluate(mustParse(t, "count: 5\n"), records)
	if results[0].Passed || results[0].Message != "expected 5 record(s), got 6" {
		t.Errorf("results = %+v", results)
	}
}

func TestEvaluateRows(t *testing.T) {
	records := nameRecords("marko", "vadas")
	tests := []struct {
		name string
		doc  string
		pass bool
	}{
		{name: "ordered match", doc: "rows:\n  - {n.name: marko, n.age: 20}\n  - {n.name: vadas, n.age: 21}\n", pass: true},
		{name: "ordered mismatch", doc: "rows:\n  - {n.name: vadas, n.age: 21}\n  - {n.name: marko, n.age: 20}\n", pass: false},
		{name: "unordered match", doc: "ordered: false\nrows:\n  - {n.name: vadas, n.age: 21}\n  - {n.name: marko, n.age: 20}\n", pass: true},
		{name: "unordered missing", doc: "ordered: false\nrows:\n  - {n.name: vadas, n.age: 21}\n  - {n.name: josh, n.age: 20}\n", pass: false},
		{name: "row count differs", doc: "rows:\n  - {n.name: marko, n.age: 20}\n", pass: false},
		{name: "float equals int", doc: "rows:\n  - {n.name: marko, n.age: 20.0}\n  - {n.name: vadas, n.age: 21}\n", pass: true},
		{name: "empty rows", doc: "rows: []\n", pass: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Evaluate(mustParse(t, tt.doc), records)
			if len(results) != 1 {
				t.Fatalf("results = %+v", results)
			}
			if results[0].Passed != tt.pass {
				t.Errorf("Passed = %v, want %v (%s)", results[0].Passed, tt.pass, results[0].Message)
			}
		})
	}
}

func TestEvaluateEmptyResult(t *testing.T) {
	results := Evaluate(mustParse(t, "rows: []\ncount: 0\n"), nil)
	if !AllPassed(results) || len(results) != 2 {
		t.Errorf("results = %+v", results)
	}
}

func TestEvaluateNodes(t *testing.T) {
	node := cypher.Node{ID: int64(1), Labels: []string{"person"}, Properties: map[string]any{"name": "marko"}}
	records := []cypher.Record{cypher.NewRecord([]string{"n"}, []any{node})}
	doc := "rows:\n  - n: {id: 1, labels: [person], properties: {name: marko}}\n"
	results := Evaluate(mustParse(t, doc), records)
	if !AllPassed(results) {
		t.Errorf("results = %+v", results)
	}
}

func TestEvaluateJSONPath(t *testing.T) {
	records := nameRecords("marko", "vadas")
	doc := `jsonpath:
  '$[0]["n.name"]':
    exists: true
    eq: marko
  '$[1]["n.age"]':
    eq: "21"
  "$[1]['n.name']":
    contains: ada
  "$[0].missing":
    exists: true
`
	results := Evaluate(mustParse(t, doc), records)
	if len(results) != 5 {
		t.Fatalf("got %d results: %+v", len(results), results)
	}
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
			if !strings.Contains(r.Message, "missing") {
				t.Errorf("unexpected failure: %+v", r)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestDoubleQuoteKeys(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`$[0]['n.name']`, `$[0]["n.name"]`},
		{`$[0]["n.name"]`, `$[0]["n.name"]`},
		{`$[*]['n.name']['x']`, `$[*]["n.name"]["x"]`},
		{`$[0].name`, `$[0].name`},
		{`$[0]['say "hi"']`, `$[0]["say \"hi\""]`},
	}
	for _, tt := range tests {
		if got := doubleQuoteKeys(tt.in); got != tt.want {
			t.Errorf("doubleQuoteKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEvaluateJSONPathQuotedColumn(t *testing.T) {
	records := nameRecords("marko")
	for _, expr := range []string{`$[0]["n.name"]`, `$[0]['n.name']`} {
		eq := "marko"
		e := Expectations{JSONPath: map[string]JSONPathCheck{expr: {Exists: true, Eq: &eq}}}
		results := Evaluate(e, records)
		if len(results) != 2 || !AllPassed(results) {
			t.Errorf("%s: results = %+v", expr, results)
		}
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed(nil) {
		t.Error("no results should pass")
	}
	if AllPassed([]Result{{Passed: true}, {Passed: false}}) {
		t.Error("a failing result should fail")
	}
}
