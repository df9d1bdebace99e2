// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package assert

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cyphergremlin/cli/internal/cypher"

	"github.com/PaesslerAG/jsonpath"
)

// Result is the outcome of one check.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Evaluate runs every check in e against records.
func Evaluate(e Expectations, records []cypher.Record) []Result {
	var out []Result
	if e.Count != nil {
		out = append(out, Count(*e.Count, len(records)))
	}

	if e.Rows == nil && len(e.JSONPath) == 0 {
		return out
	}

	doc, err := document(records)
	if err != nil {
		out = append(out, Result{Name: "records", Passed: false, Message: fmt.Sprintf("records cannot be encoded as JSON: %v", err)})
		return out
	}

	if e.Rows != nil {
		out = append(out, rows(e.Rows, doc, e.IsOrdered()))
	}

	exprs := make([]string, 0, len(e.JSONPath))
	for expr := range e.JSONPath {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)
	for _, expr := range exprs {
		val, getErr := jsonpath.Get(doubleQuoteKeys(expr), doc)
		out = append(out, jsonPathChecks(expr, e.JSONPath[expr], val, getErr)...)
	}
	return out
}

var reSingleQuotedKey = regexp.MustCompile(`\['([^'\\]*)'\]`)

// doubleQuoteKeys rewrites ['key'] selectors as ["key"]; the jsonpath parser
// only accepts double-quoted bracket keys.
func doubleQuoteKeys(expr string) string {
	return reSingleQuotedKey.ReplaceAllStringFunc(expr, func(m string) string {
		return "[" + strconv.Quote(m[2:len(m)-2]) + "]"
	})
}

// Count checks the number of records.
func Count(expected, got int) Result {
	if expected == got {
		return Result{Name: "count", Passed: true, Message: fmt.Sprintf("%d record(s)", got)}
	}
	return Result{Name: "count", Passed: false, Message: fmt.Sprintf("expected %d record(s), got %d", expected, got)}
}

// document returns the JSON form of records, the shape both row comparison
// and JSONPath expressions work on.
func document(records []cypher.Record) ([]any, error) {
	if records == nil {
		records = []cypher.Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var doc []any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// normalize maps YAML values onto their JSON equivalents so that a YAML int
// compares equal to the float64 a JSON number decodes to.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func rows(expected []map[string]any, doc []any, ordered bool) Result {
	want := make([]any, len(expected))
	for i, row := range expected {
		n, err := normalize(row)
		if err != nil {
			return Result{Name: "rows", Passed: false, Message: fmt.Sprintf("expected row %d: %v", i+1, err)}
		}
		want[i] = n
	}
	if len(want) != len(doc) {
		return Result{Name: "rows", Passed: false, Message: fmt.Sprintf("expected %d row(s), got %d", len(want), len(doc))}
	}

	if ordered {
		for i := range want {
			if !reflect.DeepEqual(want[i], doc[i]) {
				return Result{Name: "rows", Passed: false, Message: fmt.Sprintf("row %d: expected %s, got %s", i+1, compact(want[i]), compact(doc[i]))}
			}
		}
		return Result{Name: "rows", Passed: true, Message: fmt.Sprintf("%d row(s) match in order", len(want))}
	}

	used := make([]bool, len(doc))
	for i, w := range want {
		found := false
		for j, got := range doc {
			if !used[j] && reflect.DeepEqual(w, got) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return Result{Name: "rows", Passed: false, Message: fmt.Sprintf("expected row %d %s not found", i+1, compact(w))}
		}
	}
	return Result{Name: "rows", Passed: true, Message: fmt.Sprintf("%d row(s) match", len(want))}
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func jsonPathChecks(expr string, c JSONPathCheck, val any, getErr error) []Result {
	var out []Result
	if c.Exists {
		out = append(out, checkExists(expr, val, getErr))
	}
	if c.Eq != nil {
		out = append(out, checkString("jsonpath.eq", expr, val, getErr, *c.Eq, func(s, want string) bool { return s == want }))
	}
	if c.Contains != nil {
		out = append(out, checkString("jsonpath.contains", expr, val, getErr, *c.Contains, strings.Contains))
	}
	return out
}

func checkExists(expr string, val any, getErr error) Result {
	if getErr != nil {
		return Result{Name: "jsonpath.exists", Passed: false, Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr)}
	}
	if isEmpty(val) {
		return Result{Name: "jsonpath.exists", Passed: false, Message: fmt.Sprintf("jsonpath %q: expected value to exist, got empty", expr)}
	}
	return Result{Name: "jsonpath.exists", Passed: true, Message: fmt.Sprintf("jsonpath %q exists", expr)}
}

func checkString(name, expr string, val any, getErr error, want string, match func(s, want string) bool) Result {
	if getErr != nil {
		return Result{Name: name, Passed: false, Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr)}
	}
	s, err := toString(val)
	if err != nil {
		return Result{Name: name, Passed: false, Message: fmt.Sprintf("jsonpath %q: %v", expr, err)}
	}
	if match(s, want) {
		return Result{Name: name, Passed: true, Message: fmt.Sprintf("jsonpath %q: %q matches %q", expr, s, want)}
	}
	return Result{Name: name, Passed: false, Message: fmt.Sprintf("jsonpath %q: expected %q, got %q", expr, want, s)}
}

func toString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return compact(v), nil
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
