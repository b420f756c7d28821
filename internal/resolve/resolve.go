// Package resolve replaces {{name}} placeholders with variable values.
package resolve

import (
	"strings"

	"github.com/roach88/batchop/internal/model"
)

// Placeholder returns the placeholder token for name.
func Placeholder(name string) string {
	return "{{" + name + "}}"
}

// Text replaces placeholders in text using vars and never fails.
//
// Variables are applied one at a time, in the order given. Each replaces
// every literal {{name}} in the running result; names match exactly, case
// sensitive, with no whitespace allowed inside the braces. Placeholders
// with no matching variable are left as they are.
//
// Because substitution is sequential, a value that itself contains a
// placeholder is expanded if a later variable matches it, and left alone if
// an earlier one does. The result therefore depends on variable order when
// values contain {{...}}. Expansion is not recursive.
func Text(text string, vars []model.Variable) string {
	result := text
	for _, v := range vars {
		result = strings.ReplaceAll(result, Placeholder(v.Name), v.Value)
	}
	return result
}

// Operation resolves every path field of op, returning the same variant.
func Operation(op model.Operation, vars []model.Variable) model.Operation {
	switch o := op.(type) {
	case model.CopyOp:
		o.From = Text(o.From, vars)
		o.To = Text(o.To, vars)
		return o
	case model.ModifyJSONOp:
		o.From = Text(o.From, vars)
		o.To = Text(o.To, vars)
		o.JSONPath = Text(o.JSONPath, vars)
		return o
	default:
		return op
	}
}

// Placeholders returns the distinct placeholder names in text, in order of
// first appearance. An unterminated "{{" ends the scan.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			return names
		}
		end := strings.Index(rest[start+2:], "}}")
		if end == -1 {
			return names
		}
		name := rest[start+2 : start+2+end]
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = rest[start+2+end+2:]
	}
}

// Unresolved returns placeholder names still present in any path field of
// op after resolution.
func Unresolved(op model.Operation) []string {
	p := model.ParamsOf(op)
	var names []string
	seen := make(map[string]bool)
	for _, field := range []string{p.From, p.To, p.JSONPath} {
		for _, name := range Placeholders(field) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
