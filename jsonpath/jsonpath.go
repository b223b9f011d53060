// Package jsonpath implements the minimal JSONPath subset used to pull
// listing fields out of arbitrary decoded JSON documents: named descent,
// wildcards, string-equality filters, and numeric indexes. Queries operate
// on the generic shapes produced by encoding/json (map[string]any, []any).
package jsonpath

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aptscanio/aptscan"
)

// stepKind tags the variants of a compiled path step.
type stepKind int

const (
	stepField stepKind = iota
	stepWildcard
	stepFilter
	stepIndex
)

// step is one segment of a compiled path.
type step struct {
	kind  stepKind
	name  string // stepField: key; stepFilter: field tested
	value string // stepFilter: expected string value
	index int    // stepIndex
}

// Path is a compiled JSONPath query. A Path is immutable and safe for
// concurrent use.
type Path struct {
	steps []step
}

// Parse compiles a JSONPath expression. Supported syntax:
//
//	$            root
//	.name        named descent (missing field yields no match)
//	[name]       bracketed named descent
//	[*]          wildcard over list elements or map values
//	[?(@.f=='v')] filter over a list, string equality only
//	[n]          numeric index (out of range yields no match)
func Parse(expr string) (*Path, error) {
	if !strings.HasPrefix(expr, "$") {
		return nil, aptscan.Errorf(aptscan.EINVALID, "jsonpath must start with $: %q", expr)
	}

	var steps []step
	i := 1
	for i < len(expr) {
		switch expr[i] {
		case '.':
			i++
			start := i
			for i < len(expr) && expr[i] != '.' && expr[i] != '[' {
				i++
			}
			if i > start {
				steps = append(steps, step{kind: stepField, name: expr[start:i]})
			}
		case '[':
			end := strings.IndexByte(expr[i:], ']')
			if end == -1 {
				return nil, aptscan.Errorf(aptscan.EINVALID, "unclosed bracket in jsonpath %q", expr)
			}
			end += i
			inside := expr[i+1 : end]
			s, err := parseBracket(inside, expr)
			if err != nil {
				return nil, err
			}
			steps = append(steps, s)
			i = end + 1
		default:
			i++
		}
	}
	return &Path{steps: steps}, nil
}

func parseBracket(inside, expr string) (step, error) {
	switch {
	case inside == "*":
		return step{kind: stepWildcard}, nil
	case strings.HasPrefix(inside, "?"):
		// expected form: ?(@.field=='value')
		cond := strings.TrimSuffix(strings.TrimPrefix(inside, "?("), ")")
		field, value, ok := strings.Cut(cond, "==")
		if !ok {
			return step{}, aptscan.Errorf(aptscan.EINVALID, "unsupported filter in jsonpath %q", expr)
		}
		field = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(field), "@."))
		value = strings.Trim(strings.TrimSpace(value), `'"`)
		return step{kind: stepFilter, name: field, value: value}, nil
	default:
		if n, err := strconv.Atoi(inside); err == nil {
			return step{kind: stepIndex, index: n}, nil
		}
		return step{kind: stepField, name: strings.Trim(inside, `'"`)}, nil
	}
}

// Find returns every value in doc matched by the path, in document order.
func (p *Path) Find(doc any) []any {
	var out []any
	p.walk(doc, 0, &out)
	return out
}

// Value collapses Find results the way field maps consume them: exactly
// one match yields the scalar, several yield a list, none yields nil.
func (p *Path) Value(doc any) any {
	matches := p.Find(doc)
	switch len(matches) {
	case 0:
		return nil
	case 1:
		return matches[0]
	default:
		return matches
	}
}

func (p *Path) walk(current any, i int, out *[]any) {
	if i >= len(p.steps) {
		*out = append(*out, current)
		return
	}
	s := p.steps[i]
	switch s.kind {
	case stepField:
		if m, ok := current.(map[string]any); ok {
			if v, ok := m[s.name]; ok {
				p.walk(v, i+1, out)
			}
		}
	case stepWildcard:
		switch v := current.(type) {
		case []any:
			for _, item := range v {
				p.walk(item, i+1, out)
			}
		case map[string]any:
			// sorted keys keep repeated runs byte-for-byte identical
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				p.walk(v[k], i+1, out)
			}
		}
	case stepFilter:
		list, ok := current.([]any)
		if !ok {
			return
		}
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if sv, ok := m[s.name].(string); ok && sv == s.value {
				p.walk(item, i+1, out)
			}
		}
	case stepIndex:
		list, ok := current.([]any)
		if !ok {
			return
		}
		if s.index < 0 || s.index >= len(list) {
			return
		}
		p.walk(list[s.index], i+1, out)
	}
}
