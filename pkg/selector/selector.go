// Package selector compiles a path expression into a pure function that
// selects a sub-value from an arbitrary structured data value.
//
// Ported from the distillation source's inocybe_tree.select module.
package selector

import (
	"fmt"
	"strings"
)

// Selector selects a sub-value of data, or returns nil if the path does
// not match data at all.
type Selector func(data any) any

// Compile builds a Selector from a path expression (the same container/
// list literal shape PathMap path expressions use). odlKludge enables the
// ODL-compatibility kludge described in spec.md §4.9: module-prefix
// stripping on container keys, and unwrapping a superfluous wrapper whose
// entry under the same stripped key holds a list (see unwrapODLList).
func Compile(path any, odlKludge bool) Selector {
	switch p := path.(type) {
	case map[string]any:
		return compileDict(p, odlKludge)
	case []any:
		return compileList(p, odlKludge)
	default:
		return identity
	}
}

func identity(data any) any { return data }

func stripPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

func compileDict(path map[string]any, odlKludge bool) Selector {
	if len(path) == 0 {
		return identity
	}

	match := make(map[string]string) // selected-key -> atomic value, stringified
	type sub struct {
		originalKey string
		sel         Selector
	}
	var structured []sub

	for key, v := range path {
		selKey := key
		if odlKludge {
			selKey = stripPrefix(key)
			v = unwrapODLList(v, selKey)
		}
		if isStructured(v) {
			structured = append(structured, sub{originalKey: selKey, sel: Compile(v, odlKludge)})
		} else {
			match[selKey] = stringify(v)
		}
	}

	matches := func(data map[string]any) bool {
		for k, want := range match {
			got, ok := data[k]
			if !ok || stringify(got) != want {
				return false
			}
		}
		return true
	}

	switch len(structured) {
	case 0:
		return func(data any) any {
			m, ok := data.(map[string]any)
			if !ok || !matches(m) {
				return nil
			}
			return data
		}
	case 1:
		only := structured[0]
		return func(data any) any {
			m, ok := data.(map[string]any)
			if !ok || !matches(m) {
				return nil
			}
			return only.sel(m[only.originalKey])
		}
	default:
		return func(data any) any {
			m, ok := data.(map[string]any)
			if !ok || !matches(m) {
				return nil
			}
			out := make(map[string]any)
			for _, s := range structured {
				if v := s.sel(m[s.originalKey]); v != nil {
					out[s.originalKey] = v
				}
			}
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// unwrapODLList corrects a known ODL path-formation error: a list selector
// wrapped in a superfluous object selector carrying the same (stripped)
// identifier, e.g. {"foo:bar": {"bar": [...]}} meaning the same as plain
// {"foo:bar": [...]}. Only a structured value whose sole matching sub-key
// holds a list is unwrapped; anything else passes through unchanged.
func unwrapODLList(v any, strippedKey string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	inner, ok := m[strippedKey]
	if !ok {
		return v
	}
	if _, isList := inner.([]any); !isList {
		return v
	}
	return inner
}

func compileList(path []any, odlKludge bool) Selector {
	if len(path) == 0 {
		return identity
	}

	subSelectors := make([]Selector, len(path))
	for i, item := range path {
		subSelectors[i] = Compile(item, odlKludge)
	}

	if len(subSelectors) == 1 {
		sel := subSelectors[0]
		return func(data any) any {
			arr, ok := data.([]any)
			if !ok {
				return nil
			}
			for _, item := range arr {
				if v := sel(item); v != nil {
					return v
				}
			}
			return nil
		}
	}

	return func(data any) any {
		arr, ok := data.([]any)
		if !ok {
			return nil
		}
		var out []any
		for _, sel := range subSelectors {
			for _, item := range arr {
				if v := sel(item); v != nil {
					out = append(out, v)
				}
			}
		}
		if out == nil {
			return nil
		}
		return out
	}
}

func isStructured(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
