package rpc

import (
	"encoding/json"
	"fmt"
)

// Bind decodes raw JSON-RPC params (positional array or named object) into
// dests according to names, following spec.md §4.3/§9: each method declares
// an ordered parameter schema once, and binding failures surface as
// invalid-params carrying the mismatch detail.
//
// When params is a list, dests are filled positionally and the list length
// must equal len(names). When params is an object, each name must be
// present as a key and no unrecognized keys may be present. Absent params
// binds as an empty call (len(names) must be 0).
func Bind(raw json.RawMessage, names []string, dests ...any) error {
	if len(names) != len(dests) {
		return fmt.Errorf("internal: %d names for %d destinations", len(names), len(dests))
	}

	if len(raw) == 0 {
		if len(names) != 0 {
			return &BindError{Detail: fmt.Sprintf("expected %d argument(s), got none", len(names))}
		}
		return nil
	}

	var probe any
	if err := decode(raw, &probe); err != nil {
		return &BindError{Detail: "params is not valid JSON: " + err.Error()}
	}

	switch probe.(type) {
	case []any:
		arr, err := requireArrayParams(raw)
		if err != nil {
			return &BindError{Detail: err.Error()}
		}
		if len(arr) != len(names) {
			return &BindError{Detail: fmt.Sprintf("expected %d positional argument(s), got %d", len(names), len(arr))}
		}
		for i, dest := range dests {
			b, err := json.Marshal(arr[i])
			if err != nil {
				return &BindError{Detail: err.Error()}
			}
			if err := json.Unmarshal(b, dest); err != nil {
				return &BindError{Detail: fmt.Sprintf("argument %d (%s): %s", i, names[i], err)}
			}
		}
		return nil
	case map[string]any, nil:
		obj, err := requireObjectParams(raw)
		if err != nil {
			return &BindError{Detail: err.Error()}
		}
		for key := range obj {
			if !contains(names, key) {
				return &BindError{Detail: fmt.Sprintf("unexpected parameter %q", key)}
			}
		}
		for i, name := range names {
			v, ok := obj[name]
			if !ok {
				return &BindError{Detail: fmt.Sprintf("missing parameter %q", name)}
			}
			b, err := json.Marshal(v)
			if err != nil {
				return &BindError{Detail: err.Error()}
			}
			if err := json.Unmarshal(b, dests[i]); err != nil {
				return &BindError{Detail: fmt.Sprintf("parameter %q: %s", name, err)}
			}
		}
		return nil
	default:
		return &BindError{Detail: "params must be an array or an object"}
	}
}

func contains(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
