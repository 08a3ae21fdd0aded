// Package services holds the demo JSON-RPC services the rpctree CLI can
// launch, making spec.md §8's boundary scenarios runnable end to end.
package services

import (
	"encoding/json"

	"github.com/richard-senior/rpctree/pkg/rpc"
)

// NewEcho returns a service exposing a single "echo" method: it returns
// its named arguments if any were given, else its positional arguments.
// Ported from echo.py's `kwargs if kwargs else args`.
func NewEcho() *rpc.MethodTable {
	t := rpc.NewMethodTable()
	t.Sync["echo"] = func(params json.RawMessage) (any, error) {
		if len(params) == 0 {
			return []any{}, nil
		}
		var probe any
		if err := json.Unmarshal(params, &probe); err != nil {
			return nil, &rpc.BindError{Detail: "params is not valid JSON"}
		}
		switch v := probe.(type) {
		case map[string]any:
			if len(v) > 0 {
				return v, nil
			}
			return []any{}, nil
		case []any:
			return v, nil
		default:
			return []any{v}, nil
		}
	}
	return t
}
