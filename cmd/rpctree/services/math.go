package services

import (
	"encoding/json"
	"math"

	"github.com/richard-senior/rpctree/pkg/rpc"
)

// NewMath returns a service exposing add/subtract/min/max, ported from
// math.py's self.methods dict of lambdas. Deliberately omits "divide" -
// spec.md §8's scenario 4 exercises method-not-found against it.
func NewMath() *rpc.MethodTable {
	t := rpc.NewMethodTable()
	t.Sync["add"] = binaryOp(func(a, b float64) float64 { return a + b })
	t.Sync["subtract"] = binaryOp(func(a, b float64) float64 { return a - b })
	t.Sync["min"] = binaryOp(math.Min)
	t.Sync["max"] = binaryOp(math.Max)
	return t
}

func binaryOp(f func(a, b float64) float64) rpc.SyncFunc {
	return func(params json.RawMessage) (any, error) {
		var a, b float64
		if err := rpc.Bind(params, []string{"a", "b"}, &a, &b); err != nil {
			return nil, err
		}
		return f(a, b), nil
	}
}
