package rpc

import "encoding/json"

// SyncFunc is a synchronously invoked method implementation. It returns its
// result directly; any error is classified by the dispatcher per spec.md
// §4.4.
type SyncFunc func(params json.RawMessage) (any, error)

// AsyncFunc is an asynchronously invoked method implementation. It receives
// the handle allocated for this call and an AsyncRecorder to deliver the
// eventual result or error through. It may call rec.Result/rec.Error
// synchronously before returning (immediate completion) or it may retain
// handle and rec and complete the call later from another goroutine,
// leaving the call pending when it returns. A non-nil return value is
// classified like a sync failure (a BindError becomes invalid-params,
// anything else an internal error) and recorded as the call's error.
type AsyncFunc func(rec AsyncRecorder, handle string, params json.RawMessage) error

// AsyncRecorder is the sole write surface async implementations use to
// resolve a pending call. It is the Go analogue of the source's
// result_async/error_async methods.
type AsyncRecorder interface {
	Result(handle string, v any)
	Error(handle string, err *Error)
}

// Service is the capability set a dispatcher is polymorphic over, per
// spec.md §9: resolve-sync(name)→fn?, resolve-async(name)→fn?. A method may
// have a sync implementation, an async implementation, both, or neither.
type Service interface {
	ResolveSync(method string) SyncFunc
	ResolveAsync(method string) AsyncFunc
}

// MethodTable is a ready-made Service backed by two name→function maps,
// mirroring the source's Service.methods / Service.methods_async dicts.
// Most services can simply construct one of these rather than implementing
// Service directly.
type MethodTable struct {
	Sync  map[string]SyncFunc
	Async map[string]AsyncFunc
}

// NewMethodTable returns an empty MethodTable ready for registration.
func NewMethodTable() *MethodTable {
	return &MethodTable{
		Sync:  make(map[string]SyncFunc),
		Async: make(map[string]AsyncFunc),
	}
}

func (t *MethodTable) ResolveSync(method string) SyncFunc   { return t.Sync[method] }
func (t *MethodTable) ResolveAsync(method string) AsyncFunc { return t.Async[method] }
