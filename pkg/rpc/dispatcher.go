package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/richard-senior/rpctree/internal/logger"
)

// Dispatcher is the C5 service dispatcher: it parses a request string,
// resolves a method to sync or async, invokes it, manages active async
// handles, and serializes the response. Each Dispatcher owns its own
// handle table, per spec.md §9 ("each service instance owns its own
// handle table").
type Dispatcher struct {
	service Service
	table   *handleTable
}

// NewDispatcher wraps service in a Dispatcher with a fresh handle table.
func NewDispatcher(service Service) *Dispatcher {
	return &Dispatcher{service: service, table: newHandleTable()}
}

// HandleRequest is the dispatcher's sole public contract: decode a request
// string, produce a response string. It never panics or returns an error;
// every failure is classified into a wire Error first, per spec.md §7.
func (d *Dispatcher) HandleRequest(raw []byte) []byte {
	resp := d.dispatch(raw)
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to marshal response: %v", err)
		fallback := errorResponse(nil, InternalError(err.Error()))
		b, _ = json.Marshal(fallback)
	}
	return b
}

func (d *Dispatcher) dispatch(raw []byte) (resp *Response) {
	var id any
	// An implementation that panics is answered as an internal error
	// instead of unwinding through HandleRequest.
	defer func() {
		if r := recover(); r != nil {
			resp = errorResponse(id, InternalError(fmt.Sprint(r)))
		}
	}()

	req, ferr := FormRequest(raw)
	if ferr != nil {
		// Parse and validation failures both echo id: null, per spec.md §3.
		return errorResponse(nil, ferr)
	}
	id = req.ID

	var asyncVal any
	if req.Metadata != nil {
		asyncVal = req.Metadata.Async
	}

	// Collection shortcut (spec.md §4.2 step 4): a known handle always
	// goes to collection regardless of whether it is also resolvable as a
	// method name.
	if key, ok := handleKey(asyncVal); ok && d.table.has(key) {
		return d.collect(req.ID, key)
	}

	if isTruthy(asyncVal) {
		if fn := d.service.ResolveAsync(req.Method); fn != nil {
			return d.invokeAsync(req, fn, asyncVal)
		}
		// Truthy async requested but no async implementation: fall
		// through to sync dispatch, then method-not-found, exactly as
		// the source does (async is a request, not a guarantee).
	}

	if fn := d.service.ResolveSync(req.Method); fn != nil {
		return d.invokeSync(req, fn)
	}

	return errorResponse(req.ID, MethodNotFoundError(req.Method))
}

func (d *Dispatcher) invokeSync(req *Request, fn SyncFunc) *Response {
	result, err := fn(req.Params)
	if err != nil {
		return errorResponse(req.ID, classify(err))
	}
	resp, merr := resultResponse(req.ID, result)
	if merr != nil {
		return errorResponse(req.ID, InternalError(merr.Error()))
	}
	return resp
}

func (d *Dispatcher) invokeAsync(req *Request, fn AsyncFunc, requested any) *Response {
	handle := allocate(requested)
	// The pending record must exist before the implementation runs, so a
	// collection racing an immediately-completing implementation never
	// observes "unknown handle".
	d.table.insertPending(handle)
	if err := fn(d.recorder(), handle, req.Params); err != nil {
		d.table.recordError(handle, classify(err))
	}
	return d.collect(req.ID, handle)
}

func (d *Dispatcher) collect(id any, handle string) *Response {
	switch outcome, result, err := d.table.collect(handle); outcome {
	case collectError:
		return errorResponse(id, err)
	case collectResult:
		resp, merr := resultResponse(id, result)
		if merr != nil {
			return errorResponse(id, InternalError(merr.Error()))
		}
		return resp
	default:
		// collectPending (implementation left it open) or collectNotFound
		// (can only happen for a stale handle removed between the shortcut
		// check and here, which insertPending above rules out for the
		// invocation path); either way the caller must keep polling.
		return pendingResponse(id, handle)
	}
}

func (d *Dispatcher) recorder() AsyncRecorder {
	return asyncRecorder{table: d.table}
}

type asyncRecorder struct {
	table *handleTable
}

func (r asyncRecorder) Result(handle string, v any) { r.table.recordResult(handle, v) }
func (r asyncRecorder) Error(handle string, err *Error) {
	if err == nil {
		err = InternalError("error() called with nil error")
	}
	r.table.recordError(handle, err)
}

// handleKey reports the table key a decoded metadata.async value would use,
// and whether it is even handle-shaped (strings and non-boolean scalars
// are; nil and booleans are not, per spec.md §9's final Open Question).
func handleKey(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", false
	case string:
		return t, true
	default:
		return fmt.Sprint(t), true
	}
}

// isTruthy reports whether a decoded metadata.async value requests async
// dispatch: the boolean true, or any non-boolean, non-nil value (adopted
// as a client-chosen handle). The boolean false and absence are
// synchronous, per spec.md §9's final Open Question.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}
