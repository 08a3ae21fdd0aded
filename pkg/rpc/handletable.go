package rpc

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// record is the per-handle state held by a handleTable. At most one of
// hasResult/hasError is ever true - the invariant spec.md §3 names for the
// async handle table.
type record struct {
	hasResult bool
	result    any
	hasError  bool
	err       *Error
}

// handleTable is the single shared mutable structure between an async
// method's producer goroutine and the dispatcher collecting a response.
// All three operations named in spec.md §5 (insert-pending,
// record-result/error, read-and-remove-on-collect) are atomic with respect
// to each other, here via a single mutex per Service instance.
type handleTable struct {
	mu      sync.Mutex
	pending map[string]*record
}

func newHandleTable() *handleTable {
	return &handleTable{pending: make(map[string]*record)}
}

// allocate returns the handle to use for an async call given the client's
// requested async value: the literal boolean true allocates a fresh UUID
// v4 handle; any other value is adopted as a client-chosen handle, using
// the same stringification handleKey (dispatcher.go) applies when it
// later looks that handle back up - a JSON number or other scalar is
// stringified rather than discarded in favour of a random UUID.
func allocate(requested any) string {
	if b, ok := requested.(bool); ok && b {
		return uuid.NewString()
	}
	if s, ok := requested.(string); ok {
		return s
	}
	return fmt.Sprint(requested)
}

// has reports whether handle names a known (pending or terminal) record.
func (t *handleTable) has(handle string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[handle]
	return ok
}

// insertPending creates an empty pending record for handle, before the
// implementation is invoked, per spec.md §4.5.
func (t *handleTable) insertPending(handle string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[handle] = &record{}
}

// recordResult sets the terminal result for handle. A result or error
// delivered after the handle has already gone terminal (or been collected)
// is silently ignored, per spec.md §5 invariant 2.
func (t *handleTable) recordResult(handle string, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.pending[handle]
	if !ok || r.hasResult || r.hasError {
		return
	}
	r.hasResult = true
	r.result = v
}

// recordError sets the terminal error for handle.
func (t *handleTable) recordError(handle string, err *Error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.pending[handle]
	if !ok || r.hasResult || r.hasError {
		return
	}
	r.hasError = true
	r.err = err
}

// collectOutcome is the three-way result of collect.
type collectOutcome int

const (
	collectNotFound collectOutcome = iota
	collectPending
	collectResult
	collectError
)

// collect reads and, if terminal, atomically removes the record for
// handle. A collection on an unknown handle returns collectNotFound so the
// dispatcher can fall through to the async-dispatch path, per spec.md §5
// invariant 3.
func (t *handleTable) collect(handle string) (collectOutcome, any, *Error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.pending[handle]
	if !ok {
		return collectNotFound, nil, nil
	}
	if r.hasError {
		delete(t.pending, handle)
		return collectError, nil, r.err
	}
	if r.hasResult {
		delete(t.pending, handle)
		return collectResult, r.result, nil
	}
	return collectPending, nil, nil
}
