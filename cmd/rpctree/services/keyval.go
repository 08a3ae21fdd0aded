package services

import (
	"encoding/json"
	"sync"

	"github.com/richard-senior/rpctree/pkg/rpc"
)

// keyval is a small in-memory key/value store exposing a synchronous set
// and an asynchronous get that blocks, via the handle mechanism, until the
// key is set. Ported from keyval.py's self._store / self._watch pattern:
// sync_set resolves any pending watchers on the key it just wrote,
// async_get returns immediately if the key is already present or else
// registers the call's handle to be resolved by a later set.
type keyval struct {
	mu    sync.Mutex
	store map[string]any
	watch map[string][]watcher
}

type watcher struct {
	handle string
	rec    rpc.AsyncRecorder
}

// NewKeyval returns a service exposing set/del/get.
func NewKeyval() *rpc.MethodTable {
	k := &keyval{store: make(map[string]any), watch: make(map[string][]watcher)}
	t := rpc.NewMethodTable()
	t.Sync["set"] = k.set
	t.Sync["del"] = k.del
	t.Async["get"] = k.get
	return t
}

func (k *keyval) set(params json.RawMessage) (any, error) {
	var key string
	var value any
	if err := rpc.Bind(params, []string{"key", "value"}, &key, &value); err != nil {
		return nil, err
	}

	k.mu.Lock()
	k.store[key] = value
	waiters := k.watch[key]
	delete(k.watch, key)
	k.mu.Unlock()

	for _, w := range waiters {
		w.rec.Result(w.handle, value)
	}
	return nil, nil
}

func (k *keyval) del(params json.RawMessage) (any, error) {
	var key string
	if err := rpc.Bind(params, []string{"key"}, &key); err != nil {
		return nil, err
	}
	k.mu.Lock()
	delete(k.store, key)
	k.mu.Unlock()
	return nil, nil
}

func (k *keyval) get(rec rpc.AsyncRecorder, handle string, params json.RawMessage) error {
	var key string
	if err := rpc.Bind(params, []string{"key"}, &key); err != nil {
		return err
	}

	k.mu.Lock()
	if v, ok := k.store[key]; ok {
		k.mu.Unlock()
		rec.Result(handle, v)
		return nil
	}
	k.watch[key] = append(k.watch[key], watcher{handle: handle, rec: rec})
	k.mu.Unlock()
	return nil
}
