package datatree

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/richard-senior/rpctree/pkg/pathmap"
	"github.com/richard-senior/rpctree/pkg/rpc"
)

// Facade is the data-tree transaction façade (C7): it owns a transaction
// map keyed by txid, a path map of Handlers consulted to rewrite paths
// before they reach store, and the backing Store itself. One Facade is
// created per service instance, per spec.md §5's "own handle table and
// transaction map" per-instance rule.
//
// Ported from openswitch_data.Service, generalized away from CPS: store and
// entity are accepted (mirroring the source's "we ignore store and entity
// for the moment" comments throughout) but not yet used to select among
// multiple backing stores.
type Facade struct {
	mu     sync.Mutex
	routes *pathmap.PathMap
	store  Store
	tx     map[string]*transaction
}

// NewFacade returns a Facade backed by store, with the default pass-through
// Handler registered at the root.
func NewFacade(store Store) *Facade {
	f := &Facade{
		routes: pathmap.New(),
		store:  store,
		tx:     make(map[string]*transaction),
	}
	f.routes.Metadata(map[string]any{}, NewHandler())
	return f
}

// Register attaches a rewrite Handler to the subtree rooted at path,
// mirroring a REMAP entry: every operation whose path descends from here
// has strip stripped off the front and is re-rooted under add.
func (f *Facade) Register(path any, strip, add any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes.Metadata(path, NewRewriteHandler(strip, add))
}

func (f *Facade) handlerFor(path any) *Handler {
	v, _ := f.routes.Metadata(path)
	if h, ok := v.(*Handler); ok && h != nil {
		return h
	}
	return NewHandler()
}

// Txid allocates a fresh transaction identifier, re-rolling on collision,
// per spec.md §4.10, and ported from openswitch_data.Service.txid.
func (f *Facade) Txid() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	for f.tx[id] != nil {
		id = uuid.NewString()
	}
	f.tx[id] = &transaction{}
	return id
}

func (f *Facade) txnFor(txid string) (*transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tx[txid]
	if !ok {
		return nil, fmt.Errorf("datatree: unknown transaction %q", txid)
	}
	return t, nil
}

// Read resolves path through the registered handler and the backing store.
// store/entity select among multiple backing collections in a richer
// deployment; this façade drives a single Store so they are accepted but
// unused, matching the source's own placeholder comment.
func (f *Facade) Read(store, entity string, path any) (any, bool) {
	rewritten := f.handlerFor(path).Rewrite(path)
	return f.store.Read(rewritten)
}

// Exists reports whether Read resolves path to a value.
func (f *Facade) Exists(store, entity string, path any) bool {
	_, ok := f.Read(store, entity, path)
	return ok
}

// Put appends a create operation to txid's buffer.
func (f *Facade) Put(txid, store, entity string, path, data any) error {
	t, err := f.txnFor(txid)
	if err != nil {
		return err
	}
	h := f.handlerFor(path)
	t.put(path, h.Rewrite(path), data)
	return nil
}

// Merge appends a set operation to txid's buffer (a no-op when data is an
// empty object).
func (f *Facade) Merge(txid, store, entity string, path, data any) error {
	t, err := f.txnFor(txid)
	if err != nil {
		return err
	}
	h := f.handlerFor(path)
	t.merge(path, h.Rewrite(path), data)
	return nil
}

// Action appends an action operation to txid's buffer, for RPC-style
// methods that map onto the backing store's native operations (ported
// from openswitch_rpc.Service's rpc() calls).
func (f *Facade) Action(txid, store, entity string, path, data any) error {
	t, err := f.txnFor(txid)
	if err != nil {
		return err
	}
	h := f.handlerFor(path)
	t.action(path, h.Rewrite(path), data)
	return nil
}

// Delete appends a delete operation to txid's buffer.
func (f *Facade) Delete(txid, store, entity string, path any) error {
	t, err := f.txnFor(txid)
	if err != nil {
		return err
	}
	h := f.handlerFor(path)
	t.delete(h.Rewrite(path))
	return nil
}

// Commit applies txid's buffer through store, retrying once with every
// create downgraded to set if the backing store rejects the first attempt.
// It consumes the transaction on either outcome, matching spec.md §4.10's
// "transactions are ... destroyed on commit".
func (f *Facade) Commit(txid string) (bool, error) {
	t, err := f.txnFor(txid)
	if err != nil {
		return false, err
	}
	ok := t.commit(f.store)
	f.mu.Lock()
	delete(f.tx, txid)
	f.mu.Unlock()
	return ok, nil
}

// Cancel drops txid's transaction without committing it.
func (f *Facade) Cancel(txid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tx[txid]; !ok {
		return fmt.Errorf("datatree: unknown transaction %q", txid)
	}
	delete(f.tx, txid)
	return nil
}

// Error is reserved for extended error information and is deliberately
// unimplemented - spec.md §9 resolves the Open Question in favour of the
// generic not-supported classification, mirroring openswitch_data.Service's
// NotImplementedError.
func (f *Facade) Error(txid string) error {
	return &rpc.NotSupported{}
}
