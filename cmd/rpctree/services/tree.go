package services

import (
	"encoding/json"

	"github.com/richard-senior/rpctree/pkg/datatree"
	"github.com/richard-senior/rpctree/pkg/rpc"
)

// NewTree returns a service exposing the data-tree transaction façade's
// RPC surface - read/exists/txid/put/merge/delete/commit/cancel/error -
// over store, ported from openswitch_data.Service and
// openswitch_rpc.Service, generalized away from CPS onto a pluggable
// datatree.Store.
func NewTree(store datatree.Store) *rpc.MethodTable {
	f := datatree.NewFacade(store)
	t := rpc.NewMethodTable()

	t.Sync["txid"] = func(params json.RawMessage) (any, error) {
		return f.Txid(), nil
	}

	t.Sync["read"] = func(params json.RawMessage) (any, error) {
		var storeName, entity string
		var path any
		if err := rpc.Bind(params, []string{"store", "entity", "path"}, &storeName, &entity, &path); err != nil {
			return nil, err
		}
		v, ok := f.Read(storeName, entity, path)
		if !ok {
			return nil, nil
		}
		return v, nil
	}

	t.Sync["exists"] = func(params json.RawMessage) (any, error) {
		var storeName, entity string
		var path any
		if err := rpc.Bind(params, []string{"store", "entity", "path"}, &storeName, &entity, &path); err != nil {
			return nil, err
		}
		return f.Exists(storeName, entity, path), nil
	}

	t.Sync["put"] = func(params json.RawMessage) (any, error) {
		var txid, storeName, entity string
		var path, data any
		if err := rpc.Bind(params, []string{"txid", "store", "entity", "path", "data"}, &txid, &storeName, &entity, &path, &data); err != nil {
			return nil, err
		}
		return nil, f.Put(txid, storeName, entity, path, data)
	}

	t.Sync["merge"] = func(params json.RawMessage) (any, error) {
		var txid, storeName, entity string
		var path, data any
		if err := rpc.Bind(params, []string{"txid", "store", "entity", "path", "data"}, &txid, &storeName, &entity, &path, &data); err != nil {
			return nil, err
		}
		return nil, f.Merge(txid, storeName, entity, path, data)
	}

	t.Sync["delete"] = func(params json.RawMessage) (any, error) {
		var txid, storeName, entity string
		var path any
		if err := rpc.Bind(params, []string{"txid", "store", "entity", "path"}, &txid, &storeName, &entity, &path); err != nil {
			return nil, err
		}
		return nil, f.Delete(txid, storeName, entity, path)
	}

	t.Sync["commit"] = func(params json.RawMessage) (any, error) {
		var txid string
		if err := rpc.Bind(params, []string{"txid"}, &txid); err != nil {
			return nil, err
		}
		return f.Commit(txid)
	}

	t.Sync["cancel"] = func(params json.RawMessage) (any, error) {
		var txid string
		if err := rpc.Bind(params, []string{"txid"}, &txid); err != nil {
			return nil, err
		}
		if err := f.Cancel(txid); err != nil {
			return nil, err
		}
		return true, nil
	}

	t.Sync["error"] = func(params json.RawMessage) (any, error) {
		var txid string
		if err := rpc.Bind(params, []string{"txid"}, &txid); err != nil {
			return nil, err
		}
		return nil, f.Error(txid)
	}

	return t
}
