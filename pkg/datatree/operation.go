// Package datatree implements the data-tree transaction façade (C7):
// transaction identifiers, an ordered per-transaction operation buffer,
// commit-with-one-retry against a pluggable backing Store, and path-rewrite
// handlers attached through a pathmap.PathMap.
//
// Ported from the distillation source's inocybe_openswitch.cps_parse
// Transaction class and the Handler/Service pattern in
// inocybe_openswitch.openswitch_data / openswitch_rpc.
package datatree

// OperationKind names a buffered change's verb, per spec.md §3's
// Transaction glossary entry: operation ∈ {create, set, action, delete}.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpSet    OperationKind = "set"
	OpAction OperationKind = "action"
	OpDelete OperationKind = "delete"
)

// Operation is one {operation, change} entry of a transaction's ordered
// buffer. OrigPath is the path as the caller supplied it; Path is that path
// after any Handler rewrite; Data is the payload (nil for delete).
type Operation struct {
	Kind     OperationKind
	OrigPath any
	Path     any
	Data     any
}
