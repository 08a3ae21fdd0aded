package datatree

import (
	"sync"

	"github.com/richard-senior/rpctree/pkg/pathmap"
)

// MemStore is an in-memory Store backed by a pathmap.PathMap, supplying the
// default/demo backing store so Facade is exercisable without an external
// collaborator. spec.md's Non-goals exclude persistence but say nothing
// against an in-memory demonstrator; modeled on keyval.py's
// self._store = {} flat key/value pattern, generalized to the full path
// shape a Facade operation carries.
type MemStore struct {
	mu   sync.Mutex
	tree *pathmap.PathMap
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{tree: pathmap.New()}
}

// Read looks up the node at path, without creating anything, and returns
// its current plain-data projection.
func (s *MemStore) Read(path any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.tree.MapNode(path)
	if node == nil {
		return nil, false
	}
	return pathmap.NodeToData(node)
}

// Commit applies every operation in ops in order, never rejecting: an
// in-memory demonstrator has no independent notion of a create/set
// distinction to enforce, so it always reports success, which in turn
// means a MemStore-backed Facade never exercises the commit-retry path -
// that is reserved for a Store, such as SQLiteStore, with an actual
// create/set distinction to violate.
func (s *MemStore) Commit(ops []Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		switch op.Kind {
		case OpCreate, OpSet, OpAction:
			node, err := s.tree.Create(op.Path)
			if err != nil {
				continue
			}
			if c, ok := node.(*pathmap.Container); ok {
				c.SetData(op.Data)
			}
		case OpDelete:
			deleteAtPath(s.tree.Root(), op.Path)
		}
	}
	return true
}

// deleteAtPath removes the child named by the last key of path from its
// parent container. Like Handler.Rewrite, it does not support descending
// into list elements.
func deleteAtPath(root *pathmap.Container, path any) {
	pm, ok := path.(map[string]any)
	if !ok {
		return
	}
	key, next, ok := pathmap.PopOne(pm)
	if !ok {
		return
	}
	if isEmptyPathLiteral(next) {
		root.Delete(key)
		return
	}
	child, exists := root.Get(key)
	if !exists {
		return
	}
	if c, ok := child.(*pathmap.Container); ok {
		deleteAtPath(c, next)
	}
}
