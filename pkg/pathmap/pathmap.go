package pathmap

import "fmt"

// PathMap is a tree of Container and List nodes rooted at an always-present
// Container. It supports four operations over a path expression: Create,
// MapNode, MapNodeInCharge and Metadata, per spec.md §4.8.
type PathMap struct {
	root *Container
}

// New returns an empty PathMap.
func New() *PathMap {
	return &PathMap{root: NewContainer()}
}

// Root returns the map's root container.
func (p *PathMap) Root() *Container { return p.root }

// Create materializes every node along path, creating containers and list
// elements as required; it is a no-op where they already exist.
func (p *PathMap) Create(path any) (any, error) {
	return doElement(p.root, path, true, false)
}

// MapNode returns the node at path exactly, or nil if no such node exists.
// Unlike MapNodeInCharge it never falls back to an ancestor.
func (p *PathMap) MapNode(path any) any {
	n, _ := doElement(p.root, path, false, false)
	return n
}

// MapNodeInCharge walks as far as path allows; on a dead end it returns
// the deepest ancestor actually present, per the inheritance-aware lookup
// spec.md §3 calls "mapnode_in_charge".
func (p *PathMap) MapNodeInCharge(path any) any {
	n, _ := doElement(p.root, path, false, true)
	return n
}

// Metadata, called with no value, returns the meta set at path honoring
// inheritance (falling back to the deepest ancestor's meta, ultimately the
// root's, if nothing closer was set). Called with a value, it sets meta at
// path, creating the path if needed, and returns that value.
func (p *PathMap) Metadata(path any, value ...any) (any, error) {
	create := len(value) > 0
	node, err := doElement(p.root, path, create, true)
	if err != nil {
		return nil, err
	}
	mm := metaOf(node)
	if mm == nil {
		return nil, nil
	}
	if create {
		mm.SetMeta(value[0])
	}
	return mm.Meta(), nil
}

func metaOf(node any) *metaMixin {
	switch n := node.(type) {
	case *Container:
		return &n.metaMixin
	case *List:
		return &n.metaMixin
	default:
		return nil
	}
}

// doElement dispatches a path-expression walk step to the container or
// list handler according to the node's runtime type, mirroring the
// source's _do_element.
func doElement(node any, path any, create, inherit bool) (any, error) {
	switch n := node.(type) {
	case *Container:
		return doContainer(n, path, create, inherit)
	case *List:
		return doList(n, path, create, inherit)
	default:
		return nil, fmt.Errorf("pathmap: cannot descend into a leaf value")
	}
}

// newChildFor decides what kind of node to materialize for a not-yet-
// present child, based on the shape of the path expression that is about
// to descend into it: a list literal creates a List, anything else a
// Container.
func newChildFor(nextItem any) any {
	if _, ok := nextItem.([]any); ok {
		return NewList(nil)
	}
	return NewContainer()
}

func doContainer(c *Container, path any, create, inherit bool) (any, error) {
	if path == nil {
		return c, nil
	}
	pm, ok := path.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pathmap: expected a container path literal")
	}
	key, nextItem, ok := popOne(pm)
	if !ok {
		return c, nil
	}

	if create && nextItem != nil && !isStructured(nextItem) {
		// An atomic pair value is a leaf: it is stored directly as the child
		// at key rather than materialized as a node to descend into.
		c.Set(key, nextItem)
		return nextItem, nil
	}

	child, exists := c.Get(key)
	if !exists {
		if !create {
			if inherit {
				return c, nil
			}
			return nil, nil
		}
		child = newChildFor(nextItem)
		c.Set(key, child)
	}

	result, err := doElement(child, nextItem, create, inherit)
	if err != nil {
		return nil, err
	}
	if result == nil && inherit {
		return c, nil
	}
	return result, nil
}

// splitPathItem separates a list path-literal's single element into its
// atomic match keys (used to locate an existing element) and its one
// structured descent pair (used to go deeper once located), per the
// glossary's "match keys / descent key".
func splitPathItem(item map[string]any) (matchKeys map[string]any, descentKey string, descentVal any, hasDescent bool) {
	matchKeys = make(map[string]any)
	for k, v := range item {
		if isStructured(v) {
			descentKey, descentVal, hasDescent = k, v, true
		} else {
			matchKeys[k] = v
		}
	}
	return
}

func doList(l *List, path any, create, inherit bool) (any, error) {
	if path == nil {
		return l, nil
	}
	arr, ok := path.([]any)
	if !ok {
		return nil, fmt.Errorf("pathmap: expected a list path literal")
	}
	if len(arr) == 0 {
		return l, nil
	}
	item, ok := arr[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pathmap: list path literal element must be a container")
	}

	matchKeys, descentKey, descentVal, hasDescent := splitPathItem(item)
	elem := l.Lookup(matchKeys)
	if elem == nil {
		if !create {
			if inherit {
				return l, nil
			}
			return nil, nil
		}
		elem = NewContainer()
		for k, v := range matchKeys {
			elem.Set(k, v)
		}
		if err := l.Append(elem); err != nil {
			return nil, err
		}
	}

	if !hasDescent {
		return elem, nil
	}

	child, exists := elem.Get(descentKey)
	if !exists {
		if !create {
			if inherit {
				return elem, nil
			}
			return nil, nil
		}
		child = newChildFor(descentVal)
		elem.Set(descentKey, child)
	}

	result, err := doElement(child, descentVal, create, inherit)
	if err != nil {
		return nil, err
	}
	if result == nil && inherit {
		return elem, nil
	}
	return result, nil
}
