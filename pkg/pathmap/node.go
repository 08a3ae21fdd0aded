// Package pathmap implements the YANG-style hierarchical path map: a tree
// of containers and keyed lists used to attach per-subtree handlers,
// perform metadata-inheritance lookups, and materialize result trees.
//
// Ported from the distillation source's inocybe_tree.pathmap module.
package pathmap

// metaMixin carries the three per-node slots every PathMap node has:
// meta (handler objects, looked up with inheritance), data (a materialized
// leaf value used when the map doubles as a scratchpad) and an optional
// validator applied whenever data is assigned.
type metaMixin struct {
	meta      any
	data      any
	validator func(any) error
}

func (m *metaMixin) Meta() any     { return m.meta }
func (m *metaMixin) SetMeta(v any) { m.meta = v }
func (m *metaMixin) Data() any     { return m.data }

// SetData assigns data after running the validator, if one is set.
func (m *metaMixin) SetData(v any) error {
	if m.validator != nil {
		if err := m.validator(v); err != nil {
			return err
		}
	}
	m.data = v
	return nil
}

func (m *metaMixin) SetValidator(f func(any) error) { m.validator = f }

// isStructured reports whether a path-expression value descends further
// (a container or list literal) as opposed to matching an atomic value.
func isStructured(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// popOne returns an arbitrary single (key, value) pair from m, or ok=false
// if m is empty. A path-expression container level is expected to carry
// exactly one pair; mirroring the source's no_mayhem_pop, additional pairs
// are tolerated but ignored rather than treated as an error.
func popOne(m map[string]any) (key string, value any, ok bool) {
	for k, v := range m {
		return k, v, true
	}
	return "", nil, false
}

// PopOne exports popOne for callers outside this package that need to walk
// a path expression one level at a time, such as the data-tree façade's
// path-rewrite handler.
func PopOne(m map[string]any) (key string, value any, ok bool) {
	return popOne(m)
}
