package pathmap

// ToData projects the PathMap into a plain nested structure of
// map[string]any / []any / leaf values, per spec.md §4.8's "Rendering".
func (p *PathMap) ToData() any {
	v, present := toData(p.root)
	if !present {
		return map[string]any{}
	}
	return v
}

// toData returns the projection of node, and whether that projection
// should be present at all in its parent's mapping: an empty container
// with no data value is dropped from its parent rather than appearing as
// an empty map.
func toData(node any) (any, bool) {
	switch n := node.(type) {
	case *Container:
		return containerToData(n)
	case *List:
		return listToData(n), true
	default:
		return n, true
	}
}

// NodeToData projects a single node exactly as ToData projects the whole
// map, for callers (such as datatree.MemStore) that resolve a node with
// MapNode and then need its plain-data rendering rather than the whole
// tree's.
func NodeToData(node any) (any, bool) {
	return toData(node)
}

func containerToData(c *Container) (any, bool) {
	out := make(map[string]any, c.Len())
	for _, key := range c.Keys() {
		child, _ := c.Get(key)
		v, present := toData(child)
		if present {
			out[key] = v
		}
	}
	if len(out) == 0 {
		if c.Data() != nil {
			return c.Data(), true
		}
		return nil, false
	}
	return out, true
}

func listToData(l *List) any {
	out := make([]any, 0, l.Len())
	for _, elem := range l.Elements() {
		v, present := containerToData(elem)
		if present {
			out = append(out, v)
		} else {
			out = append(out, map[string]any{})
		}
	}
	return out
}
