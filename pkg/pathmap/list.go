package pathmap

import (
	"fmt"
	"strings"
)

// List is an ordered sequence of Container elements, with an optional
// tuple of key fields and a secondary index mapping the composite key
// tuple to its element. When key fields are set, insertion rejects
// duplicate keys and every element is indexed; otherwise lookup falls
// back to a linear scan matching every supplied key.
type List struct {
	metaMixin
	keyFields []string
	elements  []*Container
	index     map[string]*Container
}

// NewList returns an empty list node. keyFields may be nil/empty, in
// which case the list never uses the secondary index.
func NewList(keyFields []string) *List {
	return &List{keyFields: keyFields, index: make(map[string]*Container)}
}

// Elements returns the list's elements in order.
func (l *List) Elements() []*Container {
	out := make([]*Container, len(l.elements))
	copy(out, l.elements)
	return out
}

// Len reports the number of elements.
func (l *List) Len() int { return len(l.elements) }

// formKey builds the composite index key from vals, using the list's
// configured key fields. ok is false if vals does not cover every key
// field.
func (l *List) formKey(vals map[string]any) (key string, ok bool) {
	if len(l.keyFields) == 0 {
		return "", false
	}
	parts := make([]string, len(l.keyFields))
	for i, k := range l.keyFields {
		v, present := vals[k]
		if !present {
			return "", false
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\x00"), true
}

// Append adds elem to the list. If the list has key fields configured and
// elem carries values for all of them, it is indexed; a composite-key
// collision with an existing element fails with ErrDuplicateKey.
func (l *List) Append(elem *Container) error {
	if len(l.keyFields) > 0 {
		vals := make(map[string]any, len(l.keyFields))
		for _, k := range l.keyFields {
			if v, ok := elem.Get(k); ok {
				vals[k] = v
			}
		}
		if key, ok := l.formKey(vals); ok {
			if _, exists := l.index[key]; exists {
				return ErrDuplicateKey
			}
			l.index[key] = elem
		}
	}
	l.elements = append(l.elements, elem)
	return nil
}

// Lookup returns the element matching every key in match: via the
// secondary index when match covers the configured key fields, otherwise
// via a linear scan requiring every key in match to be present and equal
// on a candidate element.
func (l *List) Lookup(match map[string]any) *Container {
	if len(l.keyFields) > 0 {
		if key, ok := l.formKey(match); ok {
			return l.index[key]
		}
	}
	for _, e := range l.elements {
		if elementMatches(e, match) {
			return e
		}
	}
	return nil
}

func elementMatches(c *Container, match map[string]any) bool {
	for k, want := range match {
		got, ok := c.Get(k)
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// ErrDuplicateKey is returned by Append when a new element's composite key
// collides with an existing indexed element.
var ErrDuplicateKey = fmt.Errorf("duplicate key")
