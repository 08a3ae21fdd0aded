package pathmap

// Container is an ordered mapping from key to child node (another
// Container, a List, or an atomic leaf value), with its own meta/data/
// validator slots.
type Container struct {
	metaMixin
	keys     []string
	children map[string]any
}

// NewContainer returns an empty container node.
func NewContainer() *Container {
	return &Container{children: make(map[string]any)}
}

// Get returns the child stored at key, if any.
func (c *Container) Get(key string) (any, bool) {
	v, ok := c.children[key]
	return v, ok
}

// Set stores value as the child at key, preserving first-insertion order
// for Keys().
func (c *Container) Set(key string, value any) {
	if _, exists := c.children[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.children[key] = value
}

// Delete removes the child at key, if present.
func (c *Container) Delete(key string) {
	if _, exists := c.children[key]; !exists {
		return
	}
	delete(c.children, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the container's child keys in insertion order.
func (c *Container) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len reports the number of children.
func (c *Container) Len() int { return len(c.keys) }
