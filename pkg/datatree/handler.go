package datatree

import "github.com/richard-senior/rpctree/pkg/pathmap"

// Handler rewrites a path before it reaches the backing store, attached to
// a PathMap subtree via Facade.Register so unrelated paths pass through
// unchanged. Ported from openswitch_data.Handler/REMAP: it strips a fixed
// prefix literal off the front of the path and re-roots what remains under
// a replacement prefix literal. It does not support looking inside lists.
type Handler struct {
	rewrite   bool
	stripPath any
	addPath   any
}

// NewHandler returns the default, pass-through handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NewRewriteHandler returns a handler that strips strip off path before
// re-rooting it under add, mirroring a REMAP entry.
func NewRewriteHandler(strip, add any) *Handler {
	return &Handler{rewrite: true, stripPath: strip, addPath: add}
}

// Rewrite applies the handler's configured rewrite, or returns path
// unchanged if this handler does not rewrite.
func (h *Handler) Rewrite(path any) any {
	if !h.rewrite {
		return path
	}

	stripped := path
	walk := h.stripPath
	for !isEmptyPathLiteral(walk) {
		key, next, ok := pathmap.PopOne(asPathMap(walk))
		if !ok {
			break
		}
		m, ok := stripped.(map[string]any)
		if !ok {
			break
		}
		stripped = m[key]
		walk = next
	}

	root := map[string]any{}
	cur := root
	walk = h.addPath
	for !isEmptyPathLiteral(walk) {
		key, next, ok := pathmap.PopOne(asPathMap(walk))
		if !ok {
			break
		}
		if isEmptyPathLiteral(next) {
			cur[key] = stripped
		} else {
			child := map[string]any{}
			cur[key] = child
			cur = child
		}
		walk = next
	}
	return root
}

func isEmptyPathLiteral(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case nil:
		return true
	default:
		return false
	}
}

func asPathMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
