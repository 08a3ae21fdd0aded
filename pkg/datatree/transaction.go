package datatree

// transaction is the per-txid ordered operation buffer, ported from
// cps_parse.Transaction. It is store-agnostic: commit just hands the
// buffer to whatever Store the owning Facade was built with.
type transaction struct {
	ops []Operation
}

func (t *transaction) put(origPath, path, data any) {
	t.ops = append(t.ops, Operation{Kind: OpCreate, OrigPath: origPath, Path: path, Data: data})
}

func (t *transaction) action(origPath, path, data any) {
	t.ops = append(t.ops, Operation{Kind: OpAction, OrigPath: origPath, Path: path, Data: data})
}

// merge appends a set operation, unless data is an empty object - mirroring
// cps_parse.Transaction.merge's "if len(data) == 0: return" guard.
func (t *transaction) merge(origPath, path, data any) {
	if m, ok := data.(map[string]any); ok && len(m) == 0 {
		return
	}
	t.ops = append(t.ops, Operation{Kind: OpSet, OrigPath: origPath, Path: path, Data: data})
}

func (t *transaction) delete(path any) {
	t.ops = append(t.ops, Operation{Kind: OpDelete, Path: path})
}

// commit applies the buffer through store, downgrading every create to set
// and retrying exactly once if the first attempt is rejected - spec.md
// §4.10's commit-with-one-retry rule, ported from
// cps_parse.Transaction.commit.
func (t *transaction) commit(store Store) bool {
	if len(t.ops) == 0 {
		return true
	}
	if store.Commit(t.ops) {
		return true
	}
	for i := range t.ops {
		if t.ops[i].Kind == OpCreate {
			t.ops[i].Kind = OpSet
		}
	}
	return store.Commit(t.ops)
}
