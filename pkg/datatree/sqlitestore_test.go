package datatree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreSetThenRead(t *testing.T) {
	s := newTestSQLiteStore(t)
	path := map[string]any{"a": "b"}
	ok := s.Commit([]Operation{{Kind: OpSet, Path: path, Data: "v"}})
	require.True(t, ok)

	got, exists := s.Read(path)
	require.True(t, exists)
	assert.Equal(t, "v", got)
}

func TestSQLiteStoreRejectsCreateOverExistingPath(t *testing.T) {
	s := newTestSQLiteStore(t)
	path := map[string]any{"a": "b"}
	require.True(t, s.Commit([]Operation{{Kind: OpSet, Path: path, Data: "first"}}))

	ok := s.Commit([]Operation{{Kind: OpCreate, Path: path, Data: "second"}})
	assert.False(t, ok, "create against an occupied path must be rejected")

	got, _ := s.Read(path)
	assert.Equal(t, "first", got, "a rejected commit must not have touched the row")
}

func TestSQLiteStoreCreateSucceedsOnFreshPath(t *testing.T) {
	s := newTestSQLiteStore(t)
	path := map[string]any{"fresh": true}
	ok := s.Commit([]Operation{{Kind: OpCreate, Path: path, Data: "v"}})
	assert.True(t, ok)
}

func TestSQLiteStoreCommitIsAllOrNothing(t *testing.T) {
	s := newTestSQLiteStore(t)
	occupied := map[string]any{"x": 1}
	fresh := map[string]any{"y": 2}
	require.True(t, s.Commit([]Operation{{Kind: OpSet, Path: occupied, Data: "orig"}}))

	ok := s.Commit([]Operation{
		{Kind: OpSet, Path: fresh, Data: "should not persist"},
		{Kind: OpCreate, Path: occupied, Data: "conflict"},
	})
	assert.False(t, ok)

	_, exists := s.Read(fresh)
	assert.False(t, exists, "an earlier op in a rejected buffer must roll back too")
}

func TestSQLiteStoreDelete(t *testing.T) {
	s := newTestSQLiteStore(t)
	path := map[string]any{"a": "b"}
	require.True(t, s.Commit([]Operation{{Kind: OpSet, Path: path, Data: "v"}}))
	require.True(t, s.Commit([]Operation{{Kind: OpDelete, Path: path}}))

	_, exists := s.Read(path)
	assert.False(t, exists)
}

// A Facade backed by SQLiteStore, unlike one backed by MemStore, genuinely
// exercises the commit-with-one-retry rule: the first attempt's create is
// rejected by the occupied path, and only the retry's downgrade to set
// succeeds.
func TestFacadeOverSQLiteStoreExercisesCommitRetry(t *testing.T) {
	s := newTestSQLiteStore(t)
	path := map[string]any{"a": "b"}
	require.True(t, s.Commit([]Operation{{Kind: OpSet, Path: path, Data: "orig"}}))

	f := NewFacade(s)
	txid := f.Txid()
	require.NoError(t, f.Put(txid, "", "", path, "new"))
	ok, err := f.Commit(txid)
	require.NoError(t, err)
	assert.True(t, ok, "the retry, which downgrades create to set, should succeed")

	got, exists := s.Read(path)
	require.True(t, exists)
	assert.Equal(t, "new", got)
}
