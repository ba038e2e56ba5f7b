package checkcache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rnbguy/dbcop/pkg/dbcop"
	"github.com/rnbguy/dbcop/pkg/dbcop/checkcache"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

func serializableHistory() []history.Session[string, uint64] {
	return []history.Session[string, uint64]{
		{history.Committed(
			history.WriteVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("y", 1),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("y", 2),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("y", 2),
			history.WriteVersion[string, uint64]("x", 2),
		)},
	}
}

func writeSkewHistory() []history.Session[string, uint64] {
	return []history.Session[string, uint64]{
		{history.Committed(
			history.WriteVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("y", 1),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("y", 2),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("y", 1),
			history.WriteVersion[string, uint64]("x", 2),
		)},
	}
}

func openTestCache(t *testing.T) *checkcache.Cache {
	t.Helper()
	c, err := checkcache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })
	return c
}

func TestGetMissesOnEmptyCache(t *testing.T) {
	c := openTestCache(t)
	_, _, ok := checkcache.Get(c, serializableHistory(), dbcop.Serializable)
	require.False(t, ok)
}

func TestCheckCachedStoresAndReturnsWitness(t *testing.T) {
	c := openTestCache(t)
	sessions := serializableHistory()

	w1, err1 := checkcache.CheckCached(c, sessions, dbcop.Serializable)
	require.NoError(t, err1)

	w2, ok := mustGet(t, c, sessions, dbcop.Serializable)
	require.True(t, ok)
	require.Equal(t, w1.Kind, w2.Kind)
	require.Equal(t, w1.CommitOrder, w2.CommitOrder)
}

func TestCheckCachedStoresAndReturnsError(t *testing.T) {
	c := openTestCache(t)
	sessions := writeSkewHistory()

	_, err1 := checkcache.CheckCached(c, sessions, dbcop.Serializable)
	require.Error(t, err1)

	_, cachedErr, ok := checkcache.Get(c, sessions, dbcop.Serializable)
	require.True(t, ok)
	require.Error(t, cachedErr)
}

func TestCacheDistinguishesLevels(t *testing.T) {
	c := openTestCache(t)
	sessions := writeSkewHistory()

	_, err := checkcache.CheckCached(c, sessions, dbcop.Prefix)
	require.NoError(t, err)

	// Serializable was never computed for this history: still a miss.
	_, _, ok := checkcache.Get(c, sessions, dbcop.Serializable)
	require.False(t, ok)
}

func mustGet(t *testing.T, c *checkcache.Cache, sessions []history.Session[string, uint64], level dbcop.Level) (dbcop.Witness, bool) {
	t.Helper()
	w, err, ok := checkcache.Get(c, sessions, level)
	require.NoError(t, err)
	return w, ok
}
