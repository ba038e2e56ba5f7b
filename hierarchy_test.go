package dbcop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rnbguy/dbcop/pkg/dbcop"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

// weakerLevels lists, for each level, every level the hierarchy
// Committed <= Repeatable <= Atomic <= Causal <= Prefix <= SI <= Serializable
// places at or below it.
func weakerLevels(level dbcop.Level) []dbcop.Level {
	out := make([]dbcop.Level, 0, len(allLevels))
	for _, l := range allLevels {
		if l <= level {
			out = append(out, l)
		}
	}
	return out
}

// assertHierarchyHolds checks that if sessions passes level, it also passes
// every weaker level in the hierarchy.
func assertHierarchyHolds(t *testing.T, sessions []history.Session[string, uint64], level dbcop.Level) {
	t.Helper()
	if _, err := dbcop.Check(sessions, level); err != nil {
		return
	}
	for _, weak := range weakerLevels(level) {
		_, err := dbcop.Check(sessions, weak)
		require.NoError(t, err, "passed %s but failed weaker level %s", level, weak)
	}
}

func TestHierarchySerializableImpliesEveryWeakerLevel(t *testing.T) {
	sessions := []history.Session[string, uint64]{
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
	for _, level := range allLevels {
		assertHierarchyHolds(t, sessions, level)
	}
}

func TestHierarchyWriteSkewPassesSIButNotSerializable(t *testing.T) {
	sessions := []history.Session[string, uint64]{
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
	// SI passes (disjoint write sets between concurrent transactions); the
	// hierarchy then requires every level weaker than SI to pass too.
	assertHierarchyHolds(t, sessions, dbcop.SnapshotIsolation)

	_, err := dbcop.Check(sessions, dbcop.Serializable)
	require.Error(t, err)
}

func TestHierarchyLostUpdatePassesPrefixButNotSI(t *testing.T) {
	sessions := []history.Session[string, uint64]{
		{history.Committed(history.WriteVersion[string, uint64]("x", 1))},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("x", 2),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("x", 3),
		)},
	}
	assertHierarchyHolds(t, sessions, dbcop.Prefix)

	_, err := dbcop.Check(sessions, dbcop.SnapshotIsolation)
	require.Error(t, err)
}
