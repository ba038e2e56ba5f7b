package satsolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/satsolver"
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

func TestCheckSerializableAccepts(t *testing.T) {
	_, err := satsolver.CheckSerializable(serializableHistory())
	require.NoError(t, err)
}

func TestCheckSerializableRejectsWriteSkew(t *testing.T) {
	_, err := satsolver.CheckSerializable(writeSkewHistory())
	require.Error(t, err)
}

func TestCheckPrefixAccepts(t *testing.T) {
	_, err := satsolver.CheckPrefix(serializableHistory())
	require.NoError(t, err)
}

func TestCheckPrefixAllowsWriteSkew(t *testing.T) {
	_, err := satsolver.CheckPrefix(writeSkewHistory())
	require.NoError(t, err)
}

func TestCheckSnapshotIsolationAccepts(t *testing.T) {
	_, err := satsolver.CheckSnapshotIsolation(serializableHistory())
	require.NoError(t, err)
}

func TestCheckSnapshotIsolationAllowsWriteSkew(t *testing.T) {
	// disjoint write sets between concurrent transactions: SI permits it
	_, err := satsolver.CheckSnapshotIsolation(writeSkewHistory())
	require.NoError(t, err)
}

func TestCheckSnapshotIsolationRejectsOverlappingWrites(t *testing.T) {
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
	_, err := satsolver.CheckSnapshotIsolation(sessions)
	require.Error(t, err)
}
