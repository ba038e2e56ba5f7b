package decomposition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rnbguy/dbcop/pkg/dbcop/decomposition"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

func poFromInfo(infoBySession map[uint64]*history.AtomicTransactionInfo[string]) *po.AtomicTransactionPO[string] {
	h := make(history.AtomicTransactionHistory[string])
	for sessionID, info := range infoBySession {
		h[history.TransactionID{SessionID: sessionID, SessionHeight: 0}] = info
	}
	return &po.AtomicTransactionPO[string]{History: h}
}

func TestCommunicationGraphTwoClusters(t *testing.T) {
	p := poFromInfo(map[uint64]*history.AtomicTransactionInfo[string]{
		1: {Writes: map[string]struct{}{"x": {}}, Reads: map[string]history.TransactionID{}},
		2: {Writes: map[string]struct{}{}, Reads: map[string]history.TransactionID{"x": {SessionID: 1, SessionHeight: 0}}},
		3: {Writes: map[string]struct{}{"y": {}}, Reads: map[string]history.TransactionID{}},
	})

	g := decomposition.CommunicationGraph(p)

	require.True(t, g.HasEdge(1, 2))
	require.True(t, g.HasEdge(2, 1))
	require.False(t, g.HasEdge(3, 1))
	require.False(t, g.HasEdge(3, 2))

	for _, s := range []uint64{1, 2, 3} {
		_, ok := g.AdjMap[s]
		require.True(t, ok)
	}
}

func TestCommunicationGraphSingleSession(t *testing.T) {
	p := poFromInfo(map[uint64]*history.AtomicTransactionInfo[string]{
		1: {Writes: map[string]struct{}{"x": {}}, Reads: map[string]history.TransactionID{}},
	})

	g := decomposition.CommunicationGraph(p)

	neighbors, ok := g.AdjMap[1]
	require.True(t, ok)
	require.Empty(t, neighbors)
}

func TestCommunicationGraphFullyConnected(t *testing.T) {
	infos := make(map[uint64]*history.AtomicTransactionInfo[string])
	for s := uint64(1); s <= 3; s++ {
		infos[s] = &history.AtomicTransactionInfo[string]{
			Writes: map[string]struct{}{"x": {}},
			Reads:  map[string]history.TransactionID{},
		}
	}
	p := poFromInfo(infos)

	g := decomposition.CommunicationGraph(p)

	for i := uint64(1); i <= 3; i++ {
		for j := uint64(1); j <= 3; j++ {
			if i == j {
				continue
			}
			require.True(t, g.HasEdge(i, j))
		}
	}
}
