package linearization

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// SerializableSolver searches for a total commit order in which every read
// is explained by the immediately preceding write on the same variable.
// Unlike the split-phase solvers, a transaction's reads and writes are
// placed atomically: Vertex is a plain TransactionID.
type SerializableSolver[Variable comparable] struct {
	PO          *po.AtomicTransactionPO[Variable]
	ActiveWrite map[Variable]map[history.TransactionID]struct{}
}

// NewSerializableSolver wraps an AtomicTransactionPO (produced by
// saturation.CheckCausalRead, since Serializable strengthens Causal) for
// linearization search.
func NewSerializableSolver[Variable comparable](p *po.AtomicTransactionPO[Variable]) *SerializableSolver[Variable] {
	return &SerializableSolver[Variable]{
		PO:          p,
		ActiveWrite: initialActiveWrite(p),
	}
}

func (s *SerializableSolver[Variable]) GetRoot() history.TransactionID {
	return s.PO.Root
}

func (s *SerializableSolver[Variable]) ChildrenOf(u history.TransactionID) ([]history.TransactionID, bool) {
	neighbors, ok := s.PO.VisibilityRelation.AdjMap[u]
	if !ok {
		return nil, false
	}
	out := make([]history.TransactionID, 0, len(neighbors))
	for v := range neighbors {
		out = append(out, v)
	}
	return out, true
}

func (s *SerializableSolver[Variable]) Vertices() []history.TransactionID {
	out := make([]history.TransactionID, 0, len(s.PO.History))
	for txnID := range s.PO.History {
		out = append(out, txnID)
	}
	return out
}

func (s *SerializableSolver[Variable]) AllowNext(_ []history.TransactionID, v history.TransactionID) bool {
	info := s.PO.History[v]
	for x := range info.Writes {
		writers, ok := s.ActiveWrite[x]
		if !ok {
			continue
		}
		if len(writers) != 1 {
			return false
		}
		if _, ok := writers[v]; !ok {
			return false
		}
	}
	return true
}

func (s *SerializableSolver[Variable]) ForwardBookKeeping(linearization []history.TransactionID) {
	currTxn := linearization[len(linearization)-1]
	info := s.PO.History[currTxn]

	for x := range info.Reads {
		delete(s.ActiveWrite[x], currTxn)
	}
	for x := range info.Writes {
		readBy := s.PO.WriteReadRelation[x].AdjMap[currTxn]
		readers := make(map[history.TransactionID]struct{}, len(readBy))
		for r := range readBy {
			readers[r] = struct{}{}
		}
		s.ActiveWrite[x] = readers
	}
	for x, readers := range s.ActiveWrite {
		if len(readers) == 0 {
			delete(s.ActiveWrite, x)
		}
	}
}

func (s *SerializableSolver[Variable]) BacktrackBookKeeping(linearization []history.TransactionID) {
	currTxn := linearization[len(linearization)-1]
	info := s.PO.History[currTxn]

	for x := range info.Writes {
		delete(s.ActiveWrite, x)
	}
	for x := range info.Reads {
		if _, ok := s.ActiveWrite[x]; !ok {
			s.ActiveWrite[x] = make(map[history.TransactionID]struct{})
		}
		s.ActiveWrite[x][currTxn] = struct{}{}
	}
}
