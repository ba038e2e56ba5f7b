package linearization

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// PrefixSolver searches for a commit order in which every transaction's
// visible set is a prefix of the order: if T1 precedes T2, everything
// visible to T1 is visible to T2. Each transaction is split into a read
// phase and a write phase; a write phase is only allowed once no other
// transaction has outstanding readers of the variables it writes.
type PrefixSolver[Variable comparable] struct {
	PO          *po.AtomicTransactionPO[Variable]
	ActiveWrite map[Variable]map[history.TransactionID]struct{}
}

func NewPrefixSolver[Variable comparable](p *po.AtomicTransactionPO[Variable]) *PrefixSolver[Variable] {
	return &PrefixSolver[Variable]{
		PO:          p,
		ActiveWrite: initialActiveWrite(p),
	}
}

func (s *PrefixSolver[Variable]) GetRoot() PhaseVertex {
	return PhaseVertex{Txn: s.PO.Root, IsWrite: false}
}

func (s *PrefixSolver[Variable]) ChildrenOf(u PhaseVertex) ([]PhaseVertex, bool) {
	if u.IsWrite {
		neighbors, ok := s.PO.VisibilityRelation.AdjMap[u.Txn]
		if !ok {
			return nil, false
		}
		out := make([]PhaseVertex, 0, len(neighbors))
		for v := range neighbors {
			out = append(out, PhaseVertex{Txn: v, IsWrite: false})
		}
		return out, true
	}
	return []PhaseVertex{{Txn: u.Txn, IsWrite: true}}, true
}

func (s *PrefixSolver[Variable]) Vertices() []PhaseVertex {
	out := make([]PhaseVertex, 0, 2*len(s.PO.History))
	for txnID := range s.PO.History {
		out = append(out, PhaseVertex{Txn: txnID, IsWrite: false}, PhaseVertex{Txn: txnID, IsWrite: true})
	}
	return out
}

func (s *PrefixSolver[Variable]) AllowNext(_ []PhaseVertex, v PhaseVertex) bool {
	if !v.IsWrite {
		return true
	}
	info := s.PO.History[v.Txn]
	for x := range info.Writes {
		writers, ok := s.ActiveWrite[x]
		if !ok {
			continue
		}
		if len(writers) != 1 {
			return false
		}
		if _, ok := writers[v.Txn]; !ok {
			return false
		}
	}
	return true
}

func (s *PrefixSolver[Variable]) ForwardBookKeeping(linearization []PhaseVertex) {
	curr := linearization[len(linearization)-1]
	info := s.PO.History[curr.Txn]

	if curr.IsWrite {
		for x := range info.Writes {
			readBy := s.PO.WriteReadRelation[x].AdjMap[curr.Txn]
			readers := make(map[history.TransactionID]struct{}, len(readBy))
			for r := range readBy {
				readers[r] = struct{}{}
			}
			s.ActiveWrite[x] = readers
		}
	} else {
		for x := range info.Reads {
			delete(s.ActiveWrite[x], curr.Txn)
		}
	}
	for x, readers := range s.ActiveWrite {
		if len(readers) == 0 {
			delete(s.ActiveWrite, x)
		}
	}
}

func (s *PrefixSolver[Variable]) BacktrackBookKeeping(linearization []PhaseVertex) {
	curr := linearization[len(linearization)-1]
	info := s.PO.History[curr.Txn]

	if curr.IsWrite {
		for x := range info.Writes {
			delete(s.ActiveWrite, x)
		}
	} else {
		for x := range info.Reads {
			if _, ok := s.ActiveWrite[x]; !ok {
				s.ActiveWrite[x] = make(map[history.TransactionID]struct{})
			}
			s.ActiveWrite[x][curr.Txn] = struct{}{}
		}
	}
}
