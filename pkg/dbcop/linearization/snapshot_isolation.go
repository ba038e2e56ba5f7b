package linearization

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// SnapshotIsolationSolver strengthens Prefix with the additional
// write-write conflict constraint: no two concurrently-snapshotted
// transactions may write the same variable. ActiveVariable tracks every
// variable written by a transaction whose read phase has been placed but
// whose write phase has not yet — a read phase may only be placed if none
// of the variables it will later write are in that set.
type SnapshotIsolationSolver[Variable comparable] struct {
	PO             *po.AtomicTransactionPO[Variable]
	ActiveWrite    map[Variable]map[history.TransactionID]struct{}
	ActiveVariable map[Variable]struct{}
}

func NewSnapshotIsolationSolver[Variable comparable](p *po.AtomicTransactionPO[Variable]) *SnapshotIsolationSolver[Variable] {
	return &SnapshotIsolationSolver[Variable]{
		PO:             p,
		ActiveWrite:    initialActiveWrite(p),
		ActiveVariable: make(map[Variable]struct{}),
	}
}

func (s *SnapshotIsolationSolver[Variable]) GetRoot() PhaseVertex {
	return PhaseVertex{Txn: s.PO.Root, IsWrite: false}
}

func (s *SnapshotIsolationSolver[Variable]) ChildrenOf(u PhaseVertex) ([]PhaseVertex, bool) {
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

func (s *SnapshotIsolationSolver[Variable]) Vertices() []PhaseVertex {
	out := make([]PhaseVertex, 0, 2*len(s.PO.History))
	for txnID := range s.PO.History {
		out = append(out, PhaseVertex{Txn: txnID, IsWrite: false}, PhaseVertex{Txn: txnID, IsWrite: true})
	}
	return out
}

func (s *SnapshotIsolationSolver[Variable]) AllowNext(_ []PhaseVertex, v PhaseVertex) bool {
	info := s.PO.History[v.Txn]
	if v.IsWrite {
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
	for x := range info.Writes {
		if _, conflict := s.ActiveVariable[x]; conflict {
			return false
		}
	}
	return true
}

func (s *SnapshotIsolationSolver[Variable]) ForwardBookKeeping(linearization []PhaseVertex) {
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
			delete(s.ActiveVariable, x)
		}
	} else {
		for x := range info.Reads {
			delete(s.ActiveWrite[x], curr.Txn)
		}
		for x := range info.Writes {
			s.ActiveVariable[x] = struct{}{}
		}
	}
	for x, readers := range s.ActiveWrite {
		if len(readers) == 0 {
			delete(s.ActiveWrite, x)
		}
	}
}

func (s *SnapshotIsolationSolver[Variable]) BacktrackBookKeeping(linearization []PhaseVertex) {
	curr := linearization[len(linearization)-1]
	info := s.PO.History[curr.Txn]

	if curr.IsWrite {
		for x := range info.Writes {
			delete(s.ActiveWrite, x)
			s.ActiveVariable[x] = struct{}{}
		}
	} else {
		for x := range info.Reads {
			if _, ok := s.ActiveWrite[x]; !ok {
				s.ActiveWrite[x] = make(map[history.TransactionID]struct{})
			}
			s.ActiveWrite[x][curr.Txn] = struct{}{}
		}
		for x := range info.Writes {
			delete(s.ActiveVariable, x)
		}
	}
}
