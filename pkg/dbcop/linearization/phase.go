package linearization

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// PhaseVertex splits a transaction into a read phase (IsWrite == false,
// the point its snapshot is taken) and a write phase (IsWrite == true,
// the point its writes become visible). Prefix Consistency and Snapshot
// Isolation both linearize over PhaseVertex; Serializable does not need
// the split, since it requires reads and writes to appear atomically.
type PhaseVertex struct {
	Txn     history.TransactionID
	IsWrite bool
}

// initialActiveWrite seeds ActiveWrite with every variable's root-writer
// readers: a transaction reading x from the initial state has an edge
// root -> txn in WriteReadRelation[x], and that reader must be ordered
// before any later write of x exactly as if the root had already been
// placed and ForwardBookKeeping had recorded its readers. Without this,
// the first write of x is never blocked on those root-readers.
func initialActiveWrite[Variable comparable](p *po.AtomicTransactionPO[Variable]) map[Variable]map[history.TransactionID]struct{} {
	active := make(map[Variable]map[history.TransactionID]struct{})
	for x, wrX := range p.WriteReadRelation {
		readBy := wrX.AdjMap[p.Root]
		if len(readBy) == 0 {
			continue
		}
		readers := make(map[history.TransactionID]struct{}, len(readBy))
		for r := range readBy {
			readers[r] = struct{}{}
		}
		active[x] = readers
	}
	return active
}
