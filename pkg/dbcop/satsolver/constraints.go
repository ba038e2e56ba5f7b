package satsolver

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// rootBeforeWrite is a constraint that the root's reader of x (the
// version-zero sentinel) must be ordered before some other writer of x.
type rootBeforeWrite struct {
	reader, writer history.TransactionID
}

// writeOrderTriple is the serializability constraint: if writer1's write
// phase precedes writer2's write phase, every reader of writer1's write on
// the shared variable must fall strictly between them.
type writeOrderTriple struct {
	writer1, writer2, reader history.TransactionID
}

// perVariableConstraints walks every variable's write-read relation and
// extracts the root-ordering and write-ordering constraints shared by the
// Serializable, Prefix, and Snapshot Isolation encodings; only how these
// constraints are wrapped into vertices (plain transaction vs. read/write
// phase) differs between the three levels.
func perVariableConstraints[Variable comparable](p *po.AtomicTransactionPO[Variable]) ([]rootBeforeWrite, []writeOrderTriple) {
	root := history.Root()
	var rootBefore []rootBeforeWrite
	var writeOrder []writeOrderTriple

	for x, wrX := range p.WriteReadRelation {
		writers := make([]history.TransactionID, 0, len(wrX.AdjMap))
		for tid := range wrX.AdjMap {
			if info, ok := p.History[tid]; ok {
				if _, writes := info.Writes[x]; writes {
					writers = append(writers, tid)
				}
			}
		}

		rootReaders := make([]history.TransactionID, 0, len(wrX.AdjMap[root]))
		for r := range wrX.AdjMap[root] {
			rootReaders = append(rootReaders, r)
		}

		for _, tr0 := range rootReaders {
			for _, tw := range writers {
				if tr0 != tw {
					rootBefore = append(rootBefore, rootBeforeWrite{reader: tr0, writer: tw})
				}
			}
		}

		for _, tw1 := range writers {
			readers := make([]history.TransactionID, 0, len(wrX.AdjMap[tw1]))
			for r := range wrX.AdjMap[tw1] {
				readers = append(readers, r)
			}
			for _, tw2 := range writers {
				if tw1 == tw2 {
					continue
				}
				for _, tr := range readers {
					if tr == tw2 {
						// tw2 reads from tw1's write: already forced by
						// the visibility edge tw1 -> tw2.
						continue
					}
					writeOrder = append(writeOrder, writeOrderTriple{writer1: tw1, writer2: tw2, reader: tr})
				}
			}
		}
	}

	return rootBefore, writeOrder
}

// writeConflictPairs returns every pair of distinct transactions that both
// write some common variable, used by the Snapshot Isolation encoding's
// interval-disjointness constraint.
func writeConflictPairs[Variable comparable](p *po.AtomicTransactionPO[Variable]) [][2]history.TransactionID {
	ids := make([]history.TransactionID, 0, len(p.History))
	for tid := range p.History {
		ids = append(ids, tid)
	}

	var pairs [][2]history.TransactionID
	for i, t1 := range ids {
		info1 := p.History[t1]
		for _, t2 := range ids[i+1:] {
			info2 := p.History[t2]
			for x := range info1.Writes {
				if _, ok := info2.Writes[x]; ok {
					pairs = append(pairs, [2]history.TransactionID{t1, t2})
					break
				}
			}
		}
	}
	return pairs
}
