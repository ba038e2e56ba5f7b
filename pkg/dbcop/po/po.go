// Package po builds the partial-order representation (AtomicTransactionPO)
// that every saturation checker and linearization solver operates on:
// session order, per-variable write-read graphs, and the visibility
// relation grown by saturation.
package po

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

// AtomicTransactionPO holds every relation a consistency checker needs,
// derived once from a validated AtomicTransactionHistory.
type AtomicTransactionPO[Variable comparable] struct {
	Root    history.TransactionID
	History history.AtomicTransactionHistory[Variable]

	// SessionOrder is the transitive closure of the per-session chain,
	// with the root preceding every transaction.
	SessionOrder *graph.DiGraph[history.TransactionID]

	// WriteReadRelation[x] has an edge (w, r) meaning r read x from w.
	WriteReadRelation map[Variable]*graph.DiGraph[history.TransactionID]

	// WRUnion is the union of every per-variable write-read graph.
	WRUnion *graph.DiGraph[history.TransactionID]

	// VisibilityRelation starts as a clone of SessionOrder and is grown by
	// saturation. An edge (a, b) means a's effects are visible to b.
	VisibilityRelation *graph.DiGraph[history.TransactionID]
}

// Build constructs an AtomicTransactionPO from a validated
// AtomicTransactionHistory.
func Build[Variable comparable](hist history.AtomicTransactionHistory[Variable]) *AtomicTransactionPO[Variable] {
	root := history.Root()
	sessionOrder := graph.NewDiGraph[history.TransactionID]()

	// Each session is a chain root -> t0 -> t1 -> ...; the transitive
	// closure of a chain is every pair (earlier, later), computed directly
	// in O(S*T^2) instead of via the general-purpose closure algorithm.
	bySession := make(map[uint64][]history.TransactionID)
	for txnID := range hist {
		bySession[txnID.SessionID] = append(bySession[txnID.SessionID], txnID)
	}
	for _, txns := range bySession {
		sortByHeight(txns)
		for i, txn := range txns {
			sessionOrder.AddEdge(root, txn)
			for _, earlier := range txns[:i] {
				sessionOrder.AddEdge(earlier, txn)
			}
		}
	}

	writeReadRelation := make(map[Variable]*graph.DiGraph[history.TransactionID])
	for txnID, info := range hist {
		for variable := range info.Writes {
			wrX, ok := writeReadRelation[variable]
			if !ok {
				wrX = graph.NewDiGraph[history.TransactionID]()
				writeReadRelation[variable] = wrX
			}
			wrX.AddVertex(txnID)
		}
		for variable, writer := range info.Reads {
			wrX, ok := writeReadRelation[variable]
			if !ok {
				wrX = graph.NewDiGraph[history.TransactionID]()
				writeReadRelation[variable] = wrX
			}
			wrX.AddEdge(writer, txnID)
		}
	}

	wrUnion := graph.NewDiGraph[history.TransactionID]()
	for _, g := range writeReadRelation {
		wrUnion.Union(g)
	}

	return &AtomicTransactionPO[Variable]{
		Root:                root,
		History:             hist,
		SessionOrder:        sessionOrder,
		WriteReadRelation:   writeReadRelation,
		WRUnion:             wrUnion,
		VisibilityRelation:  sessionOrder.Clone(),
	}
}

func sortByHeight(txns []history.TransactionID) {
	// insertion sort: session lengths are small and this keeps the
	// dependency list short (no need for a generic sort.Slice import here).
	for i := 1; i < len(txns); i++ {
		for j := i; j > 0 && txns[j-1].SessionHeight > txns[j].SessionHeight; j-- {
			txns[j-1], txns[j] = txns[j], txns[j-1]
		}
	}
}

// GetWR returns the union of the write-read relation of all variables.
func (po *AtomicTransactionPO[Variable]) GetWR() *graph.DiGraph[history.TransactionID] {
	return po.WRUnion.Clone()
}

// VisIncludes unions g into the visibility relation and reports whether
// anything changed.
func (po *AtomicTransactionPO[Variable]) VisIncludes(g *graph.DiGraph[history.TransactionID]) bool {
	return po.VisibilityRelation.Union(g)
}

// VisIsTrans replaces the visibility relation with its transitive closure
// and reports whether anything changed.
func (po *AtomicTransactionPO[Variable]) VisIsTrans() bool {
	closure := po.VisibilityRelation.Closure()
	changed := false
	for v, neighbors := range po.VisibilityRelation.AdjMap {
		closureNeighbors := closure.AdjMap[v]
		if len(closureNeighbors) != len(neighbors) {
			changed = true
			break
		}
	}
	po.VisibilityRelation = closure
	return changed
}

// HasValidVisibility reports whether the visibility relation is acyclic.
func (po *AtomicTransactionPO[Variable]) HasValidVisibility() bool {
	return po.VisibilityRelation.IsAcyclic()
}

// CausalWW computes, for each variable x, the write-write edges implied by
// visibility and x's write-read graph: t2 -> t1, for t2 a writer of x (or
// the root), whenever t2 must commit before t1 because either t2 is
// already visible to t1, or t2 is visible to some reader t3 (!= t2) of
// t1's value of x — t3 saw t2 yet read x from t1, so t1's write of x must
// follow t2's in any write-write order.
func (po *AtomicTransactionPO[Variable]) CausalWW() map[Variable]*graph.DiGraph[history.TransactionID] {
	ww := make(map[Variable]*graph.DiGraph[history.TransactionID], len(po.WriteReadRelation))

	for x, wrX := range po.WriteReadRelation {
		wwX := graph.NewDiGraph[history.TransactionID]()
		for t1, readers := range wrX.AdjMap {
			for t2 := range wrX.AdjMap {
				if t1 == t2 {
					continue
				}
				// transactions that only read x are not ordered by ww_x
				if info, ok := po.History[t2]; ok {
					if _, writes := info.Writes[x]; !writes {
						continue
					}
				}
				visT2 := po.VisibilityRelation.AdjMap[t2]
				direct := visT2 != nil
				if direct {
					if _, ok := visT2[t1]; ok {
						wwX.AddEdge(t2, t1)
						continue
					}
				}
				viaReader := false
				if visT2 != nil {
					for t3 := range readers {
						if t3 == t2 {
							continue
						}
						if _, ok := visT2[t3]; ok {
							viaReader = true
							break
						}
					}
				}
				if viaReader {
					wwX.AddEdge(t2, t1)
				}
			}
		}
		ww[x] = wwX
	}
	return ww
}

// CausalRW computes, for each variable x, the read-write (anti-dependency)
// edges: t3 -> t2 whenever t3 read x from t1 and t2 (!= t3) is a later
// writer of x visible after t1 from t3's perspective — i.e. t2 overwrites
// the value t3 read. Not required by any of the seven consistency levels
// (none saturate on rw edges), but carried on the PO's public surface the
// way the Rust original exposes it.
func (po *AtomicTransactionPO[Variable]) CausalRW() map[Variable]*graph.DiGraph[history.TransactionID] {
	rw := make(map[Variable]*graph.DiGraph[history.TransactionID], len(po.WriteReadRelation))

	for x, wrX := range po.WriteReadRelation {
		rwX := graph.NewDiGraph[history.TransactionID]()
		for t1, readers := range wrX.AdjMap {
			visT1 := po.VisibilityRelation.AdjMap[t1]
			for t2 := range wrX.AdjMap {
				if t1 == t2 {
					continue
				}
				if visT1 != nil {
					if _, ok := visT1[t2]; ok {
						for t3 := range readers {
							if t3 != t2 {
								rwX.AddEdge(t3, t2)
							}
						}
						continue
					}
				}
				for t3 := range readers {
					visT3 := po.VisibilityRelation.AdjMap[t3]
					if visT3 == nil {
						continue
					}
					if _, ok := visT3[t2]; ok {
						rwX.AddEdge(t3, t2)
					}
				}
			}
		}
		rw[x] = rwX
	}
	return rw
}
