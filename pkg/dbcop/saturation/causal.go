package saturation

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// CheckCausalRead checks whether sessions satisfies Causal Consistency:
// Atomic-Read strengthened so the visibility relation is transitively
// closed. Runs a saturation loop alternating write-write edge computation
// with incremental closure until a fixpoint is reached, then checks the
// result for acyclicity.
//
// On success, returns the full AtomicTransactionPO, whose
// VisibilityRelation is the transitively-closed witness graph.
func CheckCausalRead[Variable, Version comparable](sessions []history.Session[Variable, Version]) (*po.AtomicTransactionPO[Variable], error) {
	if err := history.IsValidHistory(sessions); err != nil {
		return nil, err
	}
	if err := history.CheckNonRepeatableRead(sessions); err != nil {
		return nil, err
	}

	atomicHist, err := history.BuildAtomicHistory(sessions)
	if err != nil {
		return nil, err
	}

	p := po.Build(atomicHist)
	p.VisIncludes(p.GetWR())
	p.VisIsTrans()

	for {
		wwRel := p.CausalWW()
		var newEdges []graph.Edge[history.TransactionID]

		for _, wwX := range wwRel {
			for src, dsts := range wwX.AdjMap {
				for dst := range dsts {
					if !p.VisibilityRelation.HasEdge(src, dst) {
						newEdges = append(newEdges, graph.Edge[history.TransactionID]{Source: src, Target: dst})
					}
				}
			}
		}

		if len(newEdges) == 0 {
			break
		}
		p.VisibilityRelation.IncrementalClosure(newEdges)
	}

	if p.HasValidVisibility() {
		return p, nil
	}
	if a, b, ok := p.VisibilityRelation.FindCycleEdge(); ok {
		return nil, &consistency.CycleError{Level: consistency.Causal, A: a, B: b}
	}
	return nil, &consistency.InvalidError{Level: consistency.Causal}
}
