package saturation

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// CheckAtomicRead checks whether sessions satisfies Atomic-Read: the
// visibility relation, grown from session order with write-read edges and
// the write-write edges they imply, must remain acyclic.
//
// On success, returns the full AtomicTransactionPO as a witness.
func CheckAtomicRead[Variable, Version comparable](sessions []history.Session[Variable, Version]) (*po.AtomicTransactionPO[Variable], error) {
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

	for _, wwX := range p.CausalWW() {
		p.VisIncludes(wwX)
	}

	if p.HasValidVisibility() {
		return p, nil
	}
	if a, b, ok := p.VisibilityRelation.FindCycleEdge(); ok {
		return nil, &consistency.CycleError{Level: consistency.AtomicRead, A: a, B: b}
	}
	return nil, &consistency.InvalidError{Level: consistency.AtomicRead}
}
