package satsolver

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/decomposition"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/linearization"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
	"github.com/rnbguy/dbcop/pkg/dbcop/saturation"
)

func checkCausalReadPO[Variable, Version comparable](sessions []history.Session[Variable, Version]) (*po.AtomicTransactionPO[Variable], error) {
	return saturation.CheckCausalRead(sessions)
}

// decomposeSessions splits sessions along the connected components of the
// causal partial order's communication graph. It reports ok == false when
// decomposition would not help (0 or 1 components), in which case the
// caller should check the whole history directly.
//
// Unlike the original, sub-histories keep their original 1-based session
// numbering (sessions outside a component become empty) rather than being
// renumbered into a fresh 0-based slice, so no witness remapping step is
// needed afterward.
func decomposeSessions[Variable, Version comparable](p *po.AtomicTransactionPO[Variable], sessions []history.Session[Variable, Version]) ([][]history.Session[Variable, Version], bool) {
	comm := decomposition.CommunicationGraph(p)
	components := comm.ConnectedComponents()
	if len(components) <= 1 {
		return nil, false
	}

	out := make([][]history.Session[Variable, Version], 0, len(components))
	for _, ids := range components {
		out = append(out, decomposition.Restrict(sessions, ids))
	}
	return out, true
}

func poVertices[Variable comparable](p *po.AtomicTransactionPO[Variable]) []history.TransactionID {
	out := make([]history.TransactionID, 0, len(p.History))
	for tid := range p.History {
		out = append(out, tid)
	}
	return out
}

func visibilityEdges[Variable comparable](p *po.AtomicTransactionPO[Variable]) []edge[history.TransactionID] {
	var out []edge[history.TransactionID]
	for src, dsts := range p.VisibilityRelation.AdjMap {
		for dst := range dsts {
			out = append(out, edge[history.TransactionID]{src: src, dst: dst})
		}
	}
	return out
}

// CheckSerializable checks serializability by encoding the linearization
// constraints as CNF and handing them to the DPLL solver, instead of the
// constrained-linearization DFS engine — an independent implementation of
// the same check, useful to cross-validate the two.
func CheckSerializable[Variable, Version comparable](sessions []history.Session[Variable, Version]) ([]history.TransactionID, error) {
	p, err := checkCausalReadPO(sessions)
	if err != nil {
		return nil, err
	}

	if components, ok := decomposeSessions(p, sessions); ok {
		var order []history.TransactionID
		for _, sub := range components {
			subOrder, serr := CheckSerializable(sub)
			if serr != nil {
				return nil, serr
			}
			order = append(order, subOrder...)
		}
		return order, nil
	}

	vertices := poVertices(p)
	solver, vars := encodeOrdering(vertices, visibilityEdges(p))

	rootBefore, writeOrder := perVariableConstraints(p)
	for _, c := range rootBefore {
		solver.AddClause(vars.beforeLit(c.reader, c.writer))
	}
	for _, c := range writeOrder {
		solver.AddClause(vars.notBeforeLit(c.writer1, c.writer2), vars.beforeLit(c.writer1, c.reader))
		solver.AddClause(vars.notBeforeLit(c.writer1, c.writer2), vars.beforeLit(c.reader, c.writer2))
	}

	if !solver.Solve() {
		return nil, &consistency.InvalidError{Level: consistency.Serializable}
	}
	return extractOrder(vars, vertices), nil
}

// CheckPrefix checks prefix consistency the same way, splitting each
// transaction into a read phase and write phase.
func CheckPrefix[Variable, Version comparable](sessions []history.Session[Variable, Version]) ([]linearization.PhaseVertex, error) {
	p, err := checkCausalReadPO(sessions)
	if err != nil {
		return nil, err
	}

	if components, ok := decomposeSessions(p, sessions); ok {
		var order []linearization.PhaseVertex
		for _, sub := range components {
			subOrder, serr := CheckPrefix(sub)
			if serr != nil {
				return nil, serr
			}
			order = append(order, subOrder...)
		}
		return order, nil
	}

	vertices, edges := phaseVerticesAndEdges(p)
	solver, vars := encodeOrdering(vertices, edges)
	encodePhaseWriteOrder(solver, vars, p)

	if !solver.Solve() {
		return nil, &consistency.InvalidError{Level: consistency.Prefix}
	}
	return extractOrder(vars, vertices), nil
}

// CheckSnapshotIsolation adds, on top of Prefix's constraints, an
// interval-disjointness clause for every pair of transactions that write a
// common variable: neither may have its read phase fall inside the other's
// [read, write) interval.
func CheckSnapshotIsolation[Variable, Version comparable](sessions []history.Session[Variable, Version]) ([]linearization.PhaseVertex, error) {
	p, err := checkCausalReadPO(sessions)
	if err != nil {
		return nil, err
	}

	if components, ok := decomposeSessions(p, sessions); ok {
		var order []linearization.PhaseVertex
		for _, sub := range components {
			subOrder, serr := CheckSnapshotIsolation(sub)
			if serr != nil {
				return nil, serr
			}
			order = append(order, subOrder...)
		}
		return order, nil
	}

	vertices, edges := phaseVerticesAndEdges(p)
	solver, vars := encodeOrdering(vertices, edges)
	encodePhaseWriteOrder(solver, vars, p)

	for _, pair := range writeConflictPairs(p) {
		t1, t2 := pair[0], pair[1]
		w1BeforeR2 := vars.beforeLit(linearization.PhaseVertex{Txn: t1, IsWrite: true}, linearization.PhaseVertex{Txn: t2, IsWrite: false})
		w2BeforeR1 := vars.beforeLit(linearization.PhaseVertex{Txn: t2, IsWrite: true}, linearization.PhaseVertex{Txn: t1, IsWrite: false})
		solver.AddClause(w1BeforeR2, w2BeforeR1)
	}

	if !solver.Solve() {
		return nil, &consistency.InvalidError{Level: consistency.SnapshotIsolation}
	}
	return extractOrder(vars, vertices), nil
}

func phaseVerticesAndEdges[Variable comparable](p *po.AtomicTransactionPO[Variable]) ([]linearization.PhaseVertex, []edge[linearization.PhaseVertex]) {
	vertices := make([]linearization.PhaseVertex, 0, 2*len(p.History))
	for tid := range p.History {
		vertices = append(vertices, linearization.PhaseVertex{Txn: tid, IsWrite: false}, linearization.PhaseVertex{Txn: tid, IsWrite: true})
	}

	edges := make([]edge[linearization.PhaseVertex], 0, len(vertices))
	for tid := range p.History {
		edges = append(edges, edge[linearization.PhaseVertex]{
			src: linearization.PhaseVertex{Txn: tid, IsWrite: false},
			dst: linearization.PhaseVertex{Txn: tid, IsWrite: true},
		})
	}
	for src, dsts := range p.VisibilityRelation.AdjMap {
		for dst := range dsts {
			edges = append(edges, edge[linearization.PhaseVertex]{
				src: linearization.PhaseVertex{Txn: src, IsWrite: true},
				dst: linearization.PhaseVertex{Txn: dst, IsWrite: false},
			})
		}
	}
	return vertices, edges
}

func encodePhaseWriteOrder[Variable comparable](solver *Solver, vars *orderVars[linearization.PhaseVertex], p *po.AtomicTransactionPO[Variable]) {
	rootBefore, writeOrder := perVariableConstraints(p)
	for _, c := range rootBefore {
		solver.AddClause(vars.beforeLit(
			linearization.PhaseVertex{Txn: c.reader, IsWrite: false},
			linearization.PhaseVertex{Txn: c.writer, IsWrite: true},
		))
	}
	for _, c := range writeOrder {
		w1w := linearization.PhaseVertex{Txn: c.writer1, IsWrite: true}
		w2w := linearization.PhaseVertex{Txn: c.writer2, IsWrite: true}
		rr := linearization.PhaseVertex{Txn: c.reader, IsWrite: false}
		solver.AddClause(vars.notBeforeLit(w1w, w2w), vars.beforeLit(w1w, rr))
		solver.AddClause(vars.notBeforeLit(w1w, w2w), vars.beforeLit(rr, w2w))
	}
}
