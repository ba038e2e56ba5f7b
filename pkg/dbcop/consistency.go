// Package dbcop checks whether a database transaction history satisfies
// a target consistency level, from Committed-Read up to Serializable.
package dbcop

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/linearization"
	"github.com/rnbguy/dbcop/pkg/dbcop/saturation"
)

// Level identifies one of the seven consistency levels Check can verify,
// ordered from weakest to strongest.
type Level = consistency.Level

const (
	CommittedRead     = consistency.CommittedRead
	RepeatableRead    = consistency.RepeatableRead
	AtomicRead        = consistency.AtomicRead
	Causal            = consistency.Causal
	Prefix            = consistency.Prefix
	SnapshotIsolation = consistency.SnapshotIsolation
	Serializable      = consistency.Serializable
)

// Check reports whether sessions satisfies level.
//
// An empty history, or a history whose every session is empty, is
// trivially consistent at every level.
//
// On success, the returned Witness documents why: a saturated relation
// for the four polynomial-time levels, or a linearization for the three
// NP-complete ones.
func Check[Variable, Version comparable](sessions []history.Session[Variable, Version], level Level) (Witness, error) {
	if isTrivial(sessions) {
		return Witness{}, nil
	}

	switch level {
	case CommittedRead:
		g, err := saturation.CheckCommittedRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		return Witness{Kind: SaturationOrderWitness, SaturationOrder: g}, nil

	case RepeatableRead:
		if err := saturation.CheckRepeatableRead(sessions); err != nil {
			return Witness{}, err
		}
		g, err := saturation.CheckCommittedRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		return Witness{Kind: SaturationOrderWitness, SaturationOrder: g}, nil

	case AtomicRead:
		p, err := saturation.CheckAtomicRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		return Witness{Kind: SaturationOrderWitness, SaturationOrder: p.VisibilityRelation}, nil

	case Causal:
		p, err := saturation.CheckCausalRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		return Witness{Kind: SaturationOrderWitness, SaturationOrder: p.VisibilityRelation}, nil

	case Prefix:
		p, err := saturation.CheckCausalRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		solver := linearization.NewPrefixSolver(p)
		lin := linearization.Search[linearization.PhaseVertex](solver)
		if lin == nil {
			return Witness{}, &consistency.InvalidError{Level: Prefix}
		}
		return Witness{Kind: CommitOrderWitness, CommitOrder: writePhaseOrder(lin)}, nil

	case SnapshotIsolation:
		p, err := saturation.CheckCausalRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		solver := linearization.NewSnapshotIsolationSolver(p)
		lin := linearization.Search[linearization.PhaseVertex](solver)
		if lin == nil {
			return Witness{}, &consistency.InvalidError{Level: SnapshotIsolation}
		}
		return Witness{Kind: SplitCommitOrderWitness, SplitCommitOrder: lin}, nil

	case Serializable:
		p, err := saturation.CheckCausalRead(sessions)
		if err != nil {
			return Witness{}, err
		}
		solver := linearization.NewSerializableSolver(p)
		lin := linearization.Search[history.TransactionID](solver)
		if lin == nil {
			return Witness{}, &consistency.InvalidError{Level: Serializable}
		}
		return Witness{Kind: CommitOrderWitness, CommitOrder: lin}, nil

	default:
		return Witness{}, &consistency.InvalidError{Level: level}
	}
}

func isTrivial[Variable, Version comparable](sessions []history.Session[Variable, Version]) bool {
	for _, s := range sessions {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// writePhaseOrder extracts the write-phase vertices from a split
// linearization, in order, producing the plain commit order a caller
// expects for Prefix (whose read phases carry no ordering information of
// their own beyond gating the corresponding write phase).
func writePhaseOrder(lin []linearization.PhaseVertex) []history.TransactionID {
	out := make([]history.TransactionID, 0, len(lin)/2)
	for _, v := range lin {
		if v.IsWrite {
			out = append(out, v.Txn)
		}
	}
	return out
}
