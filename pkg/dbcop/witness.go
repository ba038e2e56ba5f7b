package dbcop

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/linearization"
)

// WitnessKind distinguishes the three shapes of evidence Check can return.
type WitnessKind int

const (
	// CommitOrderWitness carries a total order of transactions. Returned
	// by the Prefix and Serializable checkers.
	CommitOrderWitness WitnessKind = iota
	// SplitCommitOrderWitness carries a total order over read/write
	// phases. Returned by the Snapshot Isolation checker.
	SplitCommitOrderWitness
	// SaturationOrderWitness carries the grown visibility or
	// committed-order relation. Returned by Committed-Read,
	// Repeatable-Read, Atomic-Read, and Causal.
	SaturationOrderWitness
)

// Witness is evidence that a history satisfies the consistency level it
// was checked against.
type Witness struct {
	Kind             WitnessKind
	CommitOrder      []history.TransactionID
	SplitCommitOrder []linearization.PhaseVertex
	SaturationOrder  *graph.DiGraph[history.TransactionID]
}
