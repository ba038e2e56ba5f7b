// Package consistency defines the consistency-level enum and the two
// semantic failure errors (cycle and invalid) that every saturation and
// linearization checker reports when a history does not satisfy a level.
// Structural failures are reported separately, as history.ValidationError.
package consistency

import (
	"fmt"

	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

// Level identifies one of the seven consistency levels this module checks.
type Level int

const (
	CommittedRead Level = iota
	RepeatableRead
	AtomicRead
	Causal
	Prefix
	SnapshotIsolation
	Serializable
)

func (l Level) String() string {
	switch l {
	case CommittedRead:
		return "committed-read"
	case RepeatableRead:
		return "repeatable-read"
	case AtomicRead:
		return "atomic-read"
	case Causal:
		return "causal"
	case Prefix:
		return "prefix"
	case SnapshotIsolation:
		return "snapshot-isolation"
	case Serializable:
		return "serializable"
	default:
		return fmt.Sprintf("consistency(%d)", int(l))
	}
}

// CycleError reports that a checker's witness relation contains a cycle
// through the edge (A, B), which is sufficient evidence that the history
// does not satisfy Level.
type CycleError struct {
	Level Level
	A, B  history.TransactionID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: cycle through %s -> %s", e.Level, e.A, e.B)
}

// InvalidError reports that a checker's decision procedure rejected the
// history at Level without producing a single offending edge (e.g. a
// linearization solver exhausting its search space, or a SAT solver
// returning unsatisfiable).
type InvalidError struct {
	Level Level
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s: history is not %s", e.Level, e.Level)
}
