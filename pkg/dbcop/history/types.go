// Package history defines the raw transaction-history data model (events,
// transactions, sessions) and the well-formedness validation that turns a
// raw history into an AtomicTransactionHistory (per-transaction read/write
// sets with every external read resolved to its unique writer).
package history

import "fmt"

// EventKind distinguishes a Read from a Write event.
type EventKind int

const (
	// Read observes a variable, optionally pinned to a version.
	Read EventKind = iota
	// Write commits a new version of a variable.
	Write
)

func (k EventKind) String() string {
	if k == Write {
		return "W"
	}
	return "R"
}

// Event is a single read or write operation within a transaction.
//
// A Read with HasVersion == false denotes "read from initial state" — the
// same as a Read pinned to the zero value of Version, unless the history
// holds an explicit Write of the zero version for that variable, committed
// or not (see ResolveRead in validate.go).
type Event[Variable, Version comparable] struct {
	Kind       EventKind
	Variable   Variable
	Version    Version
	HasVersion bool // meaningful only when Kind == Read
}

// ReadEmpty constructs a read with no pinned version ("read from whatever
// is visible", typically the initial state).
func ReadEmpty[Variable, Version comparable](variable Variable) Event[Variable, Version] {
	return Event[Variable, Version]{Kind: Read, Variable: variable}
}

// ReadVersion constructs a read pinned to a specific version.
func ReadVersion[Variable, Version comparable](variable Variable, version Version) Event[Variable, Version] {
	return Event[Variable, Version]{Kind: Read, Variable: variable, Version: version, HasVersion: true}
}

// WriteVersion constructs a write of a specific version.
func WriteVersion[Variable, Version comparable](variable Variable, version Version) Event[Variable, Version] {
	return Event[Variable, Version]{Kind: Write, Variable: variable, Version: version}
}

// IsInitVersion reports whether e denotes "read from initial state": either
// no version was given, or the version given is the zero value of Version.
// Per the resolution rule in validate.go, both forms are only literally
// equivalent to the sentinel when no explicit write of the zero version
// exists for the variable.
func (e Event[Variable, Version]) IsInitVersion() bool {
	if e.Kind != Read {
		return false
	}
	var zero Version
	return !e.HasVersion || e.Version == zero
}

func (e Event[Variable, Version]) String() string {
	switch e.Kind {
	case Write:
		return fmt.Sprintf("%v<=%v", e.Variable, e.Version)
	default:
		if e.HasVersion {
			return fmt.Sprintf("%v=>%v", e.Variable, e.Version)
		}
		return fmt.Sprintf("%v=>?", e.Variable)
	}
}

// Transaction is a sequence of events executed atomically, either committed
// or aborted. All events of an aborted transaction are invisible to other
// transactions.
type Transaction[Variable, Version comparable] struct {
	Events    []Event[Variable, Version]
	Committed bool
}

// Committed constructs a committed transaction from the given events.
func Committed[Variable, Version comparable](events ...Event[Variable, Version]) Transaction[Variable, Version] {
	return Transaction[Variable, Version]{Events: events, Committed: true}
}

// Uncommitted constructs an aborted transaction from the given events.
func Uncommitted[Variable, Version comparable](events ...Event[Variable, Version]) Transaction[Variable, Version] {
	return Transaction[Variable, Version]{Events: events, Committed: false}
}

func (t Transaction[Variable, Version]) String() string {
	s := fmt.Sprintf("%v", t.Events)
	if !t.Committed {
		s += "!"
	}
	return s
}

// Session is an ordered sequence of transactions from a single client.
type Session[Variable, Version comparable] []Transaction[Variable, Version]

// TransactionID identifies a transaction by the session it belongs to
// (1-based SessionID) and its 0-based position within that session
// (SessionHeight). The zero value (0, 0) is the synthetic root: a
// predecessor of every real transaction in every session.
type TransactionID struct {
	SessionID     uint64
	SessionHeight uint64
}

// Root returns the synthetic root transaction ID (0, 0).
func Root() TransactionID {
	return TransactionID{}
}

// IsRoot reports whether t is the synthetic root transaction.
func (t TransactionID) IsRoot() bool {
	return t == Root()
}

func (t TransactionID) String() string {
	return fmt.Sprintf("(%d,%d)", t.SessionID, t.SessionHeight)
}

// EventID uniquely identifies an event within a history by session,
// transaction, and position within the transaction.
type EventID struct {
	SessionID         uint64
	SessionHeight     uint64
	TransactionHeight uint64
}

// TransactionID strips the event-local position, returning the identifier
// of the transaction the event belongs to.
func (e EventID) TransactionID() TransactionID {
	return TransactionID{SessionID: e.SessionID, SessionHeight: e.SessionHeight}
}

func (e EventID) String() string {
	return fmt.Sprintf("(%d,%d,%d)", e.SessionID, e.SessionHeight, e.TransactionHeight)
}

// RootEventID is the synthetic event ID standing in for "the initial write
// of every variable", attributed to the root transaction.
var RootEventID = EventID{}
