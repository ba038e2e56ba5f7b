// Package saturation implements the graph-saturation checkers for the four
// consistency levels decidable in polynomial time: Committed-Read,
// Repeatable-Read, Atomic-Read, and Causal. Each checker builds a witness
// relation (a DiGraph over transaction IDs) by growing edges according to
// the level's rules, then tests the relation for acyclicity.
package saturation

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

// CheckCommittedRead checks whether sessions satisfies Committed-Read.
//
// Unlike the other saturation checkers, this one operates directly on raw
// sessions rather than on an AtomicTransactionPO, because it must inspect
// individual read/write events to validate committed writes as it goes.
//
// It builds a committed-order graph from session-order edges, write-read
// edges, and the extra edge implied when two reads in the same transaction
// observe the same variable from two different writers (the earlier write
// must precede the later one in committed order), then checks the result
// for acyclicity.
//
// On success, returns the committed-order graph as a witness.
func CheckCommittedRead[Variable, Version comparable](sessions []history.Session[Variable, Version]) (*graph.DiGraph[history.TransactionID], error) {
	if err := history.IsValidHistory(sessions); err != nil {
		return nil, err
	}

	committedOrder := graph.NewDiGraph[history.TransactionID]()
	root := history.Root()

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		committedOrder.AddEdge(root, history.TransactionID{SessionID: sessionID, SessionHeight: 0})
		for height := 1; height < len(session); height++ {
			committedOrder.AddEdge(
				history.TransactionID{SessionID: sessionID, SessionHeight: uint64(height - 1)},
				history.TransactionID{SessionID: sessionID, SessionHeight: uint64(height)},
			)
		}
	}

	allWrites, err := history.AllWrites(sessions)
	if err != nil {
		return nil, err
	}
	committedWrites := history.CommittedWrites[Variable, Version](sessions)

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			txnID := history.TransactionID{SessionID: sessionID, SessionHeight: uint64(txnHeight)}
			localReads := make(map[Variable]history.EventID)

			for evHeight, event := range txn.Events {
				if event.Kind != history.Read {
					continue
				}
				evID := history.EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}

				writeEventID, ok := history.ResolveRead(allWrites, event.Variable, event.Version, event.HasVersion)
				if !ok {
					return nil, &history.IncompleteHistoryError[Variable, Version]{Event: event, ID: evID}
				}

				writerTxn := writeEventID.TransactionID()
				if writerTxn.IsRoot() || writerTxn == txnID {
					// initial-state and local reads have no external writer to check
				} else if cw, ok := history.LookupCommittedWrite(committedWrites, writerTxn, event.Variable); ok {
					if writeEventID != cw.EventID {
						return nil, &history.OverwrittenReadError[Variable, Version]{
							ReadEvent:               event,
							ReadEventID:             evID,
							OverwrittenWriteEventID: writeEventID,
							CommittedWriteEvent:     history.WriteVersion[Variable, Version](event.Variable, cw.Version),
							CommittedWriteEventID:   cw.EventID,
						}
					}
				} else {
					return nil, &history.UncommittedWriteError[Variable, Version]{
						ReadEvent:    event,
						ReadEventID:  evID,
						WriteEventID: writeEventID,
					}
				}

				if writerTxn != txnID {
					if prevEventID, ok := localReads[event.Variable]; ok && prevEventID.TransactionID() != writerTxn {
						committedOrder.AddEdge(prevEventID.TransactionID(), writerTxn)
					}
					localReads[event.Variable] = writeEventID
					committedOrder.AddEdge(writerTxn, txnID)
				}
			}
		}
	}

	if committedOrder.IsAcyclic() {
		return committedOrder, nil
	}
	if a, b, ok := committedOrder.FindCycleEdge(); ok {
		return nil, &consistency.CycleError{Level: consistency.CommittedRead, A: a, B: b}
	}
	return nil, &consistency.InvalidError{Level: consistency.CommittedRead}
}
