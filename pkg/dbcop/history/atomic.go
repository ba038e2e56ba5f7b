package history

// AtomicTransactionInfo is the per-transaction derived view used by every
// checker past the raw-history stage: Writes is the set of variables the
// transaction writes, and Reads maps each variable the transaction reads
// externally to the unique transaction it read from (local reads are
// elided — repeatable-read guarantees there is exactly one external
// writer per variable per transaction).
type AtomicTransactionInfo[Variable comparable] struct {
	Writes map[Variable]struct{}
	Reads  map[Variable]TransactionID
}

// AtomicTransactionHistory maps every transaction in a validated history to
// its read-set and write-set.
type AtomicTransactionHistory[Variable comparable] map[TransactionID]*AtomicTransactionInfo[Variable]

// BuildAtomicHistory constructs an AtomicTransactionHistory from raw
// sessions.
//
// Precondition: the caller must have already run the well-formedness
// validation (IsValidHistory + CheckNonRepeatableRead, plus — for callers
// that need the full repeatable-read guarantee — a committed-order
// acyclicity check). This function performs no validation beyond building
// the all-writes index (SameVersionWriteError on a duplicate version) and
// resolving reads (IncompleteHistoryError if a read cannot be resolved).
func BuildAtomicHistory[Variable, Version comparable](sessions []Session[Variable, Version]) (AtomicTransactionHistory[Variable], error) {
	allWrites, err := AllWrites(sessions)
	if err != nil {
		return nil, err
	}

	out := make(AtomicTransactionHistory[Variable])

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			txnID := TransactionID{SessionID: sessionID, SessionHeight: uint64(txnHeight)}
			info := &AtomicTransactionInfo[Variable]{
				Writes: make(map[Variable]struct{}),
				Reads:  make(map[Variable]TransactionID),
			}

			for evHeight, event := range txn.Events {
				switch event.Kind {
				case Write:
					info.Writes[event.Variable] = struct{}{}
				case Read:
					evID := EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}
					writeEventID, ok := ResolveRead(allWrites, event.Variable, event.Version, event.HasVersion)
					if !ok {
						return nil, &IncompleteHistoryError[Variable, Version]{Event: event, ID: evID}
					}
					writerTxn := writeEventID.TransactionID()
					if writerTxn != txnID {
						info.Reads[event.Variable] = writerTxn
					}
				}
			}

			out[txnID] = info
		}
	}
	return out, nil
}
