package history

// writeKey identifies a written (variable, version) pair in the
// all-writes index.
type writeKey[Variable, Version comparable] struct {
	Variable Variable
	Version  Version
}

// AllWrites maps every (variable, version) pair written anywhere in the
// history — committed or not — to the EventID of the write. Building it is
// the first well-formedness check: two writes sharing a version is a fatal
// structural error.
func AllWrites[Variable, Version comparable](sessions []Session[Variable, Version]) (map[writeKey[Variable, Version]]EventID, error) {
	writes := make(map[writeKey[Variable, Version]]EventID)

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			for evHeight, event := range txn.Events {
				if event.Kind != Write {
					continue
				}
				id := EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}
				key := writeKey[Variable, Version]{Variable: event.Variable, Version: event.Version}
				if existing, ok := writes[key]; ok {
					return nil, &SameVersionWriteError[Variable, Version]{Event: event, IDs: [2]EventID{id, existing}}
				}
				writes[key] = id
			}
		}
	}
	return writes, nil
}

// ResolveRead resolves a read's (variable, version, hasVersion) to the
// EventID of the write it observes.
//
// A read with no version, or pinned to the zero value of Version, denotes
// "read from initial state" UNLESS the history holds an explicit write of
// the zero version for that variable, committed or not — in which case
// that write wins over the synthetic root. A read pinned to
// any other version must match an existing write exactly, or the history
// is incomplete.
func ResolveRead[Variable, Version comparable](writes map[writeKey[Variable, Version]]EventID, variable Variable, version Version, hasVersion bool) (EventID, bool) {
	var zero Version
	if !hasVersion || version == zero {
		if id, ok := writes[writeKey[Variable, Version]{Variable: variable, Version: zero}]; ok {
			return id, true
		}
		return RootEventID, true
	}
	id, ok := writes[writeKey[Variable, Version]{Variable: variable, Version: version}]
	return id, ok
}

// CommittedWrite is the last write of a variable within a committed
// transaction, alongside its EventID.
type CommittedWrite[Version any] struct {
	Version Version
	EventID EventID
}

// CommittedWrites maps (transaction, variable) to the transaction's last
// committed write of that variable. "Last" matters because a transaction
// may write the same variable more than once; only the final value is
// observable by other transactions.
func CommittedWrites[Variable, Version comparable](sessions []Session[Variable, Version]) map[transactionVariable[Variable]]CommittedWrite[Version] {
	out := make(map[transactionVariable[Variable]]CommittedWrite[Version])

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			if !txn.Committed {
				continue
			}
			txnID := TransactionID{SessionID: sessionID, SessionHeight: uint64(txnHeight)}
			for evHeight, event := range txn.Events {
				if event.Kind != Write {
					continue
				}
				id := EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}
				out[transactionVariable[Variable]{TransactionID: txnID, Variable: event.Variable}] = CommittedWrite[Version]{
					Version: event.Version,
					EventID: id,
				}
			}
		}
	}
	return out
}

type transactionVariable[Variable comparable] struct {
	TransactionID TransactionID
	Variable      Variable
}

// LookupCommittedWrite looks up the last committed write of variable within
// transaction txnID, from the map returned by CommittedWrites.
func LookupCommittedWrite[Variable, Version comparable](committed map[transactionVariable[Variable]]CommittedWrite[Version], txnID TransactionID, variable Variable) (CommittedWrite[Version], bool) {
	cw, ok := committed[transactionVariable[Variable]{TransactionID: txnID, Variable: variable}]
	return cw, ok
}

// ConsistentLocalReads checks that within a transaction, once a variable is
// written locally, every subsequent local read of it observes that local
// write's version.
func ConsistentLocalReads[Variable, Version comparable](sessions []Session[Variable, Version]) error {
	allWrites, err := AllWrites(sessions)
	if err != nil {
		return err
	}

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			txnID := TransactionID{SessionID: sessionID, SessionHeight: uint64(txnHeight)}
			localVersion := make(map[Variable]Version)
			localWritten := make(map[Variable]bool)

			for evHeight, event := range txn.Events {
				evID := EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}
				switch event.Kind {
				case Write:
					localVersion[event.Variable] = event.Version
					localWritten[event.Variable] = true
				case Read:
					writeEventID, ok := ResolveRead(allWrites, event.Variable, event.Version, event.HasVersion)
					if !ok {
						return &IncompleteHistoryError[Variable, Version]{Event: event, ID: evID}
					}
					if writeEventID.TransactionID() != txnID {
						continue
					}
					if !localWritten[event.Variable] || localVersion[event.Variable] != event.Version {
						return &InconsistentLocalReadError[Variable, Version]{
							ReadEventID:  evID,
							WriteEventID: writeEventID,
							ReadEvent:    event,
						}
					}
				}
			}
		}
	}
	return nil
}

// CommittedExternalReads checks that an external read observes a committed
// write, and that write must be the last write of the
// variable within its transaction (otherwise the read observed a value that
// its own writer later overwrote, before ever committing it externally).
func CommittedExternalReads[Variable, Version comparable](sessions []Session[Variable, Version]) error {
	allWrites, err := AllWrites(sessions)
	if err != nil {
		return err
	}
	committed := CommittedWrites[Variable, Version](sessions)

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			txnID := TransactionID{SessionID: sessionID, SessionHeight: uint64(txnHeight)}
			for evHeight, event := range txn.Events {
				if event.Kind != Read {
					continue
				}
				evID := EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}
				writeEventID, ok := ResolveRead(allWrites, event.Variable, event.Version, event.HasVersion)
				if !ok {
					return &IncompleteHistoryError[Variable, Version]{Event: event, ID: evID}
				}
				writerTxn := writeEventID.TransactionID()
				if writerTxn.IsRoot() || writerTxn == txnID {
					continue
				}
				cw, ok := committed[transactionVariable[Variable]{TransactionID: writerTxn, Variable: event.Variable}]
				if !ok {
					return &UncommittedWriteError[Variable, Version]{
						ReadEvent:    event,
						ReadEventID:  evID,
						WriteEventID: writeEventID,
					}
				}
				if cw.EventID != writeEventID {
					return &OverwrittenReadError[Variable, Version]{
						ReadEvent:               event,
						ReadEventID:             evID,
						OverwrittenWriteEventID: writeEventID,
						CommittedWriteEvent:     WriteVersion[Variable, Version](event.Variable, cw.Version),
						CommittedWriteEventID:   cw.EventID,
					}
				}
			}
		}
	}
	return nil
}

// IsValidHistory runs the structural checks that do not depend on
// committed-order acyclicity: consistent local reads, then committed
// external reads. It is the "is_valid_history" precondition every
// saturation checker runs first.
func IsValidHistory[Variable, Version comparable](sessions []Session[Variable, Version]) error {
	if err := ConsistentLocalReads(sessions); err != nil {
		return err
	}
	return CommittedExternalReads(sessions)
}

// CheckNonRepeatableRead checks that within one transaction, two external
// reads of the same variable resolve to the same writer.
func CheckNonRepeatableRead[Variable, Version comparable](sessions []Session[Variable, Version]) error {
	allWrites, err := AllWrites(sessions)
	if err != nil {
		return err
	}

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			txnID := TransactionID{SessionID: sessionID, SessionHeight: uint64(txnHeight)}
			firstExternal := make(map[Variable]EventID)

			for evHeight, event := range txn.Events {
				if event.Kind != Read {
					continue
				}
				evID := EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}
				writeEventID, ok := ResolveRead(allWrites, event.Variable, event.Version, event.HasVersion)
				if !ok {
					return &IncompleteHistoryError[Variable, Version]{Event: event, ID: evID}
				}
				if writeEventID.TransactionID() == txnID {
					continue
				}
				if prev, ok := firstExternal[event.Variable]; ok {
					if prev != writeEventID {
						return &NonRepeatableReadError[Variable, Version]{
							ReadEvent:     event,
							ReadEventID:   evID,
							WriteEventIDs: [2]EventID{prev, writeEventID},
						}
					}
				} else {
					firstExternal[event.Variable] = writeEventID
				}
			}
		}
	}
	return nil
}
