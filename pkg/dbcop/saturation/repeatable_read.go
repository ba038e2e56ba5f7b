package saturation

import "github.com/rnbguy/dbcop/pkg/dbcop/history"

// CheckRepeatableRead checks whether sessions satisfies Repeatable-Read:
// Committed-Read, plus within a transaction, once a variable has been read
// externally (or written locally, which pins every later read), every
// subsequent read of that variable must resolve to the same writer.
func CheckRepeatableRead[Variable, Version comparable](sessions []history.Session[Variable, Version]) error {
	if err := history.IsValidHistory(sessions); err != nil {
		return err
	}
	if _, err := CheckCommittedRead(sessions); err != nil {
		return err
	}

	allWrites, err := history.AllWrites(sessions)
	if err != nil {
		return err
	}

	for sessionIdx, session := range sessions {
		sessionID := uint64(sessionIdx + 1)
		for txnHeight, txn := range session {
			latestWrites := make(map[Variable]history.EventID)

			for evHeight, event := range txn.Events {
				evID := history.EventID{SessionID: sessionID, SessionHeight: uint64(txnHeight), TransactionHeight: uint64(evHeight)}

				switch event.Kind {
				case history.Write:
					latestWrites[event.Variable] = evID
				case history.Read:
					writeEventID, ok := history.ResolveRead(allWrites, event.Variable, event.Version, event.HasVersion)
					if !ok {
						return &history.IncompleteHistoryError[Variable, Version]{Event: event, ID: evID}
					}
					if localWriteEventID, ok := latestWrites[event.Variable]; ok {
						if localWriteEventID != writeEventID {
							return &history.NonRepeatableReadError[Variable, Version]{
								ReadEvent:     event,
								ReadEventID:   evID,
								WriteEventIDs: [2]history.EventID{localWriteEventID, writeEventID},
							}
						}
					} else {
						latestWrites[event.Variable] = writeEventID
					}
				}
			}
		}
	}
	return nil
}
