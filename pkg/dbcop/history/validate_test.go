package history

import (
	"errors"
	"testing"
)

func TestIncompleteHistory(t *testing.T) {
	sessions := []Session[string, int]{
		{Committed(ReadEmpty[string, int]("a"))},
		{Committed(WriteVersion[string, int]("a", 0))},
		{Committed(ReadVersion[string, int]("a", 1))},
	}

	err := IsValidHistory(sessions)
	var incomplete *IncompleteHistoryError[string, int]
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteHistoryError, got %v", err)
	}
	if incomplete.ID != (EventID{SessionID: 3, SessionHeight: 0, TransactionHeight: 0}) {
		t.Fatalf("unexpected event id %v", incomplete.ID)
	}
}

func TestUncommittedReads(t *testing.T) {
	sessions := []Session[string, int]{
		{Uncommitted(WriteVersion[string, int]("a", 7))},
		{Committed(ReadVersion[string, int]("a", 7))},
	}

	err := IsValidHistory(sessions)
	var uncommitted *UncommittedWriteError[string, int]
	if !errors.As(err, &uncommitted) {
		t.Fatalf("expected UncommittedWriteError, got %v", err)
	}
	wantID := EventID{SessionID: 1, SessionHeight: 0, TransactionHeight: 0}
	if uncommitted.WriteEventID != wantID {
		t.Fatalf("unexpected write event id %v", uncommitted.WriteEventID)
	}
}

func TestOverwrittenReads(t *testing.T) {
	sessions := []Session[string, int]{
		{Committed(WriteVersion[string, int]("a", 0), WriteVersion[string, int]("a", 1))},
		{Committed(ReadVersion[string, int]("a", 0))},
	}

	err := IsValidHistory(sessions)
	var overwritten *OverwrittenReadError[string, int]
	if !errors.As(err, &overwritten) {
		t.Fatalf("expected OverwrittenReadError, got %v", err)
	}
	if overwritten.OverwrittenWriteEventID != (EventID{SessionID: 1, SessionHeight: 0, TransactionHeight: 0}) {
		t.Fatalf("unexpected overwritten event id %v", overwritten.OverwrittenWriteEventID)
	}
	if overwritten.CommittedWriteEventID != (EventID{SessionID: 1, SessionHeight: 0, TransactionHeight: 1}) {
		t.Fatalf("unexpected committed event id %v", overwritten.CommittedWriteEventID)
	}
}

func TestInconsistentLocalReads(t *testing.T) {
	sessions := []Session[string, int]{
		{Committed(
			WriteVersion[string, int]("a", 0),
			ReadVersion[string, int]("a", 1),
			WriteVersion[string, int]("a", 1),
		)},
	}

	err := IsValidHistory(sessions)
	var inconsistent *InconsistentLocalReadError[string, int]
	if !errors.As(err, &inconsistent) {
		t.Fatalf("expected InconsistentLocalReadError, got %v", err)
	}
	if inconsistent.ReadEventID != (EventID{SessionID: 1, SessionHeight: 0, TransactionHeight: 1}) {
		t.Fatalf("unexpected read event id %v", inconsistent.ReadEventID)
	}
}

func TestNonRepeatableRead(t *testing.T) {
	sessions := []Session[string, int]{
		{Committed(WriteVersion[string, int]("x", 2))},
		{Committed(WriteVersion[string, int]("x", 3))},
		{Committed(ReadVersion[string, int]("x", 2), ReadVersion[string, int]("x", 3))},
	}

	if err := IsValidHistory(sessions); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	err := CheckNonRepeatableRead(sessions)
	var nonRepeatable *NonRepeatableReadError[string, int]
	if !errors.As(err, &nonRepeatable) {
		t.Fatalf("expected NonRepeatableReadError, got %v", err)
	}
}

func TestVersionZeroSentinel(t *testing.T) {
	// A read with no version and a read pinned to version 0 behave
	// identically when no explicit W(x,0) exists.
	sessions := []Session[string, int]{
		{Committed(ReadEmpty[string, int]("x"), ReadVersion[string, int]("x", 0))},
	}
	if err := IsValidHistory(sessions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hist, err := BuildAtomicHistory(sessions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := hist[TransactionID{SessionID: 1, SessionHeight: 0}]
	writer, ok := info.Reads["x"]
	if !ok || !writer.IsRoot() {
		t.Fatalf("expected both reads to resolve to the root transaction, got %v ok=%v", writer, ok)
	}
}

func TestVersionZeroExplicitWriteShadowsSentinel(t *testing.T) {
	sessions := []Session[string, int]{
		{Committed(WriteVersion[string, int]("x", 0))},
		{Committed(ReadEmpty[string, int]("x"))},
	}
	if err := IsValidHistory(sessions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hist, err := BuildAtomicHistory(sessions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reader := hist[TransactionID{SessionID: 2, SessionHeight: 0}]
	writer, ok := reader.Reads["x"]
	if !ok || writer != (TransactionID{SessionID: 1, SessionHeight: 0}) {
		t.Fatalf("expected read of x to resolve to the explicit W(x,0) transaction, got %v ok=%v", writer, ok)
	}
}
