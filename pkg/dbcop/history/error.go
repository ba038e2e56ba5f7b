package history

import "fmt"

// ValidationError is the closed family of structural ("NonAtomic") errors a
// raw history can fail with. Each concrete type below implements it; use a
// type switch or errors.As to inspect.
type ValidationError interface {
	error
	validationError()
}

// IncompleteHistoryError: a read observes a version that was never
// written.
type IncompleteHistoryError[Variable, Version comparable] struct {
	Event Event[Variable, Version]
	ID    EventID
}

func (e *IncompleteHistoryError[Variable, Version]) Error() string {
	return fmt.Sprintf("incomplete history: %s at %s reads a version that was never written", e.Event, e.ID)
}
func (*IncompleteHistoryError[Variable, Version]) validationError() {}

// SameVersionWriteError: two write events share a (variable, version).
type SameVersionWriteError[Variable, Version comparable] struct {
	Event Event[Variable, Version]
	IDs   [2]EventID
}

func (e *SameVersionWriteError[Variable, Version]) Error() string {
	return fmt.Sprintf("same version written twice: %s at %s and %s", e.Event, e.IDs[0], e.IDs[1])
}
func (*SameVersionWriteError[Variable, Version]) validationError() {}

// InconsistentLocalReadError: a local read disagrees with an earlier
// write of the same variable in the same transaction.
type InconsistentLocalReadError[Variable, Version comparable] struct {
	ReadEventID  EventID
	WriteEventID EventID
	ReadEvent    Event[Variable, Version]
}

func (e *InconsistentLocalReadError[Variable, Version]) Error() string {
	return fmt.Sprintf("inconsistent local read: %s at %s disagrees with local write at %s",
		e.ReadEvent, e.ReadEventID, e.WriteEventID)
}
func (*InconsistentLocalReadError[Variable, Version]) validationError() {}

// UncommittedWriteError: a read observes a write whose transaction never
// committed.
type UncommittedWriteError[Variable, Version comparable] struct {
	ReadEvent    Event[Variable, Version]
	ReadEventID  EventID
	WriteEventID EventID
}

func (e *UncommittedWriteError[Variable, Version]) Error() string {
	return fmt.Sprintf("uncommitted write read: %s at %s reads uncommitted write at %s",
		e.ReadEvent, e.ReadEventID, e.WriteEventID)
}
func (*UncommittedWriteError[Variable, Version]) validationError() {}

// OverwrittenReadError: a read observes a version that was overwritten
// later within its own writer's transaction.
type OverwrittenReadError[Variable, Version comparable] struct {
	ReadEvent               Event[Variable, Version]
	ReadEventID             EventID
	OverwrittenWriteEventID EventID
	CommittedWriteEvent     Event[Variable, Version]
	CommittedWriteEventID   EventID
}

func (e *OverwrittenReadError[Variable, Version]) Error() string {
	return fmt.Sprintf("overwritten read: %s at %s reads %s which was overwritten by %s at %s",
		e.ReadEvent, e.ReadEventID, e.ReadEvent, e.CommittedWriteEvent, e.CommittedWriteEventID)
}
func (*OverwrittenReadError[Variable, Version]) validationError() {}

// NonRepeatableReadError: two external reads of the same variable in one
// transaction resolve to different writers.
type NonRepeatableReadError[Variable, Version comparable] struct {
	ReadEvent     Event[Variable, Version]
	ReadEventID   EventID
	WriteEventIDs [2]EventID
}

func (e *NonRepeatableReadError[Variable, Version]) Error() string {
	return fmt.Sprintf("non-repeatable read: %s at %s resolves to two different writers (%s, %s)",
		e.ReadEvent, e.ReadEventID, e.WriteEventIDs[0], e.WriteEventIDs[1])
}
func (*NonRepeatableReadError[Variable, Version]) validationError() {}
