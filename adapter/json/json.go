// Package json binds the generic dbcop history model to a concrete JSON
// wire format: variables are strings, versions are 64-bit unsigned integers.
// It is a flat, JSON-tagged mirror of the in-memory history types, with
// Encode/Decode functions at the boundary instead of a tagged union.
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

// Variable and Version are the concrete type bindings this adapter uses.
type (
	Variable = string
	Version  = uint64
)

// wireEvent is the JSON-serializable form of history.Event[Variable, Version].
// Kind is "read" or "write"; Version is omitted for a read with no pinned
// version (history.ReadEmpty).
type wireEvent struct {
	Kind       string  `json:"kind"`
	Variable   Variable `json:"variable"`
	Version    *Version `json:"version,omitempty"`
}

// wireTransaction is the JSON-serializable form of history.Transaction.
type wireTransaction struct {
	Events    []wireEvent `json:"events"`
	Committed bool        `json:"committed"`
}

// wireSession is the JSON-serializable form of history.Session.
type wireSession []wireTransaction

// History is the top-level wire document: metadata plus the session data,
// mirroring the testgen generator's History{params, info, start, end, data}
// wrapper, trimmed to what a verification adapter needs.
type History struct {
	ID       uint64        `json:"id,omitempty"`
	Info     string        `json:"info,omitempty"`
	Sessions []wireSession `json:"sessions"`
}

func eventToWire(e history.Event[Variable, Version]) wireEvent {
	w := wireEvent{Variable: e.Variable}
	switch e.Kind {
	case history.Write:
		w.Kind = "write"
		v := e.Version
		w.Version = &v
	default:
		w.Kind = "read"
		if e.HasVersion {
			v := e.Version
			w.Version = &v
		}
	}
	return w
}

func eventFromWire(w wireEvent) (history.Event[Variable, Version], error) {
	switch w.Kind {
	case "write":
		if w.Version == nil {
			return history.Event[Variable, Version]{}, fmt.Errorf("adapter/json: write of %q has no version", w.Variable)
		}
		return history.WriteVersion[Variable, Version](w.Variable, *w.Version), nil
	case "read":
		if w.Version == nil {
			return history.ReadEmpty[Variable, Version](w.Variable), nil
		}
		return history.ReadVersion[Variable, Version](w.Variable, *w.Version), nil
	default:
		return history.Event[Variable, Version]{}, fmt.Errorf("adapter/json: unknown event kind %q", w.Kind)
	}
}

func transactionToWire(t history.Transaction[Variable, Version]) wireTransaction {
	events := make([]wireEvent, len(t.Events))
	for i, e := range t.Events {
		events[i] = eventToWire(e)
	}
	return wireTransaction{Events: events, Committed: t.Committed}
}

func transactionFromWire(w wireTransaction) (history.Transaction[Variable, Version], error) {
	events := make([]history.Event[Variable, Version], len(w.Events))
	for i, we := range w.Events {
		e, err := eventFromWire(we)
		if err != nil {
			return history.Transaction[Variable, Version]{}, err
		}
		events[i] = e
	}
	return history.Transaction[Variable, Version]{Events: events, Committed: w.Committed}, nil
}

// Encode writes sessions to w as a History document.
func Encode(w io.Writer, sessions []history.Session[Variable, Version]) error {
	return EncodeHistory(w, History{}, sessions)
}

// EncodeHistory writes sessions to w, carrying along meta's ID and Info.
func EncodeHistory(w io.Writer, meta History, sessions []history.Session[Variable, Version]) error {
	doc := meta
	doc.Sessions = make([]wireSession, len(sessions))
	for i, s := range sessions {
		ws := make(wireSession, len(s))
		for j, t := range s {
			ws[j] = transactionToWire(t)
		}
		doc.Sessions[i] = ws
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a History document from r and returns its session data.
func Decode(r io.Reader) ([]history.Session[Variable, Version], error) {
	sessions, _, err := DecodeHistory(r)
	return sessions, err
}

// DecodeHistory reads a History document from r, returning both its
// session data and the document (with Sessions cleared, so callers that
// only want the metadata are not holding onto a duplicate copy).
func DecodeHistory(r io.Reader) ([]history.Session[Variable, Version], History, error) {
	var doc History
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, History{}, fmt.Errorf("adapter/json: decoding history: %w", err)
	}

	sessions := make([]history.Session[Variable, Version], len(doc.Sessions))
	for i, ws := range doc.Sessions {
		s := make(history.Session[Variable, Version], len(ws))
		for j, wt := range ws {
			t, err := transactionFromWire(wt)
			if err != nil {
				return nil, History{}, err
			}
			s[j] = t
		}
		sessions[i] = s
	}

	meta := doc
	meta.Sessions = nil
	return sessions, meta, nil
}
