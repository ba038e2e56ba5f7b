// Package decomposition builds the communication (conflict) graph over
// sessions and splits it into biconnected components, per paper Section 5,
// Theorem 5.2: a history satisfies a consistency level iff every biconnected
// component of its communication graph, restricted to that component's
// sessions, does.
package decomposition

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
	"github.com/rnbguy/dbcop/pkg/dbcop/po"
)

// CommunicationGraph builds the session-level communication graph from an
// atomic transaction partial order: two sessions are connected iff they
// both access (read or write) at least one common variable.
func CommunicationGraph[Variable comparable](p *po.AtomicTransactionPO[Variable]) *graph.UGraph[uint64] {
	g := graph.NewUGraph[uint64]()

	varToSessions := make(map[Variable]map[uint64]struct{})

	for txnID, info := range p.History {
		sessionID := txnID.SessionID
		g.AddVertex(sessionID)

		for x := range info.Writes {
			if varToSessions[x] == nil {
				varToSessions[x] = make(map[uint64]struct{})
			}
			varToSessions[x][sessionID] = struct{}{}
		}
		for x := range info.Reads {
			if varToSessions[x] == nil {
				varToSessions[x] = make(map[uint64]struct{})
			}
			varToSessions[x][sessionID] = struct{}{}
		}
	}

	for _, sessions := range varToSessions {
		ids := make([]uint64, 0, len(sessions))
		for s := range sessions {
			ids = append(ids, s)
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				g.AddEdge(ids[i], ids[j])
			}
		}
	}

	return g
}

// Restrict returns the sub-history containing only the transactions whose
// session ID (1-based) is in ids, suitable for checking one biconnected
// component in isolation.
func Restrict[Variable, Version comparable](sessions []history.Session[Variable, Version], ids map[uint64]struct{}) []history.Session[Variable, Version] {
	out := make([]history.Session[Variable, Version], len(sessions))
	for i, s := range sessions {
		sessionID := uint64(i + 1)
		if _, ok := ids[sessionID]; ok {
			out[i] = s
		} else {
			out[i] = history.Session[Variable, Version]{}
		}
	}
	return out
}
