// Package linearization implements the constrained-linearization DFS engine
// for the three NP-complete consistency levels (Prefix, Snapshot Isolation,
// Serializable): each reduces to finding a topological ordering of the
// visibility graph that additionally satisfies a level-specific constraint
// on write-phase placement.
package linearization

// Solver is the contract a consistency level implements to reuse the DFS
// search engine in Search. Vertex is the linearization graph's node type:
// a plain TransactionID for Serializable, or (TransactionID, bool) for the
// split read/write phase solvers (Prefix, Snapshot Isolation).
type Solver[Vertex comparable] interface {
	// GetRoot returns the root vertex of the visibility graph.
	GetRoot() Vertex

	// ChildrenOf returns the successors of u in the visibility graph, and
	// whether u is present in that graph.
	ChildrenOf(u Vertex) ([]Vertex, bool)

	// AllowNext reports whether v may be placed next in the linearization,
	// given the prefix already placed.
	AllowNext(linearization []Vertex, v Vertex) bool

	// Vertices returns every vertex in the graph.
	Vertices() []Vertex

	// ForwardBookKeeping updates solver state after linearization's last
	// element was just placed.
	ForwardBookKeeping(linearization []Vertex)

	// BacktrackBookKeeping undoes ForwardBookKeeping's effect for
	// linearization's last element, which is about to be popped.
	BacktrackBookKeeping(linearization []Vertex)
}

// searchState carries the DFS's mutable working set through recursion.
type searchState[Vertex comparable] struct {
	solver       Solver[Vertex]
	activeParent map[Vertex]int
	seen         map[hash128]struct{}
}

// Search runs the DFS with Zobrist-hash memoization and returns a valid
// constrained linearization, or nil if none exists.
func Search[Vertex comparable](solver Solver[Vertex]) []Vertex {
	vertices := solver.Vertices()

	activeParent := make(map[Vertex]int, len(vertices))
	for _, u := range vertices {
		if _, ok := activeParent[u]; !ok {
			activeParent[u] = 0
		}
		if children, ok := solver.ChildrenOf(u); ok {
			for _, v := range children {
				activeParent[v]++
			}
		}
	}

	// The initial placed set is empty, so the Zobrist hash starts at zero
	// regardless of which vertices seed the frontier.
	var frontier []Vertex
	for v, parents := range activeParent {
		if parents == 0 {
			frontier = append(frontier, v)
		}
	}

	state := &searchState[Vertex]{
		solver:       solver,
		activeParent: activeParent,
		seen:         make(map[hash128]struct{}),
	}

	var linearization []Vertex
	if state.dfs(frontier, &linearization, hash128{}) {
		return linearization
	}
	return nil
}

// dfs tries each candidate in frontier in turn, recursing on the updated
// frontier after placing it, and backtracking on failure. Mirrors the
// Rust engine's non_det_choices rotation: every vertex gets one attempt
// per call, popped from the front and pushed to the back once tried.
func (s *searchState[Vertex]) dfs(frontier []Vertex, linearization *[]Vertex, frontierHash hash128) bool {
	if _, ok := s.seen[frontierHash]; ok {
		return false
	}
	s.seen[frontierHash] = struct{}{}

	if len(frontier) == 0 {
		return true
	}

	remaining := append([]Vertex(nil), frontier...)
	count := len(remaining)

	for i := 0; i < count; i++ {
		u := remaining[0]
		remaining = remaining[1:]

		if !s.solver.AllowNext(*linearization, u) {
			remaining = append(remaining, u)
			continue
		}

		children, hasChildren := s.solver.ChildrenOf(u)
		newlyFree := make([]Vertex, 0)
		if hasChildren {
			for _, v := range children {
				s.activeParent[v]--
				if s.activeParent[v] == 0 {
					newlyFree = append(newlyFree, v)
				}
			}
		}

		*linearization = append(*linearization, u)
		// The memoization key is a Zobrist hash of the *placed* set, not
		// the pending frontier: forward/backtrack book-keeping is a pure
		// function of which vertices have been placed, so two branches
		// that reach the same placed set are interchangeable regardless
		// of the order they were placed in.
		nextHash := frontierHash.xor(zobristValue(u))
		s.solver.ForwardBookKeeping(*linearization)

		nextFrontier := append(append([]Vertex(nil), remaining...), newlyFree...)

		if s.dfs(nextFrontier, linearization, nextHash) {
			return true
		}

		s.solver.BacktrackBookKeeping(*linearization)
		*linearization = (*linearization)[:len(*linearization)-1]

		if hasChildren {
			for _, v := range children {
				s.activeParent[v]++
			}
		}

		remaining = append(remaining, u)
	}

	return false
}
