// Package graph provides the adjacency-map directed and undirected graphs
// used throughout the consistency checker: session order, visibility
// relations, write-read dependencies, and the communication graph used by
// decomposition.
package graph

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DiGraph is a directed graph backed by an adjacency map. Each vertex of
// type T maps to the set of its outgoing neighbors. Vertices are created
// implicitly by AddEdge, or explicitly via AddVertex. Self-loops are
// permitted.
type DiGraph[T comparable] struct {
	AdjMap map[T]map[T]struct{}
}

// NewDiGraph returns an empty graph.
func NewDiGraph[T comparable]() *DiGraph[T] {
	return &DiGraph[T]{AdjMap: make(map[T]map[T]struct{})}
}

// AddEdge inserts a directed edge from source to target, creating both
// vertices if they are not already present.
func (g *DiGraph[T]) AddEdge(source, target T) {
	if g.AdjMap == nil {
		g.AdjMap = make(map[T]map[T]struct{})
	}
	neighbors, ok := g.AdjMap[source]
	if !ok {
		neighbors = make(map[T]struct{})
		g.AdjMap[source] = neighbors
	}
	neighbors[target] = struct{}{}
	g.AddVertex(target)
}

// AddEdges inserts directed edges from source to every vertex in targets.
func (g *DiGraph[T]) AddEdges(source T, targets []T) {
	for _, t := range targets {
		g.AddEdge(source, t)
	}
}

// AddVertex adds a vertex with no outgoing edges, if not already present.
func (g *DiGraph[T]) AddVertex(v T) {
	if g.AdjMap == nil {
		g.AdjMap = make(map[T]map[T]struct{})
	}
	if _, ok := g.AdjMap[v]; !ok {
		g.AdjMap[v] = make(map[T]struct{})
	}
}

// HasEdge reports whether an edge from source to target exists.
func (g *DiGraph[T]) HasEdge(source, target T) bool {
	neighbors, ok := g.AdjMap[source]
	if !ok {
		return false
	}
	_, ok = neighbors[target]
	return ok
}

// ChildrenOf returns the outgoing neighbors of v, or nil if v is absent.
func (g *DiGraph[T]) ChildrenOf(v T) map[T]struct{} {
	return g.AdjMap[v]
}

// Vertices returns all vertices of the graph, in arbitrary order.
func (g *DiGraph[T]) Vertices() []T {
	return maps.Keys(g.AdjMap)
}

// HasCycle reports whether the graph contains a cycle.
func (g *DiGraph[T]) HasCycle() bool {
	_, ok := g.TopologicalSort()
	return !ok
}

// IsAcyclic reports whether the graph has no cycles.
func (g *DiGraph[T]) IsAcyclic() bool {
	return !g.HasCycle()
}

func (g *DiGraph[T]) inDegrees() map[T]int {
	inDegree := make(map[T]int, len(g.AdjMap))
	for v := range g.AdjMap {
		if _, ok := inDegree[v]; !ok {
			inDegree[v] = 0
		}
	}
	for _, neighbors := range g.AdjMap {
		for n := range neighbors {
			inDegree[n]++
		}
	}
	return inDegree
}

// TopologicalSort returns a valid topological ordering of the vertices
// using Kahn's algorithm, or (nil, false) if the graph contains a cycle.
// Time complexity O(V+E).
func (g *DiGraph[T]) TopologicalSort() ([]T, bool) {
	inDegree := g.inDegrees()

	queue := make([]T, 0)
	for v, d := range inDegree {
		if d == 0 {
			queue = append(queue, v)
		}
	}
	// Sort the initial frontier for a deterministic result across runs;
	// the algorithm itself has no ordering requirement.
	slices.SortFunc(queue, func(a, b T) int {
		return genericCompare(a, b)
	})

	result := make([]T, 0, len(g.AdjMap))
	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		result = append(result, v)

		neighbors := make([]T, 0, len(g.AdjMap[v]))
		for n := range g.AdjMap[v] {
			neighbors = append(neighbors, n)
		}
		slices.SortFunc(neighbors, genericCompare[T])
		for _, n := range neighbors {
			inDegree[n]--
			if inDegree[n] == 0 {
				queue = append(queue, n)
			}
		}
	}

	if len(result) != len(g.AdjMap) {
		return nil, false
	}
	return result, true
}

// FindCycleEdge returns an edge (a, b) that participates in a cycle, or
// (zero, zero, false) if the graph is acyclic. It strips all in-degree-0
// vertices iteratively (Kahn's algorithm without collecting the order),
// then returns any remaining edge whose endpoints both survived the strip.
// Time complexity O(V+E).
func (g *DiGraph[T]) FindCycleEdge() (a, b T, ok bool) {
	inDegree := g.inDegrees()

	queue := make([]T, 0)
	for v, d := range inDegree {
		if d == 0 {
			queue = append(queue, v)
		}
	}

	removed := make(map[T]struct{}, len(g.AdjMap))
	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		removed[v] = struct{}{}
		for n := range g.AdjMap[v] {
			inDegree[n]--
			if inDegree[n] == 0 {
				queue = append(queue, n)
			}
		}
	}

	srcs := maps.Keys(g.AdjMap)
	slices.SortFunc(srcs, genericCompare[T])
	for _, src := range srcs {
		if _, gone := removed[src]; gone {
			continue
		}
		dsts := maps.Keys(g.AdjMap[src])
		slices.SortFunc(dsts, genericCompare[T])
		for _, dst := range dsts {
			if _, gone := removed[dst]; !gone {
				return src, dst, true
			}
		}
	}
	var zero T
	return zero, zero, false
}

func (g *DiGraph[T]) reachableFrom(source T) map[T]struct{} {
	reachable := make(map[T]struct{})
	stack := []T{source}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for n := range g.AdjMap[node] {
			if _, seen := reachable[n]; !seen {
				reachable[n] = struct{}{}
				stack = append(stack, n)
			}
		}
	}
	return reachable
}

// Closure computes the transitive closure of the graph: an edge (u, v)
// exists in the result iff v is reachable from u in the receiver.
func (g *DiGraph[T]) Closure() *DiGraph[T] {
	result := NewDiGraph[T]()
	for v := range g.AdjMap {
		result.AddVertex(v)
		for r := range g.reachableFrom(v) {
			result.AddEdge(v, r)
		}
	}
	return result
}

// Union merges all edges of other into the receiver and reports whether
// any new edge was added.
func (g *DiGraph[T]) Union(other *DiGraph[T]) bool {
	changed := false
	for source, neighbors := range other.AdjMap {
		g.AddVertex(source)
		for n := range neighbors {
			if !g.HasEdge(source, n) {
				g.AddEdge(source, n)
				changed = true
			}
		}
	}
	return changed
}

// Edge is a (source, target) pair.
type Edge[T comparable] struct {
	Source T
	Target T
}

// ToEdgeList returns all edges of the graph as a slice of pairs.
func (g *DiGraph[T]) ToEdgeList() []Edge[T] {
	edges := make([]Edge[T], 0)
	srcs := maps.Keys(g.AdjMap)
	slices.SortFunc(srcs, genericCompare[T])
	for _, src := range srcs {
		dsts := maps.Keys(g.AdjMap[src])
		slices.SortFunc(dsts, genericCompare[T])
		for _, dst := range dsts {
			edges = append(edges, Edge[T]{Source: src, Target: dst})
		}
	}
	return edges
}

// IncrementalClosure extends an already transitively-closed graph with new
// edges, maintaining the closure property incrementally: for each new edge
// (u, v), it finds Anc(u) (ancestors of u, via backward scan) and Desc(v)
// (descendants of v, via forward traversal), then adds every edge in
// Anc(u) x Desc(v) that is not already present.
//
// Precondition: the receiver must already be transitively closed. An empty
// graph is trivially closed.
//
// Returns true if any edge was added.
func (g *DiGraph[T]) IncrementalClosure(newEdges []Edge[T]) bool {
	changed := false
	for _, e := range newEdges {
		u, v := e.Source, e.Target

		ancestors := make(map[T]struct{})
		stack := []T{u}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, seen := ancestors[node]; seen {
				continue
			}
			ancestors[node] = struct{}{}
			for src, dsts := range g.AdjMap {
				if _, ok := dsts[node]; ok {
					stack = append(stack, src)
				}
			}
		}

		descendants := make(map[T]struct{})
		stack = []T{v}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, seen := descendants[node]; seen {
				continue
			}
			descendants[node] = struct{}{}
			for d := range g.AdjMap[node] {
				stack = append(stack, d)
			}
		}

		for a := range ancestors {
			for d := range descendants {
				if !g.HasEdge(a, d) {
					g.AddEdge(a, d)
					changed = true
				}
			}
		}
	}
	return changed
}

// Clone returns a deep copy of the graph.
func (g *DiGraph[T]) Clone() *DiGraph[T] {
	clone := NewDiGraph[T]()
	for v, neighbors := range g.AdjMap {
		clone.AddVertex(v)
		for n := range neighbors {
			clone.AddEdge(v, n)
		}
	}
	return clone
}
