package decomposition

import (
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
)

// biconnectedWalker finds articulation points and biconnected components of
// an undirected graph via a single DFS, tracking discovery depth and the
// lowpoint (the shallowest depth reachable via one back edge) of each
// vertex. Vertices with fewer than two neighbors are handled separately by
// GetVertexComponents, since the classic algorithm assumes non-leaf,
// non-isolated vertices.
type biconnectedWalker[T comparable] struct {
	g          *graph.UGraph[T]
	visited    map[T]struct{}
	depth      map[T]uint64
	lowpoint   map[T]uint64
	parent     map[T]T
	hasParent  map[T]struct{}
	stack      []T
	components []map[T]struct{}
	artPoints  map[T]struct{}
}

// GetVertexComponents partitions the connected sub-graphs of g with at
// least 3 vertices into biconnected components and articulation points, and
// reports every singleton or isolated pair separately in nonGroup: a
// singleton vertex has no neighbors, and a pair has exactly one edge
// between two degree-1 vertices. Neither forms a meaningful biconnected
// component on its own, so callers of Theorem 5.2 treat them as trivially
// consistent (any history with at most one transaction, or with just a
// read-write pair, is validated by the checker directly instead).
func GetVertexComponents[T comparable](g *graph.UGraph[T]) (map[T]struct{}, []map[T]struct{}, []map[T]struct{}) {
	w := &biconnectedWalker[T]{
		g:         g,
		visited:   make(map[T]struct{}),
		depth:     make(map[T]uint64),
		lowpoint:  make(map[T]uint64),
		parent:    make(map[T]T),
		hasParent: make(map[T]struct{}),
		artPoints: make(map[T]struct{}),
	}

	var nonGroup []map[T]struct{}

	for _, v := range g.Vertices() {
		switch len(g.AdjMap[v]) {
		case 0:
			nonGroup = append(nonGroup, map[T]struct{}{v: {}})
		case 1:
			if _, done := w.visited[v]; done {
				continue
			}
			var partner T
			for n := range g.AdjMap[v] {
				partner = n
			}
			if len(g.AdjMap[partner]) == 1 {
				nonGroup = append(nonGroup, map[T]struct{}{v: {}, partner: {}})
				w.visited[partner] = struct{}{}
			}
			// leaf vertex of a connected sub-graph with >= 3 vertices is
			// processed through its neighbor instead
		default:
			w.walk(v, 0)
		}
	}

	return w.artPoints, w.components, nonGroup
}

func (w *biconnectedWalker[T]) walk(vertex T, depth uint64) {
	if _, ok := w.visited[vertex]; ok {
		return
	}
	w.visited[vertex] = struct{}{}
	w.depth[vertex] = depth
	w.lowpoint[vertex] = depth
	w.stack = append(w.stack, vertex)

	children := 0
	for neighbor := range w.g.AdjMap[vertex] {
		if _, ok := w.visited[neighbor]; !ok {
			w.parent[neighbor] = vertex
			w.hasParent[neighbor] = struct{}{}
			children++
			w.walk(neighbor, depth+1)

			if w.lowpoint[neighbor] >= w.depth[vertex] {
				// pop the child's subtree; the vertex itself stays on the
				// stack, there may be more components hanging off it
				component := map[T]struct{}{vertex: {}}
				for len(w.stack) > 0 {
					v := w.stack[len(w.stack)-1]
					w.stack = w.stack[:len(w.stack)-1]
					component[v] = struct{}{}
					if v == neighbor {
						break
					}
				}
				w.components = append(w.components, component)
				// the DFS root is an articulation point only when it has
				// more than one DFS child
				if _, hasParent := w.hasParent[vertex]; hasParent || children > 1 {
					w.artPoints[vertex] = struct{}{}
				}
			}
			if w.lowpoint[neighbor] < w.lowpoint[vertex] {
				w.lowpoint[vertex] = w.lowpoint[neighbor]
			}
		} else if p, ok := w.parent[vertex]; !ok || p != neighbor {
			if w.depth[neighbor] < w.lowpoint[vertex] {
				w.lowpoint[vertex] = w.depth[neighbor]
			}
		}
	}
}
