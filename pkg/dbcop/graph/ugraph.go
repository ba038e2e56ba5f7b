package graph

import "golang.org/x/exp/maps"

// UGraph is an undirected graph backed by a symmetric adjacency map. Used
// by decomposition for the session communication graph and by biconnected
// component analysis.
type UGraph[T comparable] struct {
	AdjMap map[T]map[T]struct{}
}

// NewUGraph returns an empty undirected graph.
func NewUGraph[T comparable]() *UGraph[T] {
	return &UGraph[T]{AdjMap: make(map[T]map[T]struct{})}
}

// AddVertex adds a vertex with no edges, if not already present.
func (g *UGraph[T]) AddVertex(v T) {
	if g.AdjMap == nil {
		g.AdjMap = make(map[T]map[T]struct{})
	}
	if _, ok := g.AdjMap[v]; !ok {
		g.AdjMap[v] = make(map[T]struct{})
	}
}

// AddEdge inserts an undirected edge between a and b, creating both
// vertices if absent.
func (g *UGraph[T]) AddEdge(a, b T) {
	g.AddVertex(a)
	g.AddVertex(b)
	g.AdjMap[a][b] = struct{}{}
	g.AdjMap[b][a] = struct{}{}
}

// HasEdge reports whether an edge between a and b exists.
func (g *UGraph[T]) HasEdge(a, b T) bool {
	neighbors, ok := g.AdjMap[a]
	if !ok {
		return false
	}
	_, ok = neighbors[b]
	return ok
}

// Vertices returns all vertices of the graph, in arbitrary order.
func (g *UGraph[T]) Vertices() []T {
	return maps.Keys(g.AdjMap)
}

// ConnectedComponents partitions the vertices into connected components via
// BFS, returning each component as a set of vertices.
func (g *UGraph[T]) ConnectedComponents() []map[T]struct{} {
	visited := make(map[T]struct{})
	components := make([]map[T]struct{}, 0)

	verts := g.Vertices()

	for _, start := range verts {
		if _, ok := visited[start]; ok {
			continue
		}
		component := make(map[T]struct{})
		queue := []T{start}
		visited[start] = struct{}{}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			component[v] = struct{}{}
			for n := range g.AdjMap[v] {
				if _, ok := visited[n]; !ok {
					visited[n] = struct{}{}
					queue = append(queue, n)
				}
			}
		}
		components = append(components, component)
	}
	return components
}
