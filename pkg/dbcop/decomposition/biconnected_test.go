package decomposition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rnbguy/dbcop/pkg/dbcop/decomposition"
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
)

func setOf(vs ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(vs))
	for _, v := range vs {
		out[v] = struct{}{}
	}
	return out
}

func containsSet(components []map[int]struct{}, want map[int]struct{}) bool {
	for _, c := range components {
		if len(c) != len(want) {
			continue
		}
		match := true
		for v := range want {
			if _, ok := c[v]; !ok {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestBiconnectedPair(t *testing.T) {
	g := graph.NewUGraph[int]()
	g.AddEdge(0, 1)

	artPoints, components, nonGroup := decomposition.GetVertexComponents(g)

	require.Empty(t, artPoints)
	require.Empty(t, components)
	require.Len(t, nonGroup, 1)
	require.True(t, containsSet(nonGroup, setOf(0, 1)))
}

func TestBiconnectedComponent(t *testing.T) {
	g := graph.NewUGraph[int]()
	g.AddEdge(1, 0)
	g.AddEdge(0, 2)
	g.AddEdge(2, 1)
	g.AddEdge(0, 3)
	g.AddEdge(3, 5)
	g.AddEdge(3, 4)
	g.AddVertex(6)

	artPoints, components, nonGroup := decomposition.GetVertexComponents(g)

	require.Equal(t, setOf(0, 3), artPoints)

	require.True(t, containsSet(components, setOf(0, 1, 2)))
	require.True(t, containsSet(components, setOf(3, 4)))
	require.True(t, containsSet(components, setOf(0, 3)))
	require.True(t, containsSet(components, setOf(3, 5)))

	require.Len(t, nonGroup, 1)
	require.True(t, containsSet(nonGroup, setOf(6)))
}

func TestBiconnectedWikipedia(t *testing.T) {
	g := graph.NewUGraph[int]()
	addEdges := func(v int, ns ...int) {
		for _, n := range ns {
			g.AddEdge(v, n)
		}
	}
	addEdges(0, 1, 9)
	addEdges(1, 2, 6, 8)
	addEdges(2, 3, 4)
	addEdges(3, 4)
	addEdges(4, 5)
	addEdges(5, 6)
	addEdges(6, 7)
	addEdges(9, 10)
	addEdges(10, 11, 12)
	addEdges(11, 13)
	addEdges(12, 13)

	artPoints, components, nonGroup := decomposition.GetVertexComponents(g)

	require.Equal(t, setOf(0, 1, 6, 9, 10), artPoints)

	require.True(t, containsSet(components, setOf(0, 1)))
	require.True(t, containsSet(components, setOf(1, 8)))
	require.True(t, containsSet(components, setOf(6, 7)))
	require.True(t, containsSet(components, setOf(9, 10)))
	require.True(t, containsSet(components, setOf(0, 9)))
	require.True(t, containsSet(components, setOf(10, 11, 12, 13)))
	require.True(t, containsSet(components, setOf(1, 2, 3, 4, 5, 6)))

	require.Empty(t, nonGroup)
}
