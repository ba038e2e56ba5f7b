package graph

import "testing"

func TestSimpleGraph(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.AddEdge(4, 5)

	if !g.HasEdge(1, 2) || !g.HasEdge(2, 3) || !g.HasEdge(3, 4) || !g.HasEdge(4, 5) {
		t.Fatal("expected direct edges to be present")
	}
	if g.HasEdge(1, 3) || g.HasEdge(2, 4) || g.HasEdge(3, 5) {
		t.Fatal("unexpected direct edge")
	}
	if g.HasCycle() {
		t.Fatal("chain graph should be acyclic")
	}

	closure := g.Closure()
	want := map[int][]int{
		1: {2, 3, 4, 5},
		2: {3, 4, 5},
		3: {4, 5},
		4: {5},
		5: {},
	}
	for v, targets := range want {
		for _, tgt := range targets {
			if !closure.HasEdge(v, tgt) {
				t.Errorf("closure missing edge %d -> %d", v, tgt)
			}
		}
		if len(closure.AdjMap[v]) != len(targets) {
			t.Errorf("closure[%d] = %v, want %v", v, closure.AdjMap[v], targets)
		}
	}
}

func TestCycle(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.AddEdge(4, 5)
	g.AddEdge(5, 1)

	if !g.HasCycle() {
		t.Fatal("expected cycle")
	}
}

func TestUnionCycle(t *testing.T) {
	g1 := NewDiGraph[int]()
	g1.AddEdge(1, 2)
	g1.AddEdge(2, 3)
	g1.AddEdge(3, 4)
	g1.AddEdge(4, 5)
	if g1.HasCycle() {
		t.Fatal("g1 should be acyclic")
	}

	g2 := NewDiGraph[int]()
	g2.AddEdge(5, 6)
	g2.AddEdge(6, 7)
	g2.AddEdge(7, 8)
	g2.AddEdge(8, 1)
	if g2.HasCycle() {
		t.Fatal("g2 should be acyclic")
	}

	if !g1.Union(g2) {
		t.Fatal("union should report a change")
	}
	if !g1.HasCycle() {
		t.Fatal("union should introduce a cycle")
	}
}

func TestTopologicalSortAcyclic(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(1, 3)

	order, ok := g.TopologicalSort()
	if !ok {
		t.Fatal("expected a topological order")
	}
	pos := map[int]int{}
	for i, v := range order {
		pos[v] = i
	}
	if !(pos[1] < pos[2] && pos[2] < pos[3] && pos[1] < pos[3]) {
		t.Fatalf("order %v violates edges", order)
	}
}

func TestTopologicalSortCyclic(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)

	if _, ok := g.TopologicalSort(); ok {
		t.Fatal("expected no topological order for a cyclic graph")
	}
}

func TestTopologicalSortEmpty(t *testing.T) {
	g := NewDiGraph[int]()
	order, ok := g.TopologicalSort()
	if !ok || len(order) != 0 {
		t.Fatalf("expected empty order, got %v ok=%v", order, ok)
	}
}

func TestFindCycleEdgeAcyclic(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	if _, _, ok := g.FindCycleEdge(); ok {
		t.Fatal("expected no cycle edge in an acyclic graph")
	}
}

func TestFindCycleEdgeCyclic(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)
	g.AddEdge(3, 4) // 4 is not on the cycle

	a, b, ok := g.FindCycleEdge()
	if !ok {
		t.Fatal("expected a cycle edge")
	}
	onCycle := map[int]bool{1: true, 2: true, 3: true}
	if !onCycle[a] || !onCycle[b] {
		t.Fatalf("cycle edge (%d, %d) should have both endpoints on the cycle", a, b)
	}
}

func edgeSlice(pairs [][2]int) []Edge[int] {
	out := make([]Edge[int], len(pairs))
	for i, p := range pairs {
		out[i] = Edge[int]{Source: p[0], Target: p[1]}
	}
	return out
}

func TestIncrementalClosureFromEmpty(t *testing.T) {
	pairs := [][2]int{{0, 1}, {1, 2}, {0, 3}, {3, 4}}

	full := NewDiGraph[int]()
	for _, p := range pairs {
		full.AddEdge(p[0], p[1])
	}
	expected := full.Closure()

	incremental := NewDiGraph[int]()
	incremental.IncrementalClosure(edgeSlice(pairs))

	assertSameGraph(t, incremental, expected)
}

func TestIncrementalClosureExtendsClosedGraph(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g = g.Closure()

	changed := g.IncrementalClosure(edgeSlice([][2]int{{2, 3}}))
	if !changed {
		t.Fatal("expected a change")
	}

	expected := NewDiGraph[int]()
	expected.AddEdge(0, 1)
	expected.AddEdge(1, 2)
	expected.AddEdge(2, 3)
	expected = expected.Closure()

	assertSameGraph(t, g, expected)
}

func TestIncrementalClosureNoChange(t *testing.T) {
	g := NewDiGraph[int]()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g = g.Closure()

	if g.IncrementalClosure(edgeSlice([][2]int{{0, 2}})) {
		t.Fatal("expected no change, edge already implied by closure")
	}
}

func assertSameGraph(t *testing.T, got, want *DiGraph[int]) {
	t.Helper()
	if len(got.AdjMap) != len(want.AdjMap) {
		t.Fatalf("vertex count mismatch: got %d want %d", len(got.AdjMap), len(want.AdjMap))
	}
	for v, neighbors := range want.AdjMap {
		gotNeighbors, ok := got.AdjMap[v]
		if !ok {
			t.Fatalf("missing vertex %v", v)
			continue
		}
		if len(gotNeighbors) != len(neighbors) {
			t.Fatalf("neighbor count mismatch for %v: got %v want %v", v, gotNeighbors, neighbors)
		}
		for n := range neighbors {
			if _, ok := gotNeighbors[n]; !ok {
				t.Fatalf("missing edge %v -> %v", v, n)
			}
		}
	}
}
