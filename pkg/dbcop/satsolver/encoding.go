package satsolver

import "sort"

// orderVars maps vertex pairs to before(a, b) SAT variables: before(a, b)
// is true iff a is placed before b in the extracted linearization.
type orderVars[V comparable] struct {
	solver *Solver
	vars   map[[2]V]int32
}

func newOrderVars[V comparable](solver *Solver) *orderVars[V] {
	return &orderVars[V]{solver: solver, vars: make(map[[2]V]int32)}
}

func (o *orderVars[V]) getOrCreate(a, b V) int32 {
	key := [2]V{a, b}
	if v, ok := o.vars[key]; ok {
		return v
	}
	v := o.solver.NewVar()
	o.vars[key] = v
	return v
}

func (o *orderVars[V]) beforeLit(a, b V) Lit {
	return Pos(o.getOrCreate(a, b))
}

func (o *orderVars[V]) notBeforeLit(a, b V) Lit {
	return Neg(o.getOrCreate(a, b))
}

func (o *orderVars[V]) before(a, b V) bool {
	v, ok := o.vars[[2]V{a, b}]
	if !ok {
		return false
	}
	return o.solver.Value(Pos(v))
}

// edge is a visibility precedence constraint: src must come before dst.
type edge[V any] struct {
	src, dst V
}

// encodeOrdering builds the base total-order axioms (antisymmetry,
// transitivity) over vertices, plus one unit clause per required edge, and
// returns the solver and its order variables so a caller can layer
// level-specific clauses on top.
func encodeOrdering[V comparable](vertices []V, edges []edge[V]) (*Solver, *orderVars[V]) {
	solver := NewSolver()
	vars := newOrderVars[V](solver)

	for i, a := range vertices {
		for _, b := range vertices[i+1:] {
			ab := vars.beforeLit(a, b)
			ba := vars.beforeLit(b, a)
			nab := vars.notBeforeLit(a, b)
			nba := vars.notBeforeLit(b, a)
			solver.AddClause(ab, ba)   // at least one
			solver.AddClause(nab, nba) // at most one
		}
	}

	for _, a := range vertices {
		for _, b := range vertices {
			if a == b {
				continue
			}
			for _, c := range vertices {
				if c == a || c == b {
					continue
				}
				nab := vars.notBeforeLit(a, b)
				nbc := vars.notBeforeLit(b, c)
				ac := vars.beforeLit(a, c)
				solver.AddClause(nab, nbc, ac)
			}
		}
	}

	for _, e := range edges {
		solver.AddClause(vars.beforeLit(e.src, e.dst))
	}

	return solver, vars
}

// extractOrder reads a satisfying assignment off solver and returns
// vertices sorted by how many other vertices precede them.
func extractOrder[V comparable](vars *orderVars[V], vertices []V) []V {
	type positioned struct {
		pos int
		v   V
	}
	out := make([]positioned, len(vertices))
	for i, u := range vertices {
		pos := 0
		for _, w := range vertices {
			if w == u {
				continue
			}
			if vars.before(w, u) {
				pos++
			}
		}
		out[i] = positioned{pos: pos, v: u}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })

	result := make([]V, len(out))
	for i, p := range out {
		result[i] = p.v
	}
	return result
}

