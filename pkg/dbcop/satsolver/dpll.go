// Package satsolver is a small DPLL boolean satisfiability solver used as
// an alternative backend for the NP-complete consistency levels (Prefix,
// Snapshot Isolation, Serializable): the same constraints the constrained
// linearization engine resolves by DFS backtracking are instead encoded as
// CNF clauses and handed to this solver.
//
// No CDCL/SAT library is available anywhere in the example corpus this
// module draws on, so this is the one component built on nothing but the
// standard library; see DESIGN.md.
package satsolver

// Lit is a CNF literal: a positive value names variable (Lit-1), a
// negative value names the negation of variable (-Lit-1). Variable 0 is
// never literal 0, since 0 cannot carry a sign; it is Lit(1) positive and
// Lit(-1) negative.
type Lit int32

// Pos returns the positive literal for variable v.
func Pos(v int32) Lit { return Lit(v + 1) }

// Neg returns the negative literal for variable v.
func Neg(v int32) Lit { return Lit(-(v + 1)) }

// Var returns the variable a literal refers to.
func (l Lit) Var() int32 {
	if l < 0 {
		return int32(-l) - 1
	}
	return int32(l) - 1
}

// IsPositive reports whether the literal is unnegated.
func (l Lit) IsPositive() bool { return l > 0 }

// Negate returns the complementary literal.
func (l Lit) Negate() Lit { return -l }

// Solver is a DPLL solver: unit propagation, pure-literal elimination,
// and chronological backtracking over a static clause set.
type Solver struct {
	numVars int32
	clauses [][]Lit
	model   assignment
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{}
}

// NewVar allocates and returns a fresh variable.
func (s *Solver) NewVar() int32 {
	v := s.numVars
	s.numVars++
	return v
}

// AddClause adds a disjunction of literals to the problem.
func (s *Solver) AddClause(lits ...Lit) {
	clause := make([]Lit, len(lits))
	copy(clause, lits)
	s.clauses = append(s.clauses, clause)
}

// assignment holds a partial truth assignment; -1 is unassigned, 0 is
// false, 1 is true, indexed by variable.
type assignment []int8

func (a assignment) clone() assignment {
	out := make(assignment, len(a))
	copy(out, a)
	return out
}

func (a assignment) valueOf(l Lit) int8 {
	v := a[l.Var()]
	if v == -1 {
		return -1
	}
	if l.IsPositive() {
		return v
	}
	return 1 - v
}

// Solve runs DPLL and reports satisfiability. On success, call Value to
// read out the model found.
func (s *Solver) Solve() bool {
	a := make(assignment, s.numVars)
	for i := range a {
		a[i] = -1
	}
	result, ok := search(s.clauses, a)
	if !ok {
		return false
	}
	s.model = result
	return true
}

// Value reports the truth value assigned to l in the model found by the
// last successful Solve call.
func (s *Solver) Value(l Lit) bool {
	return s.model.valueOf(l) == 1
}

func search(clauses [][]Lit, a assignment) (assignment, bool) {
	a, clauses, ok := unitPropagate(clauses, a)
	if !ok {
		return nil, false
	}

	status, unassignedVar := clauseStatus(clauses, a)
	switch status {
	case clausesConflict:
		return nil, false
	case clausesSatisfied:
		return a, true
	}

	// pure literal elimination
	if pv, pl, found := findPureLiteral(clauses, a); found {
		next := a.clone()
		next[pv] = polarityValue(pl)
		return search(clauses, next)
	}

	for _, val := range [2]int8{1, 0} {
		next := a.clone()
		next[unassignedVar] = val
		if result, ok := search(clauses, next); ok {
			return result, true
		}
	}
	return nil, false
}

type clauseStatusKind int

const (
	clausesUndetermined clauseStatusKind = iota
	clausesSatisfied
	clausesConflict
)

// clauseStatus scans clauses once: if some clause has every literal false,
// it reports clausesConflict; if no literal in any clause is unassigned, it
// reports clausesSatisfied; otherwise it returns clausesUndetermined along
// with the variable of some unassigned literal, to branch on next.
func clauseStatus(clauses [][]Lit, a assignment) (clauseStatusKind, int32) {
	anyUnassigned := false
	foundVar := int32(-1)

	for _, clause := range clauses {
		sat := false
		allFalse := true
		for _, l := range clause {
			v := a.valueOf(l)
			if v == 1 {
				sat = true
			}
			if v != 0 {
				allFalse = false
			}
			if v == -1 && foundVar == -1 {
				foundVar = l.Var()
				anyUnassigned = true
			}
		}
		if !sat && allFalse {
			return clausesConflict, -1
		}
	}
	if foundVar == -1 && !anyUnassigned {
		return clausesSatisfied, -1
	}
	return clausesUndetermined, foundVar
}

func polarityValue(l Lit) int8 {
	if l.IsPositive() {
		return 1
	}
	return 0
}

// findPureLiteral finds a variable that, among all unassigned occurrences
// across unsatisfied clauses, appears with only one polarity.
func findPureLiteral(clauses [][]Lit, a assignment) (int32, Lit, bool) {
	seenPos := make(map[int32]bool)
	seenNeg := make(map[int32]bool)

	for _, clause := range clauses {
		satisfied := false
		for _, l := range clause {
			if a.valueOf(l) == 1 {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		for _, l := range clause {
			if a.valueOf(l) != -1 {
				continue
			}
			if l.IsPositive() {
				seenPos[l.Var()] = true
			} else {
				seenNeg[l.Var()] = true
			}
		}
	}

	for v, pos := range seenPos {
		if pos && !seenNeg[v] {
			return v, Pos(v), true
		}
	}
	for v, neg := range seenNeg {
		if neg && !seenPos[v] {
			return v, Neg(v), true
		}
	}
	return 0, 0, false
}

// unitPropagate repeatedly assigns forced literals (clauses with exactly
// one unassigned literal and every other literal false) until fixpoint or
// conflict.
func unitPropagate(clauses [][]Lit, a assignment) (assignment, [][]Lit, bool) {
	a = a.clone()
	for {
		unitLit, found := findUnitClause(clauses, a)
		if !found {
			return a, clauses, true
		}
		v := unitLit.Var()
		newVal := polarityValue(unitLit)
		if a[v] != -1 && a[v] != newVal {
			return nil, nil, false
		}
		a[v] = newVal
	}
}

func findUnitClause(clauses [][]Lit, a assignment) (Lit, bool) {
	for _, clause := range clauses {
		satisfied := false
		var unassigned Lit
		unassignedCount := 0
		for _, l := range clause {
			v := a.valueOf(l)
			if v == 1 {
				satisfied = true
				break
			}
			if v == -1 {
				unassignedCount++
				unassigned = l
			}
		}
		if satisfied {
			continue
		}
		if unassignedCount == 1 {
			return unassigned, true
		}
	}
	return 0, false
}
