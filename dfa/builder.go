package dfa

import (
	"github.com/nexlex/lexgen/charset"
	"github.com/nexlex/lexgen/vector"
)

// CompilationState is the single-threaded worklist state of spec.md
// §4.6: a Graph under construction plus the vector↔state bimap and the
// set of accepting states. It is consumed once compilation of a rule
// completes; per-rule compilations never share one.
type CompilationState struct {
	Graph       *Graph
	FinalStates map[StateID]bool
	vecToState  map[string]StateID
	stateToVec  map[StateID]vector.Vector
}

// NewCompilationState returns an empty worklist state.
func NewCompilationState() *CompilationState {
	return &CompilationState{
		Graph:       NewGraph(),
		FinalStates: make(map[StateID]bool),
		vecToState:  make(map[string]StateID),
		stateToVec:  make(map[StateID]vector.Vector),
	}
}

// Lookup returns the state id for v, if one was already allocated.
func (cs *CompilationState) Lookup(v vector.Vector) (StateID, bool) {
	id, ok := cs.vecToState[v.Key()]
	return id, ok
}

// VectorOf returns the vector backing state id.
func (cs *CompilationState) VectorOf(id StateID) vector.Vector {
	return cs.stateToVec[id]
}

// CreateDfaState allocates a fresh id for v, links both sides of the
// bimap, and marks it accepting iff v is nullable. Precondition: v is not
// already present — checked as a debug assertion per spec.md §4.6, since
// a duplicate insert would indicate a bug in the worklist loop, not a
// recoverable input error.
func (cs *CompilationState) CreateDfaState(v vector.Vector) StateID {
	if _, ok := cs.vecToState[v.Key()]; ok {
		panic("dfa: CreateDfaState: vector already present")
	}
	id := cs.Graph.CreateVertex()
	cs.vecToState[v.Key()] = id
	cs.stateToVec[id] = v
	if v.Nullable() {
		cs.FinalStates[id] = true
	}
	return id
}

// RuleDfa is the per-rule result of Build: LexerRuleDfa of spec.md §4.6.
type RuleDfa struct {
	Graph        *Graph
	InitialState StateID

	// RuleAcceptedByState maps an accepting state to the minimum clause
	// index among its accepting set (spec.md §4.6 tie-break).
	RuleAcceptedByState map[StateID]int

	// AcceptingStatesByClause is the full accepting set per clause,
	// retained for "this clause will never match" diagnostics (spec.md
	// §4.6, §9 "Overlapping accepts").
	AcceptingStatesByClause map[int][]StateID
}

// Build runs the worklist algorithm of spec.md §4.6 over the given
// regular vector, against universe u, and returns the resulting RuleDfa.
func Build(initial vector.Vector, u charset.Set) *RuleDfa {
	cs := NewCompilationState()

	canon := initial.Canonicalize(u)
	initID := cs.CreateDfaState(canon)
	pending := []StateID{initID}

	for len(pending) > 0 {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		v := cs.VectorOf(id)
		if v.IsEmpty() {
			continue // error sink: never materialized as a transition target
		}

		classes := v.DerivativeClasses(u)
		edges := make(map[StateID]charset.Set)
		for _, p := range classes {
			if p.IsEmpty() {
				continue
			}
			rep, err := p.MinElement()
			if err != nil {
				continue
			}
			next := v.Derivative(rep).Canonicalize(u)
			if next.IsEmpty() {
				continue // no edge to the error sink
			}
			target, ok := cs.Lookup(next)
			if !ok {
				target = cs.CreateDfaState(next)
				pending = append(pending, target)
			}
			if existing, has := edges[target]; has {
				edges[target] = charset.Union(existing, p)
			} else {
				edges[target] = p
			}
		}
		cs.Graph.AddEdges(id, edges)
	}

	accepted := make(map[StateID]int, len(cs.FinalStates))
	byClause := make(map[int][]StateID)
	for id := range cs.FinalStates {
		v := cs.VectorOf(id)
		idx, ok := v.MinAcceptingClause()
		if !ok {
			continue // unreachable: id is in FinalStates iff v is nullable
		}
		accepted[id] = idx
		for _, c := range v.Accepting() {
			byClause[c] = append(byClause[c], id)
		}
	}

	return &RuleDfa{
		Graph:                   cs.Graph,
		InitialState:            initID,
		RuleAcceptedByState:     accepted,
		AcceptingStatesByClause: byClause,
	}
}
