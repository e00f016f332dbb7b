// Package vector implements C3: a RegularVector, the fixed-length,
// per-clause sequence of regexes that is a single rule's DFA-construction
// state (spec.md §3, "a state of the rule's DFA is a regular vector").
package vector

import (
	"strings"

	"github.com/nexlex/lexgen/charset"
	"github.com/nexlex/lexgen/regex"
)

// Vector is one clause-indexed regex tuple. Clause index is position in
// the slice, per spec.md §3.
type Vector struct {
	Elems []*regex.Regex
}

// New builds a Vector from clause regexes in declaration order.
func New(elems ...*regex.Regex) Vector {
	return Vector{Elems: append([]*regex.Regex(nil), elems...)}
}

// Len returns the number of clauses.
func (v Vector) Len() int { return len(v.Elems) }

// Canonicalize canonicalizes every element against universe u.
func (v Vector) Canonicalize(u charset.Set) Vector {
	out := make([]*regex.Regex, len(v.Elems))
	for i, e := range v.Elems {
		out[i] = regex.Canonicalize(e, u)
	}
	return Vector{Elems: out}
}

// Derivative computes the elementwise derivative D_a(v).
func (v Vector) Derivative(a rune) Vector {
	out := make([]*regex.Regex, len(v.Elems))
	for i, e := range v.Elems {
		out[i] = regex.Derivative(e, a)
	}
	return Vector{Elems: out}
}

// Nullable reports whether any clause is nullable: ∃ i. nullable(v_i).
func (v Vector) Nullable() bool {
	for _, e := range v.Elems {
		if regex.Nullable(e) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether every clause denotes the empty language:
// ∀ i. v_i ∈ {∅}. Elements are assumed canonical (CharacterSet(∅) cannot
// occur in canonical form — normalizeSet always collapses it to Empty —
// so a plain Kind check suffices).
func (v Vector) IsEmpty() bool {
	for _, e := range v.Elems {
		if e.Kind != regex.KindEmpty {
			return false
		}
	}
	return true
}

// Accepting returns { i | nullable(v_i) }, in ascending clause-index
// order.
func (v Vector) Accepting() []int {
	var out []int
	for i, e := range v.Elems {
		if regex.Nullable(e) {
			out = append(out, i)
		}
	}
	return out
}

// MinAcceptingClause returns the lowest clause index accepting v, and
// whether any clause accepts at all (spec.md §4.6 tie-breaking rule).
func (v Vector) MinAcceptingClause() (int, bool) {
	for i, e := range v.Elems {
		if regex.Nullable(e) {
			return i, true
		}
	}
	return 0, false
}

// DerivativeClasses returns the pairwise intersection across every
// element's own derivative classes, per spec.md §4.3.
func (v Vector) DerivativeClasses(u charset.Set) []charset.Set {
	if len(v.Elems) == 0 {
		return []charset.Set{u}
	}
	classes := regex.DerivativeClasses(v.Elems[0], u)
	for _, e := range v.Elems[1:] {
		classes = meet(classes, regex.DerivativeClasses(e, u))
	}
	return classes
}

func meet(a, b []charset.Set) []charset.Set {
	out := make([]charset.Set, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, charset.Intersect(x, y))
		}
	}
	return out
}

// Key renders a canonical Vector as a map key, used by the DFA builder's
// vector→state bimap.
func (v Vector) Key() string {
	var b strings.Builder
	for i, e := range v.Elems {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(regex.Key(e))
	}
	return b.String()
}

// Equal reports structural equality of two (assumed-canonical) vectors.
func Equal(a, b Vector) bool {
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !regex.Equal(a.Elems[i], b.Elems[i]) {
			return false
		}
	}
	return true
}
