// Package regex implements C2: the regex algebra IR, nullability,
// Brzozowski derivatives, canonicalization, and derivative-class
// approximation described in spec.md §3/§4.2.
//
// Regex values form an immutable tree (grounded in the node/edge shape of
// blynn-nex/nex.go's own regex-to-NFA parser, here repurposed as a pure
// algebraic IR rather than an NFA builder). Regexes that Canonicalize's
// rewriting laws identify share one canonical form and compare equal via
// Key, which is what lets the DFA builder (package dfa) use a plain map
// for the vector→state bimap instead of a custom hash table. Canonicalize
// does not decide language equality in general: a·a* and a*·a denote the
// same language but keep distinct canonical forms.
package regex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nexlex/lexgen/charset"
)

// Kind tags the variant of a Regex node.
type Kind uint8

const (
	KindEpsilon Kind = iota
	KindEmpty
	KindAny
	KindCharacter
	KindCharacterSet
	KindNegate
	KindStar
	KindConcat
	KindOr
	KindAnd
)

// Regex is a node in the regex algebra tree. Zero value is not meaningful;
// use the constructors below.
type Regex struct {
	Kind        Kind
	Char        rune
	Set         charset.Set
	Child       *Regex
	Left, Right *Regex
}

var (
	epsilonVal = &Regex{Kind: KindEpsilon}
	emptyVal   = &Regex{Kind: KindEmpty}
	anyVal     = &Regex{Kind: KindAny}
)

func Epsilon() *Regex { return epsilonVal }
func EmptyLang() *Regex { return emptyVal }
func Any() *Regex     { return anyVal }

func Character(c rune) *Regex { return &Regex{Kind: KindCharacter, Char: c} }

func CharacterSet(s charset.Set) *Regex { return &Regex{Kind: KindCharacterSet, Set: s} }

func Negate(r *Regex) *Regex { return &Regex{Kind: KindNegate, Child: r} }

func Star(r *Regex) *Regex { return &Regex{Kind: KindStar, Child: r} }

func Concat(a, b *Regex) *Regex { return &Regex{Kind: KindConcat, Left: a, Right: b} }

func Or(a, b *Regex) *Regex { return &Regex{Kind: KindOr, Left: a, Right: b} }

func And(a, b *Regex) *Regex { return &Regex{Kind: KindAnd, Left: a, Right: b} }

// Nullable reports whether ε ∈ L(r) (spec.md §4.2).
func Nullable(r *Regex) bool {
	switch r.Kind {
	case KindEpsilon, KindStar:
		return true
	case KindEmpty, KindAny, KindCharacter, KindCharacterSet:
		return false
	case KindNegate:
		return !Nullable(r.Child)
	case KindConcat, KindAnd:
		return Nullable(r.Left) && Nullable(r.Right)
	case KindOr:
		return Nullable(r.Left) || Nullable(r.Right)
	default:
		panic(fmt.Sprintf("regex: Nullable: unhandled kind %d", r.Kind))
	}
}

// nu is ν(r) from spec.md §4.2: Epsilon if r is nullable, else Empty.
func nu(r *Regex) *Regex {
	if Nullable(r) {
		return epsilonVal
	}
	return emptyVal
}

// Derivative computes the raw (not-yet-canonicalized) Brzozowski
// derivative D_a(r), structurally per spec.md §4.2.
func Derivative(r *Regex, a rune) *Regex {
	switch r.Kind {
	case KindEpsilon, KindEmpty:
		return emptyVal
	case KindAny:
		return epsilonVal
	case KindCharacter:
		if r.Char == a {
			return epsilonVal
		}
		return emptyVal
	case KindCharacterSet:
		if r.Set.Contains(a) {
			return epsilonVal
		}
		return emptyVal
	case KindNegate:
		return Negate(Derivative(r.Child, a))
	case KindStar:
		return Concat(Derivative(r.Child, a), r)
	case KindConcat:
		return Or(Concat(Derivative(r.Left, a), r.Right), Concat(nu(r.Left), Derivative(r.Right, a)))
	case KindOr:
		return Or(Derivative(r.Left, a), Derivative(r.Right, a))
	case KindAnd:
		return And(Derivative(r.Left, a), Derivative(r.Right, a))
	default:
		panic(fmt.Sprintf("regex: Derivative: unhandled kind %d", r.Kind))
	}
}

// normalizeSet rewrites a CharacterSet to the canonical Empty/Character/
// CharacterSet form, per spec.md §3's "CharacterSet s appears only when
// |s| >= 2" invariant.
func normalizeSet(s charset.Set) *Regex {
	switch s.Count() {
	case 0:
		return emptyVal
	case 1:
		c, _ := s.MinElement()
		return Character(c)
	default:
		return &Regex{Kind: KindCharacterSet, Set: s}
	}
}

func isFullUniverse(r *Regex, u charset.Set) bool {
	return r.Kind == KindCharacterSet && charset.Equal(r.Set, u)
}

// Canonicalize applies the rewriting laws of spec.md §3 bottom-up. It is
// idempotent: Canonicalize(Canonicalize(r, u), u) == Canonicalize(r, u).
func Canonicalize(r *Regex, u charset.Set) *Regex {
	switch r.Kind {
	case KindEpsilon, KindEmpty:
		return r
	case KindAny:
		return normalizeSet(u)
	case KindCharacter:
		return r
	case KindCharacterSet:
		return normalizeSet(r.Set)
	case KindNegate:
		return canonNegate(Canonicalize(r.Child, u), u)
	case KindStar:
		return canonStar(Canonicalize(r.Child, u))
	case KindConcat:
		return canonConcat(Canonicalize(r.Left, u), Canonicalize(r.Right, u))
	case KindOr:
		return canonOr(Canonicalize(r.Left, u), Canonicalize(r.Right, u), u)
	case KindAnd:
		return canonAnd(Canonicalize(r.Left, u), Canonicalize(r.Right, u), u)
	default:
		panic(fmt.Sprintf("regex: Canonicalize: unhandled kind %d", r.Kind))
	}
}

func canonNegate(c *Regex, u charset.Set) *Regex {
	switch {
	case c.Kind == KindNegate: // ¬¬r = r
		return c.Child
	case c.Kind == KindEmpty: // ¬∅ = Any
		return normalizeSet(u)
	case isFullUniverse(c, u): // ¬Any = ∅
		return emptyVal
	default:
		return &Regex{Kind: KindNegate, Child: c}
	}
}

func canonStar(c *Regex) *Regex {
	switch c.Kind {
	case KindStar: // (r*)* = r*
		return c
	case KindEpsilon, KindEmpty: // ε* = ∅* = ε
		return epsilonVal
	default:
		return &Regex{Kind: KindStar, Child: c}
	}
}

// canonConcat rewrites r·ε=ε·r=r, r·∅=∅·r=∅, and re-associates so Concat
// nests left, per spec.md §3.
func canonConcat(l, r *Regex) *Regex {
	if l.Kind == KindEmpty || r.Kind == KindEmpty {
		return emptyVal
	}
	if l.Kind == KindEpsilon {
		return r
	}
	if r.Kind == KindEpsilon {
		return l
	}
	if r.Kind == KindConcat {
		return canonConcat(canonConcat(l, r.Left), r.Right)
	}
	return &Regex{Kind: KindConcat, Left: l, Right: r}
}

func flatten(r *Regex, kind Kind) []*Regex {
	if r.Kind == kind {
		return append(flatten(r.Left, kind), flatten(r.Right, kind)...)
	}
	return []*Regex{r}
}

func foldLeft(kind Kind, ops []*Regex) *Regex {
	result := ops[0]
	for _, op := range ops[1:] {
		result = &Regex{Kind: kind, Left: result, Right: op}
	}
	return result
}

func sortDedupe(ops []*Regex) []*Regex {
	sort.Slice(ops, func(i, j int) bool { return Compare(ops[i], ops[j]) < 0 })
	out := ops[:0:0]
	for i, op := range ops {
		if i == 0 || Compare(ops[i-1], op) != 0 {
			out = append(out, op)
		}
	}
	return out
}

// canonOr rewrites r∨∅=r, r∨Any=Any, folds CharacterSet/Character operands
// into one CharacterSet via union, sorts and dedupes, and left-associates.
func canonOr(l, r *Regex, u charset.Set) *Regex {
	ops := append(flatten(l, KindOr), flatten(r, KindOr)...)

	var kept []*Regex
	csUnion := charset.Empty()
	hasCS := false
	for _, op := range ops {
		switch {
		case op.Kind == KindEmpty:
			continue
		case op.Kind == KindCharacterSet:
			csUnion = charset.Union(csUnion, op.Set)
			hasCS = true
		case op.Kind == KindCharacter:
			csUnion = charset.Union(csUnion, charset.Singleton(op.Char))
			hasCS = true
		default:
			kept = append(kept, op)
		}
	}
	if hasCS {
		kept = append(kept, normalizeSet(csUnion))
	}
	if len(kept) == 0 {
		return emptyVal
	}
	for _, op := range kept {
		if isFullUniverse(op, u) { // r∨Any = Any
			return op
		}
	}
	kept = sortDedupe(kept)
	return foldLeft(KindOr, kept)
}

// canonAnd rewrites r∧∅=∅, r∧Any=r, folds CharacterSet/Character operands
// into one CharacterSet via intersection, sorts and dedupes, and
// left-associates.
func canonAnd(l, r *Regex, u charset.Set) *Regex {
	ops := append(flatten(l, KindAnd), flatten(r, KindAnd)...)

	var kept []*Regex
	csInter := u
	hasCS := false
	for _, op := range ops {
		switch {
		case op.Kind == KindEmpty:
			return emptyVal
		case isFullUniverse(op, u): // r∧Any = r
			continue
		case op.Kind == KindCharacterSet:
			if !hasCS {
				csInter, hasCS = op.Set, true
			} else {
				csInter = charset.Intersect(csInter, op.Set)
			}
		case op.Kind == KindCharacter:
			s := charset.Singleton(op.Char)
			if !hasCS {
				csInter, hasCS = s, true
			} else {
				csInter = charset.Intersect(csInter, s)
			}
		default:
			kept = append(kept, op)
		}
	}
	if hasCS {
		folded := normalizeSet(csInter)
		if folded.Kind == KindEmpty {
			return emptyVal
		}
		kept = append(kept, folded)
	}
	if len(kept) == 0 {
		return normalizeSet(u) // And of nothing but Any operands is Any
	}
	kept = sortDedupe(kept)
	return foldLeft(KindAnd, kept)
}

// DerivativeClasses computes C(r) against universe u, per spec.md §4.2.
// The returned partition may include empty CharSets; callers (package
// dfa) discard them, per spec.md's "Empty classes are admissible in the
// intermediate result."
func DerivativeClasses(r *Regex, u charset.Set) []charset.Set {
	switch r.Kind {
	case KindEpsilon, KindEmpty:
		return []charset.Set{u}
	case KindAny:
		return []charset.Set{u, charset.Empty()}
	case KindCharacter:
		single := charset.Singleton(r.Char)
		return []charset.Set{single, charset.Difference(u, single)}
	case KindCharacterSet:
		return []charset.Set{r.Set, charset.Difference(u, r.Set)}
	case KindNegate, KindStar:
		return DerivativeClasses(r.Child, u)
	case KindConcat:
		if !Nullable(r.Left) {
			return DerivativeClasses(r.Left, u)
		}
		return meet(DerivativeClasses(r.Left, u), DerivativeClasses(r.Right, u))
	case KindOr, KindAnd:
		return meet(DerivativeClasses(r.Left, u), DerivativeClasses(r.Right, u))
	default:
		panic(fmt.Sprintf("regex: DerivativeClasses: unhandled kind %d", r.Kind))
	}
}

// meet computes A ⊓ B = { x ∩ y | x ∈ A, y ∈ B }.
func meet(a, b []charset.Set) []charset.Set {
	out := make([]charset.Set, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, charset.Intersect(x, y))
		}
	}
	return out
}

// Compare gives the total order over canonical Regex values that
// spec.md §3 requires for Or/And operand ordering: "for Or(a, b), a <= b
// in a total order over Regex."
func Compare(a, b *Regex) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	switch a.Kind {
	case KindEpsilon, KindEmpty, KindAny:
		return 0
	case KindCharacter:
		return int(a.Char) - int(b.Char)
	case KindCharacterSet:
		return charset.Compare(a.Set, b.Set)
	case KindNegate, KindStar:
		return Compare(a.Child, b.Child)
	case KindConcat, KindOr, KindAnd:
		if c := Compare(a.Left, b.Left); c != 0 {
			return c
		}
		return Compare(a.Right, b.Right)
	default:
		panic(fmt.Sprintf("regex: Compare: unhandled kind %d", a.Kind))
	}
}

// Equal reports whether a and b are structurally identical. Callers
// should Canonicalize both sides first for semantic equality.
func Equal(a, b *Regex) bool { return Compare(a, b) == 0 }

// Key renders a canonical Regex as a string suitable for use as a map
// key (the vector→state bimap in package dfa). Grounded in the
// hash-string state-dedup idiom of nihei9-maleeni's dfa.go (stateMap
// keyed by a hash string rather than the state value itself).
func Key(r *Regex) string {
	var b strings.Builder
	writeKey(&b, r)
	return b.String()
}

func writeKey(b *strings.Builder, r *Regex) {
	switch r.Kind {
	case KindEpsilon:
		b.WriteString("e")
	case KindEmpty:
		b.WriteString("0")
	case KindAny:
		b.WriteString(".")
	case KindCharacter:
		b.WriteString("c")
		b.WriteString(strconv.Itoa(int(r.Char)))
	case KindCharacterSet:
		b.WriteString("s")
		for _, rg := range r.Set.Ranges() {
			b.WriteString(strconv.Itoa(int(rg.Lo)))
			b.WriteString("-")
			b.WriteString(strconv.Itoa(int(rg.Hi)))
			b.WriteString(",")
		}
	case KindNegate:
		b.WriteString("!(")
		writeKey(b, r.Child)
		b.WriteString(")")
	case KindStar:
		b.WriteString("*(")
		writeKey(b, r.Child)
		b.WriteString(")")
	case KindConcat:
		b.WriteString("C(")
		writeKey(b, r.Left)
		b.WriteString(";")
		writeKey(b, r.Right)
		b.WriteString(")")
	case KindOr:
		b.WriteString("O(")
		writeKey(b, r.Left)
		b.WriteString(";")
		writeKey(b, r.Right)
		b.WriteString(")")
	case KindAnd:
		b.WriteString("A(")
		writeKey(b, r.Left)
		b.WriteString(";")
		writeKey(b, r.Right)
		b.WriteString(")")
	}
}

// String renders r for diagnostics.
func (r *Regex) String() string {
	switch r.Kind {
	case KindEpsilon:
		return "ε"
	case KindEmpty:
		return "∅"
	case KindAny:
		return "."
	case KindCharacter:
		return strconv.QuoteRune(r.Char)
	case KindCharacterSet:
		return r.Set.String()
	case KindNegate:
		return "¬" + r.Child.String()
	case KindStar:
		return "(" + r.Child.String() + ")*"
	case KindConcat:
		return "(" + r.Left.String() + "" + r.Right.String() + ")"
	case KindOr:
		return "(" + r.Left.String() + "|" + r.Right.String() + ")"
	case KindAnd:
		return "(" + r.Left.String() + "&" + r.Right.String() + ")"
	default:
		return "?"
	}
}
