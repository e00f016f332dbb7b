// Package lexspec defines the external data model of spec.md §6: the
// Specification AST consumed from the surface-syntax parser collaborator,
// and the CompiledSpecification handed to the code-emitter collaborator.
package lexspec

import (
	"github.com/nexlex/lexgen/charset"
	"github.com/nexlex/lexgen/lexerr"
)

// PatternKind tags the variant of a Pattern node. This is the
// not-yet-canonicalized, not-yet-universe-checked surface AST (spec.md
// §6's LexerPattern), distinct from package regex's canonical-form IR.
type PatternKind uint8

const (
	PatEpsilon PatternKind = iota
	PatEmpty
	PatAny
	PatCharacter
	PatCharacterSet
	PatUnicodeCategory
	PatMacro
	PatNegate
	PatStar
	PatOneOrMore
	PatOptional
	PatConcat
	PatOr
	PatAnd
	PatRepetition
	// PatEndOfFile is not in spec.md's "all accepted" list: it models the
	// EOF marker the surface grammar permits as an operand of Concat/Or/
	// And/Star/Optional/OneOrMore, which the core always rejects with
	// EndOfFileInRegex (spec.md §9).
	PatEndOfFile
)

// Pattern is one node of the surface pattern AST.
type Pattern struct {
	Kind PatternKind

	Char     rune
	Set      charset.Set
	Category string // UnicodeCategory code, e.g. "Lu", "Nd"
	Macro    string // macro id for PatMacro

	Child       *Pattern
	Left, Right *Pattern

	// RepLo/RepHi are Repetition(p, lo?, hi?) bounds; nil means "absent".
	RepLo, RepHi *int

	Pos lexerr.Pos
}

func Epsilon() *Pattern { return &Pattern{Kind: PatEpsilon} }
func Empty() *Pattern   { return &Pattern{Kind: PatEmpty} }
func Any() *Pattern     { return &Pattern{Kind: PatAny} }

func Character(c rune, pos lexerr.Pos) *Pattern {
	return &Pattern{Kind: PatCharacter, Char: c, Pos: pos}
}

func CharacterSet(s charset.Set, pos lexerr.Pos) *Pattern {
	return &Pattern{Kind: PatCharacterSet, Set: s, Pos: pos}
}

func UnicodeCategory(code string, pos lexerr.Pos) *Pattern {
	return &Pattern{Kind: PatUnicodeCategory, Category: code, Pos: pos}
}

func Macro(id string, pos lexerr.Pos) *Pattern {
	return &Pattern{Kind: PatMacro, Macro: id, Pos: pos}
}

func Negate(p *Pattern) *Pattern { return &Pattern{Kind: PatNegate, Child: p} }
func Star(p *Pattern) *Pattern   { return &Pattern{Kind: PatStar, Child: p} }
func OneOrMore(p *Pattern) *Pattern { return &Pattern{Kind: PatOneOrMore, Child: p} }
func Optional(p *Pattern) *Pattern  { return &Pattern{Kind: PatOptional, Child: p} }

func Concat(a, b *Pattern) *Pattern { return &Pattern{Kind: PatConcat, Left: a, Right: b} }
func Or(a, b *Pattern) *Pattern     { return &Pattern{Kind: PatOr, Left: a, Right: b} }
func And(a, b *Pattern) *Pattern    { return &Pattern{Kind: PatAnd, Left: a, Right: b} }

func Repetition(p *Pattern, lo, hi *int, pos lexerr.Pos) *Pattern {
	return &Pattern{Kind: PatRepetition, Child: p, RepLo: lo, RepHi: hi, Pos: pos}
}

func EndOfFile(pos lexerr.Pos) *Pattern { return &Pattern{Kind: PatEndOfFile, Pos: pos} }
