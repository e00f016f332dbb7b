package lexspec

import (
	"github.com/nexlex/lexgen/charset"
	"github.com/nexlex/lexgen/lexerr"
)

// CodeFragment is an opaque action-code fragment with its source range,
// carried through to the emitter verbatim (spec.md §3).
type CodeFragment struct {
	Text string
	Pos  lexerr.Pos
}

// MacroDecl is one (macroId, LexerPattern) declaration, in source order.
type MacroDecl struct {
	Name    string
	Pattern *Pattern
	Pos     lexerr.Pos
}

// Clause is one pattern→action alternative of a rule.
type Clause struct {
	Pattern *Pattern
	Action  CodeFragment
}

// RuleDef is one rule's parameter list and ordered clauses.
type RuleDef struct {
	Parameters []string
	Clauses    []Clause
}

// Specification is the AST consumed from the surface-syntax parser
// collaborator (spec.md §6).
type Specification struct {
	Header *CodeFragment
	Footer *CodeFragment

	Macros []MacroDecl
	Rules  *OrderedMap[string, *RuleDef]

	StartRule string
}

// CompilationOptions controls universe selection and pattern validity
// (spec.md §6). WarningsAsErrors is this module's one added flag,
// explicitly sanctioned by spec.md §6: "Implementations may add flags...
// but must not change the table semantics."
type CompilationOptions struct {
	Unicode          bool
	WarningsAsErrors bool
}

// AsciiUniverse and UnicodeUniverse are U from spec.md §3.
var (
	AsciiUniverse   = charset.OfRange(0x00, 0xFF)
	UnicodeUniverse = charset.OfRange(0x0000, 0xFFFF)
)

// Universe returns the character universe selected by opts.
func (opts CompilationOptions) Universe() charset.Set {
	if opts.Unicode {
		return UnicodeUniverse
	}
	return AsciiUniverse
}
