package lexspec

import (
	"io"

	"github.com/nexlex/lexgen/dfa"
)

// CompiledRule is spec.md §3's { dfa, clauseActions[] }: the clause
// whose action text lives at ClauseActions[i] matches clause index i of
// the rule's regular vector.
type CompiledRule struct {
	Dfa           *dfa.RuleDfa
	ClauseActions []string
}

// CompiledSpecification is the combined result handed to the emitter
// collaborator (spec.md §3/§4.7): { header?, footer?, rules, startRule },
// where Rules preserves declaration order so the emitter can assign
// contiguous state-id ranges per rule in that order.
type CompiledSpecification struct {
	Header    *CodeFragment
	Footer    *CodeFragment
	Rules     *OrderedMap[string, *CompiledRule]
	StartRule string
}

// EmitOptions configures the code emitter; not part of the compiler
// core's semantics (spec.md §4.8's table shape is fixed), only of its
// textual rendering.
type EmitOptions struct {
	// Prefix is prepended to the generated per-rule dispatch function
	// names, e.g. "yy" in blynn-nex's own -p flag. The table and sentinel
	// identifiers are not prefixed.
	Prefix string
	// PackageName is the package clause of the emitted Go source.
	PackageName string
}

// CodeEmitter is the C8 collaborator interface: it consumes a
// CompiledSpecification and produces scanner source text (spec.md §4.8).
// The core never calls an emitter itself; drivers (package
// cmd/lexgen) wire one in.
type CodeEmitter interface {
	Emit(w io.Writer, spec *CompiledSpecification, opts EmitOptions) error
}
