// Package compiler implements C7, the SpecificationCompiler: it
// orchestrates macro preprocessing (package macro), per-rule pattern
// validation and vectorization (packages lexspec/regex/vector), and
// parallel per-rule DFA construction (package dfa) into one combined
// CompiledSpecification (spec.md §4.7/§5).
package compiler

import (
	"golang.org/x/sync/errgroup"

	"github.com/nexlex/lexgen/dfa"
	"github.com/nexlex/lexgen/lexerr"
	"github.com/nexlex/lexgen/lexspec"
	"github.com/nexlex/lexgen/macro"
	"github.com/nexlex/lexgen/regex"
	"github.com/nexlex/lexgen/vector"
)

// Compile runs the full pipeline of spec.md §4.7 over spec, under opts.
// On any macro-level error it returns immediately without attempting rule
// compilation, per §5's "macroErrors non-empty ⇒ do not compile rules".
// Rule-level errors (bad clause patterns) are instead accumulated across
// every clause of every rule: a rule with any failing clause is not built,
// the other rules still compile, and if any rule failed Compile returns no
// CompiledSpecification, only the combined diagnostics.
//
// The returned list may also carry warning-severity diagnostics (e.g.
// ShadowedClause) that never block compilation on their own. If
// opts.WarningsAsErrors is set, every warning is escalated to error
// severity first, so it blocks compilation exactly like a hard error —
// the one flag spec.md §6 explicitly sanctions adding, with the sole
// constraint that it "must not change the table semantics" (it only
// changes whether a diagnostic blocks the run, never what gets compiled).
func Compile(spec *lexspec.Specification, opts lexspec.CompilationOptions) (*lexspec.CompiledSpecification, lexerr.List) {
	macroEnv, badMacros, macroErrs := macro.Preprocess(spec.Macros, opts)
	if len(macroErrs) > 0 {
		return nil, macroErrs
	}

	env := &macro.Env{MacroEnv: macroEnv, Bad: badMacros}

	ruleNames := spec.Rules.Keys()
	results := make([]*lexspec.CompiledRule, len(ruleNames))
	diagLists := make([]lexerr.List, len(ruleNames))

	// Parallel over rules, single-threaded within a rule (spec.md §5): one
	// goroutine per rule, each reading only its own RuleDef and the shared
	// read-only macro environment.
	var g errgroup.Group
	for i, name := range ruleNames {
		i := i
		def, _ := spec.Rules.Get(name)
		g.Go(func() error {
			rule, diags := compileRule(def, env, opts)
			results[i] = rule
			diagLists[i] = diags
			return nil // errors accumulate; a failing rule never aborts its siblings
		})
	}
	_ = g.Wait() // every Go above returns nil unconditionally

	var allDiags lexerr.List
	for _, dl := range diagLists {
		allDiags = append(allDiags, dl...)
	}
	if opts.WarningsAsErrors {
		allDiags = allDiags.Escalate()
	}
	if allDiags.HasErrors() {
		return nil, allDiags
	}

	compiled := lexspec.NewOrderedMap[string, *lexspec.CompiledRule]()
	for i, name := range ruleNames {
		compiled.Set(name, results[i])
	}

	return &lexspec.CompiledSpecification{
		Header:    spec.Header,
		Footer:    spec.Footer,
		Rules:     compiled,
		StartRule: spec.StartRule,
	}, allDiags
}

// compileRule validates and vectorizes def's clauses, then builds its DFA
// (spec.md §4.7 steps 3-4). def.Clauses arrives in reverse declaration
// order (the parser is expected to prepend clauses as it parses); this
// reverses them back before vectorizing, since clause index is the
// tie-breaker for overlapping accepts and must match source order.
func compileRule(def *lexspec.RuleDef, env *macro.Env, opts lexspec.CompilationOptions) (*lexspec.CompiledRule, lexerr.List) {
	clauses := make([]lexspec.Clause, len(def.Clauses))
	for i, c := range def.Clauses {
		clauses[len(def.Clauses)-1-i] = c
	}

	var errs lexerr.List
	elems := make([]*regex.Regex, len(clauses))
	actions := make([]string, len(clauses))

	for i, clause := range clauses {
		r, cerrs := macro.Expand(clause.Pattern, "", env, opts)
		if len(cerrs) > 0 {
			errs = append(errs, cerrs...)
			r = regex.EmptyLang() // placeholder: the rule is not built when any clause failed
		}
		elems[i] = r
		actions[i] = clause.Action.Text
	}

	if len(errs) > 0 {
		return nil, errs
	}

	vec := vector.New(elems...)
	ruleDfa := dfa.Build(vec, opts.Universe())

	return &lexspec.CompiledRule{
		Dfa:           ruleDfa,
		ClauseActions: actions,
	}, shadowedClauseWarnings(ruleDfa, clauses)
}

// shadowedClauseWarnings finds clauses that reach at least one accepting
// state but never win the lowest-index tie-break (spec.md §4.6) at any of
// them — such a clause can never actually produce a match, since some
// lower-index clause always wins first. spec.md §9 calls this out as a
// diagnostic implementations may surface, not an error: the DFA is still
// well-formed and the rest of the rule's clauses behave correctly.
func shadowedClauseWarnings(ruleDfa *dfa.RuleDfa, clauses []lexspec.Clause) lexerr.List {
	var warnings lexerr.List
	for c, clause := range clauses {
		accepting, ok := ruleDfa.AcceptingStatesByClause[c]
		if !ok || len(accepting) == 0 {
			continue // clause never accepts at all: not this diagnostic's concern
		}
		wins := false
		for _, st := range accepting {
			if ruleDfa.RuleAcceptedByState[st] == c {
				wins = true
				break
			}
		}
		if !wins {
			warnings = append(warnings, lexerr.NewWarningAt(lexerr.ShadowedClause, clause.Pattern.Pos,
				"clause %d is always shadowed by a lower-index overlapping clause and will never match", c))
		}
	}
	return warnings
}
