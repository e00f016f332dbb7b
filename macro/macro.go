// Package macro implements C5: macro preprocessing and the pattern
// rewrites/validation shared by macro bodies and rule clause patterns
// (spec.md §4.5/§4.7). It never canonicalizes against a universe — that
// is the DFA builder's job once U is known — it only expands macro
// references, rewrites extended forms (r+, r?, Any, UnicodeCategory),
// and enforces the character universe and recursion/definedness rules.
package macro

import (
	"unicode"

	"github.com/nexlex/lexgen/charset"
	"github.com/nexlex/lexgen/lexerr"
	"github.com/nexlex/lexgen/lexspec"
	"github.com/nexlex/lexgen/regex"
)

// Env holds the macro environment being built up: successfully expanded
// macros plus the set of macros that failed (and whose later references
// are therefore silently replaced by ∅ rather than re-diagnosed).
type Env struct {
	MacroEnv map[string]*regex.Regex
	Bad      map[string]bool
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{MacroEnv: make(map[string]*regex.Regex), Bad: make(map[string]bool)}
}

// Preprocess validates and expands macro declarations in source order,
// per spec.md §4.5. It always returns a (possibly partial) macroEnv and
// badMacros set, alongside the accumulated errors — callers (package
// compiler) decide whether non-empty errors should stop rule compilation.
func Preprocess(decls []lexspec.MacroDecl, opts lexspec.CompilationOptions) (map[string]*regex.Regex, map[string]bool, lexerr.List) {
	env := NewEnv()
	var errs lexerr.List

	for _, d := range decls {
		if _, exists := env.MacroEnv[d.Name]; exists || env.Bad[d.Name] {
			errs = append(errs, lexerr.NewAt(lexerr.DuplicateMacro, d.Pos, "macro %q already defined", d.Name))
			continue
		}

		r, derrs := Expand(d.Pattern, d.Name, env, opts)
		if len(derrs) > 0 {
			errs = append(errs, derrs...)
			env.Bad[d.Name] = true
			continue
		}
		env.MacroEnv[d.Name] = r
	}

	return env.MacroEnv, env.Bad, errs
}

// Expand validates and rewrites a pattern into regex IR, per the rules of
// spec.md §4.5/§4.7. definingMacro is the name of the macro currently
// being expanded (used for self-reference detection); pass "" when
// expanding a rule clause pattern, which has no self-reference concept.
func Expand(p *lexspec.Pattern, definingMacro string, env *Env, opts lexspec.CompilationOptions) (*regex.Regex, lexerr.List) {
	var errs lexerr.List
	r := expand(p, definingMacro, env, opts, &errs)
	return r, errs
}

func expand(p *lexspec.Pattern, definingMacro string, env *Env, opts lexspec.CompilationOptions, errs *lexerr.List) *regex.Regex {
	switch p.Kind {
	case lexspec.PatEpsilon:
		return regex.Epsilon()
	case lexspec.PatEmpty:
		return regex.EmptyLang()
	case lexspec.PatAny:
		// Rewrite: Any -> CharacterSet U (spec.md §4.5).
		return regex.CharacterSet(opts.Universe())

	case lexspec.PatCharacter:
		if !opts.Unicode && p.Char > 0x7F {
			*errs = append(*errs, lexerr.NewAt(lexerr.UnicodeInAsciiMode, p.Pos, "non-ASCII character %q used without unicode option", p.Char))
		}
		return regex.Character(p.Char)

	case lexspec.PatCharacterSet:
		if !opts.Unicode && setEscapesAscii(p.Set) {
			*errs = append(*errs, lexerr.NewAt(lexerr.UnicodeInAsciiMode, p.Pos, "non-ASCII character set used without unicode option"))
		}
		return regex.CharacterSet(p.Set)

	case lexspec.PatUnicodeCategory:
		if !opts.Unicode {
			*errs = append(*errs, lexerr.NewAt(lexerr.UnicodeInAsciiMode, p.Pos, "unicode category %q used without unicode option", p.Category))
			return regex.EmptyLang()
		}
		set, ok := categorySet(p.Category)
		if !ok {
			*errs = append(*errs, lexerr.NewAt(lexerr.UnknownUnicodeCategory, p.Pos, "unknown unicode category %q", p.Category))
			return regex.EmptyLang()
		}
		// Rewrite: UnicodeCategory k -> CharacterSet (categorySet k).
		return regex.CharacterSet(set)

	case lexspec.PatMacro:
		return expandMacroRef(p, definingMacro, env, errs)

	case lexspec.PatNegate:
		return regex.Negate(expand(p.Child, definingMacro, env, opts, errs))
	case lexspec.PatStar:
		return regex.Star(expand(p.Child, definingMacro, env, opts, errs))
	case lexspec.PatOneOrMore:
		// Rewrite: r+ -> r · r*.
		c := expand(p.Child, definingMacro, env, opts, errs)
		return regex.Concat(c, regex.Star(c))
	case lexspec.PatOptional:
		// Rewrite: r? -> ε · r.
		c := expand(p.Child, definingMacro, env, opts, errs)
		return regex.Concat(regex.Epsilon(), c)

	case lexspec.PatConcat:
		return regex.Concat(expand(p.Left, definingMacro, env, opts, errs), expand(p.Right, definingMacro, env, opts, errs))
	case lexspec.PatOr:
		return regex.Or(expand(p.Left, definingMacro, env, opts, errs), expand(p.Right, definingMacro, env, opts, errs))
	case lexspec.PatAnd:
		return regex.And(expand(p.Left, definingMacro, env, opts, errs), expand(p.Right, definingMacro, env, opts, errs))

	case lexspec.PatRepetition:
		// Open question §9, resolved per spec.md's default: reject.
		*errs = append(*errs, lexerr.NewAt(lexerr.UnsupportedRepetition, p.Pos, "repetition patterns are not supported"))
		return regex.EmptyLang()

	case lexspec.PatEndOfFile:
		*errs = append(*errs, lexerr.NewAt(lexerr.EndOfFileInRegex, p.Pos, "end-of-file marker used as regex operand"))
		return regex.EmptyLang()

	default:
		panic("macro: expand: unhandled pattern kind")
	}
}

func expandMacroRef(p *lexspec.Pattern, definingMacro string, env *Env, errs *lexerr.List) *regex.Regex {
	name := p.Macro
	if definingMacro != "" && name == definingMacro {
		*errs = append(*errs, lexerr.NewAt(lexerr.RecursiveMacro, p.Pos, "recursive macros not allowed: %q", name))
		return regex.EmptyLang()
	}
	if r, ok := env.MacroEnv[name]; ok {
		return r
	}
	if env.Bad[name] {
		// Suppresses cascading diagnostics: one primary error per macro.
		return regex.EmptyLang()
	}
	*errs = append(*errs, lexerr.NewAt(lexerr.UndefinedMacro, p.Pos, "undefined macro %q", name))
	return regex.EmptyLang()
}

func setEscapesAscii(s charset.Set) bool {
	max, err := s.MaxElement()
	if err != nil {
		return false
	}
	return max > 0x7F
}

// categorySet maps a Unicode general-category code (e.g. "Lu", "Nd") to
// the CharSet of code points in that category within the BMP universe.
// Grounded in Go's stdlib unicode.Categories table: no third-party
// library in the retrieved example pack supplies Unicode category data,
// so this is a justified stdlib dependency (see DESIGN.md).
func categorySet(code string) (charset.Set, bool) {
	rt, ok := unicode.Categories[code]
	if !ok {
		return charset.Set{}, false
	}
	return rangeTableToSet(rt), true
}

func rangeTableToSet(rt *unicode.RangeTable) charset.Set {
	s := charset.Empty()
	for _, r := range rt.R16 {
		addStrideRange(&s, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range rt.R32 {
		if r.Hi > 0xFFFF {
			continue // clipped to this module's BMP unicode universe
		}
		addStrideRange(&s, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return s
}

func addStrideRange(s *charset.Set, lo, hi, stride rune) {
	if stride <= 1 {
		*s = s.Add(lo, hi)
		return
	}
	for c := lo; c <= hi; c += stride {
		*s = s.Add(c, c)
	}
}
