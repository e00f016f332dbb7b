package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexlex/lexgen/charset"
	"github.com/nexlex/lexgen/lexerr"
	"github.com/nexlex/lexgen/lexspec"
	"github.com/nexlex/lexgen/regex"
)

func pos(line, col int) lexerr.Pos { return lexerr.Pos{Source: "t", Line: line, Col: col} }

func charRangeSet(lo, hi rune) charset.Set { return charset.OfRange(lo, hi) }

func TestPreprocessSimpleChain(t *testing.T) {
	decls := []lexspec.MacroDecl{
		{Name: "digit", Pattern: lexspec.CharacterSet(charRangeSet('0', '9'), pos(1, 1)), Pos: pos(1, 1)},
		{Name: "digits", Pattern: lexspec.OneOrMore(lexspec.Macro("digit", pos(2, 1))), Pos: pos(2, 1)},
	}
	env, bad, errs := Preprocess(decls, lexspec.CompilationOptions{})
	require.Empty(t, errs)
	require.Empty(t, bad)
	require.Contains(t, env, "digit")
	require.Contains(t, env, "digits")

	// digits = digit · digit* (the r+ rewrite), both referencing the same
	// underlying digit regex.
	want := regex.Concat(env["digit"], regex.Star(env["digit"]))
	assert.Equal(t, regex.Key(want), regex.Key(env["digits"]))
}

func TestPreprocessDuplicateMacroKeepsFirstBinding(t *testing.T) {
	decls := []lexspec.MacroDecl{
		{Name: "a", Pattern: lexspec.Character('x', pos(1, 1)), Pos: pos(1, 1)},
		{Name: "a", Pattern: lexspec.Character('y', pos(2, 1)), Pos: pos(2, 1)},
	}
	env, _, errs := Preprocess(decls, lexspec.CompilationOptions{})
	require.True(t, errs.HasCode(lexerr.DuplicateMacro))
	require.Contains(t, env, "a")
	assert.Equal(t, regex.Key(regex.Character('x')), regex.Key(env["a"]))
}

func TestPreprocessRecursiveMacro(t *testing.T) {
	decls := []lexspec.MacroDecl{
		{Name: "loop", Pattern: lexspec.Star(lexspec.Macro("loop", pos(1, 1))), Pos: pos(1, 1)},
	}
	_, bad, errs := Preprocess(decls, lexspec.CompilationOptions{})
	assert.True(t, errs.HasCode(lexerr.RecursiveMacro))
	assert.True(t, bad["loop"])
}

func TestPreprocessUndefinedMacroCascadeSuppressed(t *testing.T) {
	decls := []lexspec.MacroDecl{
		{Name: "a", Pattern: lexspec.Macro("nonexistent", pos(1, 1)), Pos: pos(1, 1)},
		{Name: "b", Pattern: lexspec.Macro("a", pos(2, 1)), Pos: pos(2, 1)},
	}
	env, bad, errs := Preprocess(decls, lexspec.CompilationOptions{})
	require.True(t, errs.HasCode(lexerr.UndefinedMacro))
	assert.True(t, bad["a"])
	// b references the already-bad "a": no second UndefinedMacro error, and
	// b itself resolves to ∅ (the suppressed substitution) without error.
	assert.Len(t, errs, 1)
	assert.Contains(t, env, "b")
	assert.Equal(t, regex.Key(regex.EmptyLang()), regex.Key(env["b"]))
}

func TestExpandUnicodeInAsciiMode(t *testing.T) {
	// A non-ASCII character literal used without the unicode option.
	p := lexspec.Character('é', pos(3, 4))
	_, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{Unicode: false})
	require.True(t, errs.HasCode(lexerr.UnicodeInAsciiMode))
}

func TestExpandUnicodeCategoryRequiresUnicodeOption(t *testing.T) {
	p := lexspec.UnicodeCategory("Lu", pos(1, 1))
	_, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{Unicode: false})
	require.True(t, errs.HasCode(lexerr.UnicodeInAsciiMode))
}

func TestExpandUnknownUnicodeCategory(t *testing.T) {
	p := lexspec.UnicodeCategory("Zz", pos(1, 1))
	_, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{Unicode: true})
	require.True(t, errs.HasCode(lexerr.UnknownUnicodeCategory))
}

func TestExpandKnownUnicodeCategoryResolves(t *testing.T) {
	p := lexspec.UnicodeCategory("Nd", pos(1, 1))
	r, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{Unicode: true})
	require.Empty(t, errs)
	assert.Equal(t, regex.KindCharacterSet, r.Kind)
	assert.False(t, r.Set.IsEmpty())
}

func TestExpandOptionalRewrite(t *testing.T) {
	p := lexspec.Optional(lexspec.Character('x', pos(1, 1)))
	r, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{})
	require.Empty(t, errs)
	want := regex.Concat(regex.Epsilon(), regex.Character('x'))
	assert.Equal(t, regex.Key(want), regex.Key(r))
}

func TestExpandRepetitionRejected(t *testing.T) {
	lo := 2
	p := lexspec.Repetition(lexspec.Character('x', pos(1, 1)), &lo, nil, pos(1, 1))
	_, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{})
	require.True(t, errs.HasCode(lexerr.UnsupportedRepetition))
}

func TestExpandEndOfFileRejected(t *testing.T) {
	p := lexspec.Concat(lexspec.Character('x', pos(1, 1)), lexspec.EndOfFile(pos(1, 2)))
	_, errs := Expand(p, "", NewEnv(), lexspec.CompilationOptions{})
	require.True(t, errs.HasCode(lexerr.EndOfFileInRegex))
}

func TestExpandAnyRewritesToUniverse(t *testing.T) {
	r, errs := Expand(lexspec.Any(), "", NewEnv(), lexspec.CompilationOptions{})
	require.Empty(t, errs)
	want := regex.CharacterSet(lexspec.AsciiUniverse)
	assert.Equal(t, regex.Key(want), regex.Key(r))
}
