package patparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexlex/lexgen/lexerr"
	"github.com/nexlex/lexgen/lexspec"
)

func TestParseMacroAndRule(t *testing.T) {
	src := `
LET digit = [0-9]
LET id = [a-zA-Z_][a-zA-Z0-9_]*

RULE main = PARSE
    {digit}+     { NUM }
  | {id}         { IDENT }
  | ,            { COMMA }
;
`
	spec, errs := Parse([]byte(src), "t.lex")
	require.Empty(t, errs)
	require.Len(t, spec.Macros, 2)
	assert.Equal(t, "digit", spec.Macros[0].Name)
	assert.Equal(t, "id", spec.Macros[1].Name)

	main, ok := spec.Rules.Get("main")
	require.True(t, ok)
	require.Len(t, main.Clauses, 3)
	assert.Equal(t, "main", spec.StartRule)
	// Clauses come back in reverse declaration order: patparse prepends as
	// it parses (spec.md §4.7 step 4 assumes this and reverses it back).
	// So Clauses[0] is the last-declared clause (',') and Clauses[2] is the
	// first-declared one ({digit}+).
	assert.Equal(t, lexspec.PatCharacter, main.Clauses[0].Pattern.Kind)
	assert.Equal(t, lexspec.PatMacro, main.Clauses[1].Pattern.Kind)
	// {digit}+ parses as OneOrMore(Macro("digit")); the '+' rewrite to
	// r·r* happens later, during macro expansion, not here.
	assert.Equal(t, lexspec.PatOneOrMore, main.Clauses[2].Pattern.Kind)
	assert.Equal(t, lexspec.PatMacro, main.Clauses[2].Pattern.Child.Kind)
}

func TestParseCharacterClassAndEscapes(t *testing.T) {
	src := "LET x = [a-z\\-]\n"
	spec, errs := Parse([]byte(src), "t")
	require.Empty(t, errs)
	require.Len(t, spec.Macros, 1)
	assert.Equal(t, lexspec.PatCharacterSet, spec.Macros[0].Pattern.Kind)
}

func TestParseUnicodeEscape(t *testing.T) {
	src := "LET x = \\u00e9\n"
	spec, errs := Parse([]byte(src), "t")
	require.Empty(t, errs)
	assert.Equal(t, lexspec.PatCharacter, spec.Macros[0].Pattern.Kind)
	assert.Equal(t, rune(0x00e9), spec.Macros[0].Pattern.Char)
}

func TestParseUnmatchedParen(t *testing.T) {
	src := "LET x = (abc\n"
	_, errs := Parse([]byte(src), "t")
	require.True(t, errs.HasCode(lexerr.UnmatchedParen))
}

func TestParseUnmatchedBracket(t *testing.T) {
	src := "LET x = [abc\n"
	_, errs := Parse([]byte(src), "t")
	require.True(t, errs.HasCode(lexerr.UnmatchedBracket))
}

func TestParseBareClosure(t *testing.T) {
	src := "LET x = *abc\n"
	_, errs := Parse([]byte(src), "t")
	require.True(t, errs.HasCode(lexerr.BareClosure))
}

func TestParseNegatedClass(t *testing.T) {
	src := "LET x = [^a-z]\n"
	spec, errs := Parse([]byte(src), "t")
	require.Empty(t, errs)
	assert.Equal(t, lexspec.PatNegate, spec.Macros[0].Pattern.Kind)
}

func TestParseActionWithNestedBraces(t *testing.T) {
	src := `RULE main = PARSE 'x' { if true { return 1 } } ;` + "\n"
	spec, errs := Parse([]byte(src), "t")
	require.Empty(t, errs)
	main, _ := spec.Rules.Get("main")
	require.Len(t, main.Clauses, 1)
	assert.Equal(t, " if true { return 1 } ", main.Clauses[0].Action.Text)
}

func TestParseAlternationAndGrouping(t *testing.T) {
	src := "LET x = (ab|cd)+\n"
	spec, errs := Parse([]byte(src), "t")
	require.Empty(t, errs)
	assert.Equal(t, lexspec.PatOneOrMore, spec.Macros[0].Pattern.Kind)
	assert.Equal(t, lexspec.PatOr, spec.Macros[0].Pattern.Child.Kind)
}
