package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexlex/lexgen/charset"
)

var ascii = charset.OfRange(0, 127)

func digit() *Regex {
	return CharacterSet(charset.OfRange('0', '9'))
}

func TestNullable(t *testing.T) {
	assert.True(t, Nullable(Epsilon()))
	assert.False(t, Nullable(EmptyLang()))
	assert.False(t, Nullable(Any()))
	assert.False(t, Nullable(Character('a')))
	assert.True(t, Nullable(Star(Character('a'))))
	assert.True(t, Nullable(Concat(Star(Character('a')), Star(Character('b')))))
	assert.False(t, Nullable(Concat(Character('a'), Star(Character('b')))))
	assert.True(t, Nullable(Or(Character('a'), Epsilon())))
	assert.False(t, Nullable(Negate(Epsilon())))
}

func TestCanonicalizeIdempotent(t *testing.T) {
	r := Or(Concat(Character('a'), Character('b')), And(Star(Character('c')), Any()))
	once := Canonicalize(r, ascii)
	twice := Canonicalize(once, ascii)
	assert.True(t, Equal(once, twice))
}

func TestCanonicalizeIdentities(t *testing.T) {
	a := Character('a')

	assert.True(t, Equal(Canonicalize(Concat(a, Epsilon()), ascii), Canonicalize(a, ascii)))
	assert.True(t, Equal(Canonicalize(Concat(Epsilon(), a), ascii), Canonicalize(a, ascii)))
	assert.True(t, Equal(Canonicalize(Concat(a, EmptyLang()), ascii), EmptyLang()))
	assert.True(t, Equal(Canonicalize(Or(a, EmptyLang()), ascii), Canonicalize(a, ascii)))
	assert.True(t, Equal(Canonicalize(Or(a, Any()), ascii), Canonicalize(Any(), ascii)))
	assert.True(t, Equal(Canonicalize(And(a, EmptyLang()), ascii), EmptyLang()))
	assert.True(t, Equal(Canonicalize(And(a, Any()), ascii), Canonicalize(a, ascii)))
	assert.True(t, Equal(Canonicalize(Star(Star(a)), ascii), Canonicalize(Star(a), ascii)))
	assert.True(t, Equal(Canonicalize(Star(Epsilon()), ascii), Epsilon()))
	assert.True(t, Equal(Canonicalize(Star(EmptyLang()), ascii), Epsilon()))
	assert.True(t, Equal(Canonicalize(Negate(Negate(a)), ascii), Canonicalize(a, ascii)))
	assert.True(t, Equal(Canonicalize(Negate(EmptyLang()), ascii), Canonicalize(Any(), ascii)))
	assert.True(t, Equal(Canonicalize(Negate(Any()), ascii), EmptyLang()))
}

func TestOrAndFoldCharacterSets(t *testing.T) {
	r := Or(CharacterSet(charset.OfRange('a', 'c')), CharacterSet(charset.OfRange('b', 'd')))
	c := Canonicalize(r, ascii)
	require.Equal(t, KindCharacterSet, c.Kind)
	assert.True(t, charset.Equal(c.Set, charset.OfRange('a', 'd')))

	r2 := And(CharacterSet(charset.OfRange('a', 'd')), CharacterSet(charset.OfRange('c', 'f')))
	c2 := Canonicalize(r2, ascii)
	require.Equal(t, KindCharacterSet, c2.Kind)
	assert.True(t, charset.Equal(c2.Set, charset.OfRange('c', 'd')))
}

func TestOrIsCommutativeUnderCanonicalForm(t *testing.T) {
	a, b := Character('x'), Character('y')
	c1 := Canonicalize(Or(a, b), ascii)
	c2 := Canonicalize(Or(b, a), ascii)
	assert.True(t, Equal(c1, c2))
}

func TestDerivativeOfConcat(t *testing.T) {
	// D_a("ab") should be "b" when a matches the first char.
	r := Concat(Character('a'), Character('b'))
	d := Canonicalize(Derivative(r, 'a'), ascii)
	assert.True(t, Equal(d, Character('b')))

	d2 := Canonicalize(Derivative(r, 'z'), ascii)
	assert.True(t, Equal(d2, EmptyLang()))
}

func TestDerivativeClassStability(t *testing.T) {
	// digit+ == digit . digit*
	r := Canonicalize(Concat(digit(), Star(digit())), ascii)
	classes := DerivativeClasses(r, ascii)

	// Any two symbols from the same class must yield canonically equal
	// derivatives (spec.md §8).
	for _, p := range classes {
		if p.IsEmpty() {
			continue
		}
		lo, _ := p.MinElement()
		hi, _ := p.MaxElement()
		d1 := Canonicalize(Derivative(r, lo), ascii)
		d2 := Canonicalize(Derivative(r, hi), ascii)
		assert.True(t, Equal(d1, d2), "class %v: D_%q != D_%q", p, lo, hi)
	}
}

func TestDigitPlusStabilizesToSingleLoopingState(t *testing.T) {
	r := Canonicalize(Concat(digit(), Star(digit())), ascii)
	d := Canonicalize(Derivative(r, '5'), ascii)
	// digit . digit* derivative by a digit canonicalizes to digit* exactly,
	// and deriving digit* again by a digit returns digit* again: a single
	// looping accepting state, per spec.md §8 scenario 3.
	assert.True(t, Equal(d, Canonicalize(Star(digit()), ascii)))
	d2 := Canonicalize(Derivative(d, '7'), ascii)
	assert.True(t, Equal(d2, d))
}
