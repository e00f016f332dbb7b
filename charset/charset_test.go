package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranges(rs ...Range) Set { return OfRanges(rs) }

func TestAddMergesAdjacentAndOverlapping(t *testing.T) {
	s := Empty().Add('a', 'c').Add('d', 'f')
	assert.Equal(t, []Range{{'a', 'f'}}, s.Ranges())

	s2 := Empty().Add('a', 'f').Add('c', 'd')
	assert.Equal(t, []Range{{'a', 'f'}}, s2.Ranges())
}

func TestRemove(t *testing.T) {
	s := OfRange('a', 'z').Remove('m', 'm')
	assert.Equal(t, []Range{{'a', 'l'}, {'n', 'z'}}, s.Ranges())
}

func TestUnionIntersectDifferenceCommuteAndAssociate(t *testing.T) {
	a := ranges(Range{'a', 'm'})
	b := ranges(Range{'g', 'z'})
	c := ranges(Range{'d', 'j'})

	require.True(t, Equal(Union(a, b), Union(b, a)))
	require.True(t, Equal(Intersect(a, b), Intersect(b, a)))
	require.True(t, Equal(Union(Union(a, b), c), Union(a, Union(b, c))))
	require.True(t, Equal(Intersect(Intersect(a, b), c), Intersect(a, Intersect(b, c))))

	require.True(t, Equal(Union(a, a), a))
	require.True(t, Equal(Intersect(a, a), a))
}

func TestDifferenceComplementLaw(t *testing.T) {
	universe := OfRange(0, 255)
	s := ranges(Range{'a', 'z'})
	comp := Difference(universe, s)

	require.True(t, Equal(Union(comp, s), universe))
	require.True(t, Equal(Intersect(comp, s), Empty()))
}

func TestRoundTrip(t *testing.T) {
	s := ranges(Range{'a', 'f'}, Range{'m', 'z'}, Range{'0', '9'})
	require.True(t, Equal(OfRanges(s.Ranges()), s))
}

func TestMinMaxElement(t *testing.T) {
	s := ranges(Range{'m', 'z'}, Range{'a', 'f'})
	min, err := s.MinElement()
	require.NoError(t, err)
	assert.Equal(t, rune('a'), min)

	max, err := s.MaxElement()
	require.NoError(t, err)
	assert.Equal(t, rune('z'), max)

	_, err = Empty().MinElement()
	require.Error(t, err)
}

func TestContains(t *testing.T) {
	s := ranges(Range{'a', 'f'}, Range{'m', 'z'})
	assert.True(t, s.Contains('c'))
	assert.True(t, s.Contains('z'))
	assert.False(t, s.Contains('g'))
	assert.False(t, s.Contains(0))
}

func TestForAllShortCircuits(t *testing.T) {
	s := OfRange('a', 'z')
	seen := 0
	ok := s.ForAll(func(c rune) bool {
		seen++
		return c != 'd'
	})
	assert.False(t, ok)
	assert.Equal(t, 4, seen)
}

func TestCompareTotalOrder(t *testing.T) {
	a := ranges(Range{'a', 'c'})
	b := ranges(Range{'a', 'd'})
	c := ranges(Range{'b', 'c'})

	assert.True(t, Compare(a, b) < 0)
	assert.True(t, Compare(b, c) < 0)
	assert.True(t, Compare(a, a) == 0)
}
