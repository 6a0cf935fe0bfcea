package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/formulax/formulas"
)

func names(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Formula.Name
	}
	return out
}

func TestTokenize(t *testing.T) {
	tok := NewTokenizer()
	assert.Len(t, tok.Tokenize("Points POINT points"), 1)
	assert.Empty(t, tok.Tokenize("the of and"))
	assert.Empty(t, tok.Tokenize("  --- !!! "))
	assert.Equal(t, tok.Tokenize("accelerating"), tok.Tokenize("acceleration"))
	assert.Equal(t, tok.Tokenize("plane's"), tok.Tokenize("planes"))
	assert.Equal(t, []string{"x1", "y1"}, tok.Tokenize("x1, y1"))
}

func TestSearchRanksNameMatchesFirst(t *testing.T) {
	idx := NewIndex(formulas.Default())

	assert.Equal(t, []string{formulas.TriangleAreaName, formulas.TrianglePerimeter}, names(idx.Search("triangle")))
	assert.Equal(t, []string{formulas.TriangleAreaName}, names(idx.Search("Heron")))
	assert.Equal(t, []string{formulas.LetterGradeName}, names(idx.Search("grade")))

	hits := idx.Search("accelerating planes")
	assert.Equal(t, []string{
		formulas.AverageAcceleration,
		formulas.RunwayLengthName,
		formulas.EuclideanDistance, // "in the plane"
	}, names(hits))
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Len(t, hits[1].Terms, 2)

	cost := idx.Search("cost of a trip")
	require.NotEmpty(t, cost)
	assert.Equal(t, formulas.DrivingCostName, cost[0].Formula.Name)
}

func TestSearchNoMatches(t *testing.T) {
	idx := NewIndex(formulas.Default())
	assert.Empty(t, idx.Search("xyzzy"))
	assert.Empty(t, idx.Search("the"))
	assert.Empty(t, idx.Search(""))
}

func TestSearchFindsRegisteredAlias(t *testing.T) {
	reg := formulas.New()
	require.NoError(t, reg.Alias("hypotenuse", formulas.EuclideanDistance))

	assert.Equal(t, []string{formulas.EuclideanDistance}, names(NewIndex(reg).Search("hypotenuse")))
	assert.Empty(t, NewIndex(formulas.Default()).Search("hypotenuse"))
}
