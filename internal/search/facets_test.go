package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFacets(t *testing.T) {
	residual, facets := ParseFacets(`computer science subject: "CS" level: "Undergraduate"`)

	require.Equal(t, "computer science", residual)
	require.Equal(t, map[string]string{
		"subject": "cs",
		"level":   "undergraduate",
	}, facets)
}

func TestParseFacetsNoTokens(t *testing.T) {
	residual, facets := ParseFacets("intro to jazz")
	require.Equal(t, "intro to jazz", residual)
	require.Empty(t, facets)
}

func TestParseFacetsMalformedTokenStaysInQuery(t *testing.T) {
	// A token that fails to parse is left untouched rather than raising.
	residual, facets := ParseFacets(`jazz level: Undergraduate`)
	require.Equal(t, "jazz level: Undergraduate", residual)
	require.Empty(t, facets)
}

func TestParseFacetsSlugifiesValues(t *testing.T) {
	_, facets := ParseFacets(`college: "Arts & Science"`)
	require.Equal(t, "arts-science", facets["college"])
}

func TestParseFacetsEmptyValue(t *testing.T) {
	residual, facets := ParseFacets(`jazz status: ""`)
	require.Equal(t, "jazz", residual)
	require.Equal(t, "", facets["status"])
}
