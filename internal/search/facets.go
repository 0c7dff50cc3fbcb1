package search

import (
	"regexp"
	"strings"

	"github.com/mberk/coursedex/internal/pkg/slugify"
)

// facetToken matches embedded facet filters of the exact shape `word: "value"`.
// word is a run of alphanumerics/underscores; value is everything up to the
// closing double quote. Anything that does not match stays in the query text.
var facetToken = regexp.MustCompile(`(\w+): "([^"]*)"`)

// ParseFacets splits a raw query into the residual free-text query and the
// facet filter map. Each matched token is removed from the text and its value
// slugified for equality comparison against the index's facet fields.
// Malformed facet syntax is left untouched in the residual query.
func ParseFacets(raw string) (string, map[string]string) {
	facets := make(map[string]string)
	residual := raw
	for _, m := range facetToken.FindAllStringSubmatch(raw, -1) {
		facets[m[1]] = slugify.Make(m[2])
		residual = strings.Replace(residual, m[0], "", 1)
	}
	return strings.TrimSpace(residual), facets
}
