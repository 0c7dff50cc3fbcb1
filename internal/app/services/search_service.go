package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/search"
)

// Paging bounds for course search
const (
	DefaultResultsPerPage = 20
	MaxResultsPerPage     = 100
)

// SearchService answers course catalog searches against the hosting index
type SearchService struct {
	index search.Index
}

// NewSearchService creates a new search service instance
func NewSearchService(index search.Index) *SearchService {
	return &SearchService{
		index: index,
	}
}

// Search parses facet tokens out of the raw query, runs the faceted search
// scoped to the requested network and session, and wraps the matching page in
// the paging envelope.
func (s *SearchService) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	text, facets := search.ParseFacets(req.Query)

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultResultsPerPage
	}
	if limit > MaxResultsPerPage {
		limit = MaxResultsPerPage
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	result, err := s.index.Search(ctx, search.Query{
		Network: req.Network,
		Session: req.Session,
		Text:    text,
		Facets:  facets,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("searching courses: %w", err)
	}

	num := len(result.Documents)
	results := result.Documents
	if results == nil {
		results = []json.RawMessage{}
	}

	return &dto.SearchResponse{
		Offset:         offset,
		Page:           offset/limit + 1,
		ResultsPerPage: limit,
		Total:          result.Total,
		Num:            num,
		More:           offset+num < result.Total,
		Results:        results,
	}, nil
}
