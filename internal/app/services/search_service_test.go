package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/search"
)

func seededIndex(t *testing.T, n int) *search.MemoryIndex {
	t.Helper()
	idx := search.NewMemoryIndex()
	for i := 1; i <= n; i++ {
		entry := search.CourseEntry{
			ID:      int64(i),
			Network: "demo",
			Session: "fall-2026",
			Subject: "cs",
			Status:  "open",
			Text:    fmt.Sprintf("computer science %d", i),
			Document: json.RawMessage(
				fmt.Sprintf(`{"id":%d}`, i)),
		}
		require.NoError(t, idx.UpsertCourse(context.Background(), entry))
	}
	return idx
}

func TestSearchEnvelope(t *testing.T) {
	svc := NewSearchService(seededIndex(t, 45))

	resp, err := svc.Search(context.Background(), dto.SearchRequest{
		Network: "demo",
		Session: "fall-2026",
	})
	require.NoError(t, err)

	require.Equal(t, 0, resp.Offset)
	require.Equal(t, 1, resp.Page)
	require.Equal(t, DefaultResultsPerPage, resp.ResultsPerPage)
	require.Equal(t, 45, resp.Total)
	require.Equal(t, DefaultResultsPerPage, resp.Num)
	require.True(t, resp.More)
	require.Len(t, resp.Results, DefaultResultsPerPage)
}

func TestSearchLastPage(t *testing.T) {
	svc := NewSearchService(seededIndex(t, 45))

	resp, err := svc.Search(context.Background(), dto.SearchRequest{
		Network: "demo",
		Offset:  40,
	})
	require.NoError(t, err)

	require.Equal(t, 40, resp.Offset)
	require.Equal(t, 3, resp.Page)
	require.Equal(t, 5, resp.Num)
	require.False(t, resp.More)
}

func TestSearchFacetedQuery(t *testing.T) {
	idx := seededIndex(t, 3)
	require.NoError(t, idx.UpsertCourse(context.Background(), search.CourseEntry{
		ID:       99,
		Network:  "demo",
		Session:  "fall-2026",
		Subject:  "history",
		Status:   "closed",
		Text:     "modern european history",
		Document: json.RawMessage(`{"id":99}`),
	}))
	svc := NewSearchService(idx)

	resp, err := svc.Search(context.Background(), dto.SearchRequest{
		Network: "demo",
		Query:   `subject: "History" european`,
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	require.JSONEq(t, `{"id":99}`, string(resp.Results[0]))
}

func TestSearchNoMatchesKeepsResultsNonNil(t *testing.T) {
	svc := NewSearchService(search.NewMemoryIndex())

	resp, err := svc.Search(context.Background(), dto.SearchRequest{Network: "demo"})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Total)
	require.NotNil(t, resp.Results)
	require.Empty(t, resp.Results)
}

func TestSearchClampsLimit(t *testing.T) {
	svc := NewSearchService(seededIndex(t, 5))

	resp, err := svc.Search(context.Background(), dto.SearchRequest{
		Network: "demo",
		Limit:   MaxResultsPerPage + 50,
	})
	require.NoError(t, err)
	require.Equal(t, MaxResultsPerPage, resp.ResultsPerPage)
}
