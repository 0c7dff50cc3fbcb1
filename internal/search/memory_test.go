package search

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	idx := NewMemoryIndex()
	entries := []CourseEntry{
		{ID: 1, Network: "nyu", Session: "fall-2026", Subject: "computer-science", Level: "undergraduate", Status: "open", Professors: []string{"Jane Doe"}, Text: "Intro to Computer Science"},
		{ID: 2, Network: "nyu", Session: "fall-2026", Subject: "computer-science", Level: "graduate", Status: "closed", Text: "Advanced Algorithms"},
		{ID: 3, Network: "nyu", Session: "spring-2027", Subject: "history", Level: "undergraduate", Status: "open", Text: "History of Jazz"},
		{ID: 4, Network: "columbia", Session: "fall-2026", Subject: "history", Level: "undergraduate", Status: "wait-list", Text: "World History"},
	}
	for _, e := range entries {
		e.Document = json.RawMessage(fmt.Sprintf(`{"id":%d}`, e.ID))
		require.NoError(t, idx.UpsertCourse(context.Background(), e))
	}
	return idx
}

func TestMemoryIndexScoping(t *testing.T) {
	idx := seedIndex(t)

	res, err := idx.Search(context.Background(), Query{Network: "nyu", Session: "fall-2026"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Len(t, res.Documents, 2)
}

func TestMemoryIndexFacetFilters(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	res, err := idx.Search(ctx, Query{Network: "nyu", Facets: map[string]string{"level": "undergraduate"}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)

	res, err = idx.Search(ctx, Query{Facets: map[string]string{"professor": "jane-doe"}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)

	// Unknown facet names match nothing.
	res, err = idx.Search(ctx, Query{Facets: map[string]string{"building": "silver"}})
	require.NoError(t, err)
	require.Zero(t, res.Total)
}

func TestMemoryIndexFreeText(t *testing.T) {
	idx := seedIndex(t)

	res, err := idx.Search(context.Background(), Query{Text: "history jazz"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.JSONEq(t, `{"id":3}`, string(res.Documents[0]))
}

func TestMemoryIndexPaginationSlice(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	res, err := idx.Search(ctx, Query{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 4, res.Total)
	require.Len(t, res.Documents, 2)
	require.JSONEq(t, `{"id":2}`, string(res.Documents[0]))

	// Offset past the end yields an empty page, not an error.
	res, err = idx.Search(ctx, Query{Offset: 10, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 4, res.Total)
	require.Empty(t, res.Documents)
}

func TestMemoryIndexUpsertReplaces(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.UpsertCourse(ctx, CourseEntry{
		ID: 1, Network: "nyu", Session: "fall-2026", Status: "closed",
		Text: "Intro to Computer Science", Document: json.RawMessage(`{"id":1,"v":2}`),
	}))

	res, err := idx.Search(ctx, Query{Facets: map[string]string{"status": "closed"}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
}

func TestMemoryIndexSessions(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	_, err := idx.Session(ctx, "nyu", "fall-2026")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, idx.UpsertSession(ctx, SessionEntry{
		Network: "nyu", Slug: "fall-2026", Document: json.RawMessage(`{"slug":"fall-2026"}`),
	}))
	entry, err := idx.Session(ctx, "nyu", "fall-2026")
	require.NoError(t, err)
	require.JSONEq(t, `{"slug":"fall-2026"}`, string(entry.Document))
}
