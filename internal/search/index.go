// Package search defines the contract with the hosting full-text index and
// the facet query parsing that sits in front of it. The engine itself is an
// external collaborator; MemoryIndex is the in-process implementation used
// in development mode and in tests.
package search

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrSessionNotFound is returned when a session entry is absent from the index.
var ErrSessionNotFound = errors.New("session not found in index")

// CourseEntry is a course as stored in the index: the faceted fields plus the
// opaque canonical document (index variant, status omitted — status is
// faceted separately and computed at index time).
type CourseEntry struct {
	ID         int64           `json:"id"`
	Network    string          `json:"network"`
	Session    string          `json:"session"`
	Level      string          `json:"level"`
	College    string          `json:"college"`
	Subject    string          `json:"subject"`
	Status     string          `json:"status"`
	Professors []string        `json:"professor"`
	Text       string          `json:"text"`
	Document   json.RawMessage `json:"json"`
}

// SessionEntry is a session document as stored in the index.
type SessionEntry struct {
	Network  string          `json:"network"`
	Slug     string          `json:"slug"`
	Document json.RawMessage `json:"json"`
}

// Query is one search request: scope, equality facet filters, free text and
// a page slice.
type Query struct {
	Network string
	Session string
	Text    string
	Facets  map[string]string
	Offset  int
	Limit   int
}

// Result carries the page of matching documents and the full match count
// before pagination.
type Result struct {
	Total     int
	Documents []json.RawMessage
}

// Index is the hosting search engine: upserted documents keyed by entity id,
// equality filtering per facet field, free-text matching, count and
// offset/limit slicing.
type Index interface {
	UpsertCourse(ctx context.Context, entry CourseEntry) error
	DeleteCourse(ctx context.Context, id int64) error
	UpsertSession(ctx context.Context, entry SessionEntry) error
	Session(ctx context.Context, network, slug string) (SessionEntry, error)
	Search(ctx context.Context, q Query) (Result, error)
}
