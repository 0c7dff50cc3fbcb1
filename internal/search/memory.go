package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mberk/coursedex/internal/pkg/slugify"
)

// MemoryIndex is an in-process Index. Matching is deliberately simple:
// case-insensitive substring terms over the indexed text, exact equality on
// facet fields, results ordered by course id for determinism.
type MemoryIndex struct {
	mu       sync.RWMutex
	courses  map[int64]CourseEntry
	sessions map[string]SessionEntry
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		courses:  make(map[int64]CourseEntry),
		sessions: make(map[string]SessionEntry),
	}
}

// UpsertCourse inserts or replaces a course entry keyed by its id.
func (idx *MemoryIndex) UpsertCourse(_ context.Context, entry CourseEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.courses[entry.ID] = entry
	return nil
}

// DeleteCourse removes a course entry. Deleting an absent id is a no-op.
func (idx *MemoryIndex) DeleteCourse(_ context.Context, id int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.courses, id)
	return nil
}

// UpsertSession inserts or replaces a session entry keyed by network+slug.
func (idx *MemoryIndex) UpsertSession(_ context.Context, entry SessionEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.sessions[entry.Network+"/"+entry.Slug] = entry
	return nil
}

// Session retrieves a session entry.
func (idx *MemoryIndex) Session(_ context.Context, network, slug string) (SessionEntry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entry, ok := idx.sessions[network+"/"+slug]
	if !ok {
		return SessionEntry{}, ErrSessionNotFound
	}
	return entry, nil
}

// Search applies the query's scope, facet filters and free text, then slices
// the ordered matches by offset/limit.
func (idx *MemoryIndex) Search(_ context.Context, q Query) (Result, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matched []CourseEntry
	for _, entry := range idx.courses {
		if q.Network != "" && entry.Network != q.Network {
			continue
		}
		if q.Session != "" && entry.Session != q.Session {
			continue
		}
		if !matchesFacets(entry, q.Facets) {
			continue
		}
		if !matchesText(entry.Text, q.Text) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	res := Result{Total: len(matched)}
	start := q.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	for _, entry := range matched[start:end] {
		res.Documents = append(res.Documents, entry.Document)
	}
	return res, nil
}

// matchesFacets applies equality per facet. A facet name the index does not
// carry matches nothing, mirroring a filter on an unknown engine field.
func matchesFacets(entry CourseEntry, facets map[string]string) bool {
	for name, value := range facets {
		switch name {
		case "network":
			if entry.Network != value {
				return false
			}
		case "session":
			if entry.Session != value {
				return false
			}
		case "level":
			if entry.Level != value {
				return false
			}
		case "college":
			if entry.College != value {
				return false
			}
		case "subject":
			if entry.Subject != value {
				return false
			}
		case "status":
			if entry.Status != value {
				return false
			}
		case "professor":
			if !containsProfessor(entry.Professors, value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// containsProfessor compares against the slugified professor names, since
// facet values arrive slugified from the parser.
func containsProfessor(names []string, want string) bool {
	for _, n := range names {
		if slugify.Make(n) == want {
			return true
		}
	}
	return false
}

// matchesText reports whether every whitespace-separated term appears in the
// indexed text, case-insensitively. Empty queries match everything.
func matchesText(text, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	haystack := strings.ToLower(text)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
