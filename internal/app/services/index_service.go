package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mberk/coursedex/internal/app/models"
	"github.com/mberk/coursedex/internal/app/projection"
	"github.com/mberk/coursedex/internal/app/repositories"
	"github.com/mberk/coursedex/internal/pkg/slugify"
	"github.com/mberk/coursedex/internal/search"
)

// IndexService rebuilds the search index entries of a session from the
// canonical rows. It renders documents once at index time; searches never
// touch the database.
type IndexService struct {
	courses  *repositories.CourseRepository
	sessions *repositories.SessionRepository
	index    search.Index
}

// NewIndexService creates a new index service instance
func NewIndexService(
	courses *repositories.CourseRepository,
	sessions *repositories.SessionRepository,
	index search.Index,
) *IndexService {
	return &IndexService{
		courses:  courses,
		sessions: sessions,
		index:    index,
	}
}

// ReindexSession upserts every course of the session into the index along
// with the session's own document. Courses swept from the database drop out
// of the index here because upserts are keyed by course id and the sweep runs
// before reindexing.
func (s *IndexService) ReindexSession(ctx context.Context, network *models.Network, session *models.Session) error {
	courses, err := s.courses.ListBySessionWithSections(ctx, network.ID, session.ID)
	if err != nil {
		return fmt.Errorf("loading session courses: %w", err)
	}

	for _, course := range courses {
		entry, err := courseEntry(course, network, session)
		if err != nil {
			return err
		}
		if err := s.index.UpsertCourse(ctx, entry); err != nil {
			return fmt.Errorf("indexing course %d: %w", course.ID, err)
		}
	}

	if err := s.sessions.LoadAssociations(ctx, session); err != nil {
		return fmt.Errorf("loading session associations: %w", err)
	}
	doc, err := json.Marshal(projection.BuildSessionDocument(session))
	if err != nil {
		return fmt.Errorf("rendering session document: %w", err)
	}
	if err := s.index.UpsertSession(ctx, search.SessionEntry{
		Network:  network.Slug,
		Slug:     session.Slug,
		Document: doc,
	}); err != nil {
		return fmt.Errorf("indexing session %s: %w", session.Slug, err)
	}
	return nil
}

func courseEntry(course *models.Course, network *models.Network, session *models.Session) (search.CourseEntry, error) {
	doc, err := json.Marshal(projection.BuildDocument(course, projection.VariantIndex))
	if err != nil {
		return search.CourseEntry{}, fmt.Errorf("rendering course %d: %w", course.ID, err)
	}

	entry := search.CourseEntry{
		ID:         course.ID,
		Network:    network.Slug,
		Session:    session.Slug,
		Status:     slugify.Make(projection.AggregateStatus(course)),
		Professors: courseProfessors(course),
		Text:       searchText(course),
		Document:   doc,
	}
	if course.Level != nil {
		entry.Level = course.Level.Slug
	}
	if course.College != nil {
		entry.College = course.College.Slug
	}
	if course.Classification != nil {
		entry.Subject = course.Classification.Slug
	}
	return entry, nil
}

func courseProfessors(course *models.Course) []string {
	seen := make(map[string]bool)
	var profs []string
	for _, section := range course.Sections {
		for _, name := range section.ProfNames() {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			profs = append(profs, name)
		}
	}
	return profs
}

// searchText concatenates the free-text searchable fields of a course.
func searchText(course *models.Course) string {
	parts := []string{course.Name, course.Number, course.Description, course.Profs}
	if course.Classification != nil {
		parts = append(parts, course.Classification.Name, course.Classification.Code)
	}
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
