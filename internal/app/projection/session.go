package projection

import (
	"strings"

	"github.com/mberk/coursedex/internal/app/models"
)

// SessionDocument is the canonical JSON projection of a session: the term
// metadata plus the colleges, subjects and levels that exist within it.
type SessionDocument struct {
	Slug      string                   `json:"slug"`
	Name      string                   `json:"name"`
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Code      *string                  `json:"code"`
	ID        int64                    `json:"id"`
	Colleges  []SessionCollegeDocument `json:"colleges"`
	Subjects  []SessionSubjectDocument `json:"subjects"`
	Levels    []SessionLevelDocument   `json:"levels"`
}

// SessionCollegeDocument is one college entry of a session document.
type SessionCollegeDocument struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	ID        int64  `json:"id"`
}

// SessionSubjectDocument is one classification entry of a session document.
type SessionSubjectDocument struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	ID      int64  `json:"id"`
	College *int64 `json:"college"`
}

// SessionLevelDocument is one level entry of a session document.
type SessionLevelDocument struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

// BuildSessionDocument assembles the session document. The session's
// classification, college and level associations must be populated.
func BuildSessionDocument(s *models.Session) *SessionDocument {
	doc := &SessionDocument{
		Slug:      s.Slug,
		Name:      s.Name,
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
		Code:      s.SystemCode,
		ID:        s.ID,
		Colleges:  make([]SessionCollegeDocument, 0, len(s.Colleges)),
		Subjects:  make([]SessionSubjectDocument, 0, len(s.Classifications)),
		Levels:    make([]SessionLevelDocument, 0, len(s.Levels)),
	}
	for _, c := range s.Colleges {
		doc.Colleges = append(doc.Colleges, SessionCollegeDocument{
			Slug:      c.Slug,
			Name:      strings.TrimSpace(c.Name),
			ShortName: c.ShortName,
			ID:        c.ID,
		})
	}
	for _, c := range s.Classifications {
		doc.Subjects = append(doc.Subjects, SessionSubjectDocument{
			Code:    c.Code,
			Name:    strings.TrimSpace(c.Name),
			Slug:    c.Slug,
			ID:      c.ID,
			College: c.CollegeID,
		})
	}
	for _, l := range s.Levels {
		doc.Levels = append(doc.Levels, SessionLevelDocument{
			Name: strings.TrimSpace(l.Name),
			Slug: l.Slug,
			ID:   l.ID,
		})
	}
	return doc
}
