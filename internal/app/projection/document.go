package projection

import (
	"strings"

	"github.com/mberk/coursedex/internal/app/models"
)

// Variant selects which consumer a course document is built for.
type Variant int

const (
	// VariantAPI includes the aggregate status label.
	VariantAPI Variant = iota
	// VariantIndex omits status: the index facets status separately and
	// recomputes it at index time, so embedding it in the document would
	// only drift.
	VariantIndex
)

// CourseDocument is the canonical JSON projection of a course. The field
// names are a stable contract shared by the public API and the search index.
type CourseDocument struct {
	Name           string                  `json:"name"`
	ID             int64                   `json:"id"`
	Number         string                  `json:"number"`
	Classification *ClassificationDocument `json:"classification"`
	Level          *string                 `json:"level"`
	Grading        string                  `json:"grading"`
	Description    string                  `json:"description"`
	Status         string                  `json:"status,omitempty"`
	Sections       []SectionDocument       `json:"sections"`
	AvailableStats map[string]bool         `json:"available_stats"`
}

// ClassificationDocument is the subject block of a course document.
type ClassificationDocument struct {
	Code    string           `json:"code"`
	Name    string           `json:"name"`
	College *CollegeDocument `json:"college"`
}

// CollegeDocument identifies a college within a course document.
type CollegeDocument struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SectionDocument is one section entry of a course document.
type SectionDocument struct {
	ID            int64             `json:"id"`
	ReferenceCode string            `json:"reference_code"`
	Number        string            `json:"number"`
	Name          string            `json:"name"`
	Status        StatusDocument    `json:"status"`
	Component     string            `json:"component"`
	Prof          string            `json:"prof"`
	Units         string            `json:"units"`
	Notes         string            `json:"notes"`
	Meets         []MeetingDocument `json:"meets"`
}

// StatusDocument carries the section status label and, when the institution
// reports them, seat and waitlist counters.
type StatusDocument struct {
	Label    string      `json:"label"`
	Seats    *SeatCounts `json:"seats"`
	Waitlist *SeatCounts `json:"waitlist"`
}

// SeatCounts is a capacity/taken/available triple. Individual counters stay
// nil when untracked.
type SeatCounts struct {
	Total     *int `json:"total"`
	Taken     *int `json:"taken"`
	Available *int `json:"available"`
}

// MeetingDocument is one grouped meeting slot of a section document.
type MeetingDocument struct {
	Day      string  `json:"day"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Location string  `json:"location"`
	Room     string  `json:"room"`
}

// BuildDocument assembles the canonical document for a course. The course's
// sections and their meetings must be populated; courses with zero sections
// are the caller's responsibility to filter where the API contract requires
// sections.
func BuildDocument(c *models.Course, v Variant) *CourseDocument {
	doc := &CourseDocument{
		Name:           DisplayName(c),
		ID:             c.ID,
		Number:         c.Number,
		Classification: classificationDocument(c),
		Grading:        c.Grading,
		Description:    ResolvedDescription(c),
		Sections:       make([]SectionDocument, 0, len(c.Sections)),
	}
	if c.Level != nil {
		doc.Level = &c.Level.Name
	}
	if v == VariantAPI {
		doc.Status = AggregateStatus(c)
	}

	for _, s := range c.Sections {
		doc.Sections = append(doc.Sections, buildSection(s, c))
	}
	doc.AvailableStats = availableStats(doc.Sections)
	return doc
}

func classificationDocument(c *models.Course) *ClassificationDocument {
	if c.Classification == nil {
		return nil
	}
	cd := &ClassificationDocument{
		Code: c.Classification.Code,
		Name: c.Classification.Name,
	}
	if c.College != nil {
		cd.College = &CollegeDocument{Name: c.College.Name, Slug: c.College.Slug}
	}
	return cd
}

func buildSection(s *models.Section, course *models.Course) SectionDocument {
	doc := SectionDocument{
		ID:            s.ID,
		ReferenceCode: s.ReferenceCode,
		Number:        s.Number,
		Name:          strings.TrimSpace(s.Name),
		Status:        statusDocument(s),
		Component:     s.Component,
		Prof:          s.Prof,
		Units:         s.Units,
		Notes:         SectionNotes(s, course),
	}
	groups := GroupedMeetings(s)
	doc.Meets = make([]MeetingDocument, 0, len(groups))
	for _, g := range groups {
		doc.Meets = append(doc.Meets, MeetingDocument{
			Day:      g.Day,
			Start:    formatClock(g.Start),
			End:      formatClock(g.End),
			Location: g.Location,
			Room:     g.Room,
		})
	}
	return doc
}

// statusDocument builds the status block. The seats object is present only
// when the institution tracks seat counts (taken != nil; a reported zero
// still counts as tracked), and the waitlist object only when any waitlist
// number is reported.
func statusDocument(s *models.Section) StatusDocument {
	doc := StatusDocument{Label: s.Status}
	if s.SeatsTaken != nil {
		doc.Seats = &SeatCounts{
			Total:     s.SeatsCapacity,
			Taken:     s.SeatsTaken,
			Available: s.SeatsAvailable,
		}
	}
	if s.WaitlistCapacity != nil || s.WaitlistTaken != nil {
		doc.Waitlist = &SeatCounts{
			Total:     s.WaitlistCapacity,
			Taken:     s.WaitlistTaken,
			Available: s.WaitlistAvailable,
		}
	}
	return doc
}
