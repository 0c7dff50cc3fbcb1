package models

import (
	"strings"
	"time"

	"github.com/mberk/coursedex/internal/pkg/slugify"
)

// Course is one catalog entry within a session. Classification, college and
// level are each optional; institutions differ in what they report.
type Course struct {
	ID        int64     `json:"id" db:"id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	NetworkID        *int64 `json:"network_id,omitempty" db:"network_id"`
	InstitutionID    *int64 `json:"institution_id,omitempty" db:"institution_id"`
	CollegeID        *int64 `json:"college_id,omitempty" db:"college_id"`
	ClassificationID *int64 `json:"classification_id,omitempty" db:"classification_id"`
	SessionID        int64  `json:"session_id" db:"session_id"`
	LevelID          *int64 `json:"level_id,omitempty" db:"level_id"`

	Number      string `json:"number" db:"number"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
	Grading     string `json:"grading" db:"grading"`

	// Profs is derived: the space-joined distinct professor names across the
	// course's sections. It is recomputed on every save and goes stale after
	// a section mutation until the course is saved again.
	Profs string `json:"profs" db:"profs"`

	// Relations (populated when needed).
	Classification *Classification `json:"classification,omitempty"`
	College        *College        `json:"college,omitempty"`
	Level          *Level          `json:"level,omitempty"`
	Session        *Session        `json:"session,omitempty"`
	Sections       []*Section      `json:"sections,omitempty"`
}

// RefreshDerived recomputes the derived fields from the current name and the
// populated Sections slice: the slug and the profs rollup. Repositories call
// this on every save.
func (c *Course) RefreshDerived() {
	if c.Name != "" {
		c.Slug = slugify.Make(c.Name)
	}

	seen := make(map[string]bool)
	var profs []string
	for _, s := range c.Sections {
		for _, p := range s.ProfNames() {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			profs = append(profs, p)
		}
	}
	c.Profs = strings.Join(profs, " ")
}
