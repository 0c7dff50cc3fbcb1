package models

import (
	"time"

	"github.com/mberk/coursedex/internal/pkg/slugify"
)

// Session is one academic term within a network (e.g. "Fall 2026").
type Session struct {
	ID         int64     `json:"id" db:"id"`
	NetworkID  int64     `json:"network_id" db:"network_id"`
	Name       string    `json:"name" db:"name"`
	Slug       string    `json:"slug" db:"slug"`
	SystemCode *string   `json:"code,omitempty" db:"system_code"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`
	Active     bool      `json:"active" db:"active"`

	// Reference data associated with the term (many-to-many, populated on
	// demand).
	Classifications []*Classification `json:"classifications,omitempty"`
	Colleges        []*College        `json:"colleges,omitempty"`
	Levels          []*Level          `json:"levels,omitempty"`
}

// RefreshSlug regenerates the slug from the current name.
func (s *Session) RefreshSlug() {
	if s.Name != "" {
		s.Slug = slugify.Make(s.Name)
	}
}
