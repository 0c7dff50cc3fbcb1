package models

import "github.com/mberk/coursedex/internal/pkg/slugify"

// College is a sub-organization of an institution within a network
// (e.g. "College of Arts and Science").
type College struct {
	ID            int64  `json:"id" db:"id"`
	NetworkID     *int64 `json:"network_id,omitempty" db:"network_id"`
	InstitutionID *int64 `json:"institution_id,omitempty" db:"institution_id"`
	Name          string `json:"name" db:"name"`
	Slug          string `json:"slug" db:"slug"`
	ShortName     string `json:"short_name" db:"short_name"`
}

// RefreshSlug regenerates the slug from the current name. Slugs are always
// derived, never authored; repositories call this on every save.
func (c *College) RefreshSlug() {
	if c.Name != "" {
		c.Slug = slugify.Make(c.Name)
	}
}

// DisplayShortName returns the short name, falling back to the full name.
func (c *College) DisplayShortName() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Name
}

// Level is a degree level (e.g. Undergraduate, Graduate) scoped to an
// institution.
type Level struct {
	ID            int64  `json:"id" db:"id"`
	NetworkID     *int64 `json:"network_id,omitempty" db:"network_id"`
	InstitutionID int64  `json:"institution_id" db:"institution_id"`
	Name          string `json:"name" db:"name"`
	Slug          string `json:"slug" db:"slug"`
}

// RefreshSlug regenerates the slug from the current name.
func (l *Level) RefreshSlug() {
	if l.Name != "" {
		l.Slug = slugify.Make(l.Name)
	}
}

// Classification is a subject/department code within a network, optionally
// tied to a college.
type Classification struct {
	ID            int64  `json:"id" db:"id"`
	NetworkID     int64  `json:"network_id" db:"network_id"`
	InstitutionID int64  `json:"institution_id" db:"institution_id"`
	CollegeID     *int64 `json:"college_id,omitempty" db:"college_id"`
	Code          string `json:"code" db:"code"`
	Name          string `json:"name" db:"name"`
	Slug          string `json:"slug" db:"slug"`

	College *College `json:"college,omitempty"`
}

// RefreshSlug regenerates the slug from the current name.
func (c *Classification) RefreshSlug() {
	if c.Name != "" {
		c.Slug = slugify.Make(c.Name)
	}
}
