package models

import (
	"strings"
	"time"
)

// Section is one offered section of a course. Seat and waitlist counters are
// pointers: nil means the institution does not report that number, which is
// distinct from a reported zero.
type Section struct {
	ID        int64     `json:"id" db:"id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	NetworkID     *int64 `json:"network_id,omitempty" db:"network_id"`
	InstitutionID *int64 `json:"institution_id,omitempty" db:"institution_id"`
	CourseID      int64  `json:"course_id" db:"course_id"`

	Status        string `json:"status" db:"status"`
	Number        string `json:"number" db:"number"`
	Name          string `json:"name" db:"name"`
	Notes         string `json:"notes" db:"notes"`
	Prof          string `json:"prof" db:"prof"`
	Units         string `json:"units" db:"units"`
	Component     string `json:"component" db:"component"`
	ReferenceCode string `json:"reference_code" db:"reference_code"`

	SeatsCapacity     *int `json:"seats_capacity,omitempty" db:"seats_capacity"`
	SeatsTaken        *int `json:"seats_taken,omitempty" db:"seats_taken"`
	SeatsAvailable    *int `json:"seats_available,omitempty" db:"seats_available"`
	WaitlistCapacity  *int `json:"waitlist_capacity,omitempty" db:"waitlist_capacity"`
	WaitlistTaken     *int `json:"waitlist_taken,omitempty" db:"waitlist_taken"`
	WaitlistAvailable *int `json:"waitlist_available,omitempty" db:"waitlist_available"`

	Meetings []*Meeting `json:"meetings,omitempty"`
}

// ProfNames splits the comma-joined professor field into individual names.
func (s *Section) ProfNames() []string {
	if s.Prof == "" {
		return nil
	}
	parts := strings.Split(s.Prof, ", ")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// PaddedNumber returns the section number left-padded to three characters.
func (s *Section) PaddedNumber() string {
	n := s.Number
	for len(n) < 3 {
		n = "0" + n
	}
	return n
}

// Meeting is one scheduled meeting slot of a section. Start and End carry the
// time of day only; nil means the institution reported no time.
type Meeting struct {
	ID        int64      `json:"id" db:"id"`
	SectionID int64      `json:"section_id" db:"section_id"`
	Day       string     `json:"day" db:"day"`
	Start     *time.Time `json:"start,omitempty" db:"start"`
	End       *time.Time `json:"end,omitempty" db:"end"`
	Location  string     `json:"location" db:"location"`
	Room      string     `json:"room" db:"room"`
}
