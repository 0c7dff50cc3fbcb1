// Package projection derives presentation-ready facts from canonical course
// rows and assembles the stable JSON document shape consumed by both the
// public API and the search index. Everything here is a pure function over a
// course whose sections and meetings have been eagerly loaded; missing
// optional data never causes an error.
package projection

import (
	"strings"
	"unicode"

	"github.com/mberk/coursedex/internal/app/models"
)

// Words kept lowercase in title position unless they open or close the name.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "in": true, "nor": true, "of": true, "on": true,
	"or": true, "per": true, "the": true, "to": true, "via": true, "with": true,
}

// DisplayName returns the course name in smart title case, trimmed.
func DisplayName(c *models.Course) string {
	return SmartTitle(c.Name)
}

// SmartTitle title-cases free text: every word is capitalized except small
// connective words, which stay lowercase unless they open or close the text.
func SmartTitle(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i != 0 && i != len(words)-1 && smallWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = capitalize(lower)
	}
	return strings.Join(words, " ")
}

// capitalize uppercases the first letter of w, leaving the rest as-is.
func capitalize(w string) string {
	runes := []rune(w)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

// AggregateStatus rolls a course's section statuses up to a single label.
// Open beats Wait List beats Closed regardless of section order; a course
// with no sections is Closed.
func AggregateStatus(c *models.Course) string {
	hasWaitList := false
	for _, s := range c.Sections {
		switch s.Status {
		case models.StatusOpen:
			return models.StatusOpen
		case models.StatusWaitList:
			hasWaitList = true
		}
	}
	if hasWaitList {
		return models.StatusWaitList
	}
	return models.StatusClosed
}

// ResolvedDescription returns the course description, with the sections'
// shared notes value folded in when every section carries exactly the same
// notes. Some schools put what is really the course description in a
// per-section notes field; folding recovers it. Zero or more than one
// distinct notes value leaves the description unmodified.
func ResolvedDescription(c *models.Course) string {
	notes := distinctNotes(c.Sections)
	if len(notes) != 1 {
		return c.Description
	}
	return strings.TrimSpace(c.Description + " " + notes[0])
}

// SectionNotes returns the notes to display for one section of course. When
// the sections' single shared notes value was folded into the course
// description, the per-section note is suppressed so it is not shown twice.
// The decision must match ResolvedDescription for the same course.
func SectionNotes(section *models.Section, course *models.Course) string {
	if len(distinctNotes(course.Sections)) == 1 {
		return ""
	}
	return section.Notes
}

// distinctNotes returns the distinct section notes values in first-seen
// order. The empty string counts as a value.
func distinctNotes(sections []*models.Section) []string {
	seen := make(map[string]bool)
	var notes []string
	for _, s := range sections {
		if seen[s.Notes] {
			continue
		}
		seen[s.Notes] = true
		notes = append(notes, s.Notes)
	}
	return notes
}
