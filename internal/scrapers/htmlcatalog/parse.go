package htmlcatalog

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// parsedCourse is one course block as it appears on the catalog page.
type parsedCourse struct {
	Number      string
	Name        string
	Description string
	Grading     string

	SubjectCode string
	SubjectName string

	CollegeName  string
	CollegeShort string

	LevelName string

	Sections []parsedSection
}

type parsedSection struct {
	Number        string
	Component     string
	Status        string
	Prof          string
	Units         string
	ReferenceCode string
	Notes         string

	SeatsCapacity    *int
	SeatsTaken       *int
	WaitlistCapacity *int
	WaitlistTaken    *int

	Meetings []parsedMeeting
}

type parsedMeeting struct {
	Day      string
	Start    *time.Time
	End      *time.Time
	Location string
	Room     string
}

// meetingPattern matches one meeting token:
// "Mon 09:00-10:15 @ Science Hall / 101", with the time span, location and
// room each optional ("TBA" is a bare day).
var meetingPattern = regexp.MustCompile(
	`^(\w+)(?:\s+(\d{1,2}:\d{2})-(\d{1,2}:\d{2}))?(?:\s+@\s+([^/]+?)(?:\s+/\s+(.+))?)?$`)

// parseCatalog extracts the course blocks from a catalog page.
func parseCatalog(r io.Reader) ([]parsedCourse, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var courses []parsedCourse
	var parseErr error

	doc.Find("div.course").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		course, err := parseCourse(sel)
		if err != nil {
			parseErr = fmt.Errorf("course block %d: %w", i, err)
			return false
		}
		courses = append(courses, course)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return courses, nil
}

func parseCourse(sel *goquery.Selection) (parsedCourse, error) {
	number, ok := sel.Attr("data-number")
	if !ok || strings.TrimSpace(number) == "" {
		return parsedCourse{}, fmt.Errorf("missing data-number attribute")
	}

	course := parsedCourse{
		Number:      strings.TrimSpace(number),
		Name:        text(sel, ".name"),
		Description: text(sel, ".description"),
		Grading:     text(sel, ".grading"),
		SubjectName: text(sel, ".subject"),
		CollegeName: text(sel, ".college"),
		LevelName:   text(sel, ".level"),
	}
	course.SubjectCode = strings.TrimSpace(sel.Find(".subject").AttrOr("data-code", ""))
	course.CollegeShort = strings.TrimSpace(sel.Find(".college").AttrOr("data-short", ""))

	var sectionErr error
	sel.Find("tr.section").EachWithBreak(func(i int, row *goquery.Selection) bool {
		section, err := parseSection(row)
		if err != nil {
			sectionErr = fmt.Errorf("section row %d: %w", i, err)
			return false
		}
		course.Sections = append(course.Sections, section)
		return true
	})
	if sectionErr != nil {
		return parsedCourse{}, sectionErr
	}
	return course, nil
}

func parseSection(row *goquery.Selection) (parsedSection, error) {
	number, ok := row.Attr("data-number")
	if !ok || strings.TrimSpace(number) == "" {
		return parsedSection{}, fmt.Errorf("missing data-number attribute")
	}

	section := parsedSection{
		Number:        strings.TrimSpace(number),
		Component:     text(row, ".component"),
		Status:        text(row, ".status"),
		Prof:          text(row, ".prof"),
		Units:         text(row, ".units"),
		ReferenceCode: text(row, ".ref"),
		Notes:         text(row, ".notes"),
	}

	seats := row.Find(".seats")
	section.SeatsCapacity = intAttr(seats, "data-capacity")
	section.SeatsTaken = intAttr(seats, "data-taken")
	waitlist := row.Find(".waitlist")
	section.WaitlistCapacity = intAttr(waitlist, "data-capacity")
	section.WaitlistTaken = intAttr(waitlist, "data-taken")

	meetings, err := parseMeetings(text(row, ".meetings"))
	if err != nil {
		return parsedSection{}, err
	}
	section.Meetings = meetings
	return section, nil
}

// parseMeetings splits a meetings cell into its tokens. An empty cell means
// no scheduled meetings.
func parseMeetings(cell string) ([]parsedMeeting, error) {
	if cell == "" {
		return nil, nil
	}

	var meetings []parsedMeeting
	for _, token := range strings.Split(cell, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		m := meetingPattern.FindStringSubmatch(token)
		if m == nil {
			return nil, fmt.Errorf("malformed meeting token %q", token)
		}

		meeting := parsedMeeting{
			Day:      m[1],
			Location: strings.TrimSpace(m[4]),
			Room:     strings.TrimSpace(m[5]),
		}
		if m[2] != "" {
			start, err := parseClock(m[2])
			if err != nil {
				return nil, fmt.Errorf("meeting token %q: %w", token, err)
			}
			end, err := parseClock(m[3])
			if err != nil {
				return nil, fmt.Errorf("meeting token %q: %w", token, err)
			}
			meeting.Start = start
			meeting.End = end
		}
		meetings = append(meetings, meeting)
	}
	return meetings, nil
}

func parseClock(s string) (*time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil, fmt.Errorf("invalid clock time %q", s)
	}
	return &t, nil
}

func text(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func intAttr(sel *goquery.Selection, attr string) *int {
	raw, ok := sel.Attr(attr)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}
