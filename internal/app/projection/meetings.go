package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/mberk/coursedex/internal/app/models"
)

// ClockFormat is how meeting times are rendered in documents.
const ClockFormat = "03:04 PM"

// MeetingGroup is a set of a section's meetings collapsed into one display
// entry because they share start, end, location and room. Day carries the
// comma-joined weekday labels of the members, in weekday order.
type MeetingGroup struct {
	Day      string
	Start    *time.Time
	End      *time.Time
	Location string
	Room     string
}

// GroupedMeetings sorts a section's meetings by the fixed weekday order and
// collapses consecutive meetings sharing (start, end, location, room) into
// one group. A day label outside the known set must never abort the
// projection: such sections degrade to a single ungrouped entry covering all
// meetings.
func GroupedMeetings(s *models.Section) []MeetingGroup {
	meetings := s.Meetings
	if len(meetings) == 0 {
		return nil
	}

	for _, m := range meetings {
		if models.DayIndex(m.Day) < 0 {
			return []MeetingGroup{ungrouped(meetings)}
		}
	}

	sorted := make([]*models.Meeting, len(meetings))
	copy(sorted, meetings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return models.DayIndex(sorted[i].Day) < models.DayIndex(sorted[j].Day)
	})

	var groups []MeetingGroup
	var days []string
	for i, m := range sorted {
		if i > 0 && !sameSlot(sorted[i-1], m) {
			groups = append(groups, newGroup(sorted[i-1], days))
			days = nil
		}
		days = append(days, m.Day)
	}
	groups = append(groups, newGroup(sorted[len(sorted)-1], days))
	return groups
}

func newGroup(m *models.Meeting, days []string) MeetingGroup {
	return MeetingGroup{
		Day:      strings.Join(days, ", "),
		Start:    m.Start,
		End:      m.End,
		Location: m.Location,
		Room:     m.Room,
	}
}

// ungrouped represents the whole meeting set as one group, using the first
// meeting's slot data.
func ungrouped(meetings []*models.Meeting) MeetingGroup {
	days := make([]string, len(meetings))
	for i, m := range meetings {
		days[i] = m.Day
	}
	first := meetings[0]
	return MeetingGroup{
		Day:      strings.Join(days, ", "),
		Start:    first.Start,
		End:      first.End,
		Location: first.Location,
		Room:     first.Room,
	}
}

// sameSlot reports whether two meetings occupy the same time and place.
func sameSlot(a, b *models.Meeting) bool {
	return timeEqual(a.Start, b.Start) &&
		timeEqual(a.End, b.End) &&
		a.Location == b.Location &&
		a.Room == b.Room
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// formatClock renders an optional time of day, nil propagating through.
func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(ClockFormat)
	return &s
}
