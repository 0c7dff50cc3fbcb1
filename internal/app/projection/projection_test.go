package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mberk/coursedex/internal/app/models"
)

func clock(hour, min int) *time.Time {
	t := time.Date(0, 1, 1, hour, min, 0, 0, time.UTC)
	return &t
}

func sectionWithStatus(statuses ...string) *models.Course {
	c := &models.Course{Name: "Test Course"}
	for i, status := range statuses {
		c.Sections = append(c.Sections, &models.Section{
			ID:     int64(i + 1),
			Status: status,
		})
	}
	return c
}

func TestAggregateStatusTieBreak(t *testing.T) {
	require.Equal(t, models.StatusOpen,
		AggregateStatus(sectionWithStatus("Closed", "Open", "Wait List")))
	require.Equal(t, models.StatusWaitList,
		AggregateStatus(sectionWithStatus("Closed", "Wait List")))
	require.Equal(t, models.StatusClosed,
		AggregateStatus(sectionWithStatus("Closed")))
	require.Equal(t, models.StatusClosed,
		AggregateStatus(sectionWithStatus()))
}

func TestAggregateStatusIgnoresSectionOrder(t *testing.T) {
	require.Equal(t, models.StatusOpen,
		AggregateStatus(sectionWithStatus("Open", "Closed")))
	require.Equal(t, models.StatusOpen,
		AggregateStatus(sectionWithStatus("Closed", "Open")))
}

func TestGroupedMeetings(t *testing.T) {
	s := &models.Section{
		Meetings: []*models.Meeting{
			{Day: "Mon", Start: clock(10, 0), End: clock(10, 50), Location: "R101"},
			{Day: "Wed", Start: clock(10, 0), End: clock(10, 50), Location: "R101"},
			{Day: "Tue", Start: clock(14, 0), End: clock(14, 50), Location: "R202"},
		},
	}

	groups := GroupedMeetings(s)
	require.Len(t, groups, 2)

	require.Equal(t, "Mon, Wed", groups[0].Day)
	require.Equal(t, "R101", groups[0].Location)
	require.True(t, groups[0].Start.Equal(*clock(10, 0)))
	require.True(t, groups[0].End.Equal(*clock(10, 50)))

	require.Equal(t, "Tue", groups[1].Day)
	require.Equal(t, "R202", groups[1].Location)
	require.True(t, groups[1].Start.Equal(*clock(14, 0)))
}

func TestGroupedMeetingsWeekdayOrder(t *testing.T) {
	s := &models.Section{
		Meetings: []*models.Meeting{
			{Day: "TBA"},
			{Day: "Fri", Start: clock(9, 0), End: clock(9, 50), Location: "Main"},
			{Day: "Mon", Start: clock(9, 0), End: clock(9, 50), Location: "Main"},
		},
	}

	groups := GroupedMeetings(s)
	require.Len(t, groups, 2)
	require.Equal(t, "Mon, Fri", groups[0].Day)
	require.Equal(t, "TBA", groups[1].Day)
}

func TestGroupedMeetingsUnknownDayFallback(t *testing.T) {
	s := &models.Section{
		Meetings: []*models.Meeting{
			{Day: "Mon", Location: "R101"},
			{Day: "Funday", Location: "R202"},
		},
	}

	// A malformed day value must never abort the projection; the whole
	// meeting set passes through as one ungrouped entry.
	groups := GroupedMeetings(s)
	require.Len(t, groups, 1)
	require.Equal(t, "Mon, Funday", groups[0].Day)
	require.Equal(t, "R101", groups[0].Location)
}

func TestGroupedMeetingsEmpty(t *testing.T) {
	require.Empty(t, GroupedMeetings(&models.Section{}))
}

func TestResolvedDescriptionFolding(t *testing.T) {
	c := &models.Course{
		Description: "About animals.",
		Sections: []*models.Section{
			{Notes: "same text"},
			{Notes: "same text"},
		},
	}
	require.Equal(t, "About animals. same text", ResolvedDescription(c))

	// The folded note must not be displayed again on the sections.
	require.Equal(t, "", SectionNotes(c.Sections[0], c))
	require.Equal(t, "", SectionNotes(c.Sections[1], c))
}

func TestResolvedDescriptionDistinctNotes(t *testing.T) {
	c := &models.Course{
		Description: "About animals.",
		Sections: []*models.Section{
			{Notes: "a"},
			{Notes: "b"},
		},
	}
	require.Equal(t, "About animals.", ResolvedDescription(c))
	require.Equal(t, "a", SectionNotes(c.Sections[0], c))
	require.Equal(t, "b", SectionNotes(c.Sections[1], c))
}

func TestResolvedDescriptionNoSections(t *testing.T) {
	c := &models.Course{Description: "Plain."}
	require.Equal(t, "Plain.", ResolvedDescription(c))
}

func TestSmartTitle(t *testing.T) {
	require.Equal(t, "Animals and Society", SmartTitle("ANIMALS AND SOCIETY"))
	require.Equal(t, "The History of Jazz", SmartTitle("the history of jazz"))
	require.Equal(t, "Introduction to Programming", SmartTitle("  introduction to programming  "))
	// A small word in final position is still capitalized.
	require.Equal(t, "What Dreams Are Made Of", SmartTitle("what dreams are made of"))
}

func TestDisplayNameTrims(t *testing.T) {
	c := &models.Course{Name: " topics in ethics "}
	require.Equal(t, "Topics in Ethics", DisplayName(c))
}
