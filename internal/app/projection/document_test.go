package projection

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mberk/coursedex/internal/app/models"
)

func intp(v int) *int { return &v }

func sampleCourse() *models.Course {
	collegeID := int64(7)
	return &models.Course{
		ID:          42,
		Number:      "UA 101",
		Name:        "animals and society",
		Description: "A survey.",
		Grading:     "CAS Graded",
		Classification: &models.Classification{
			Code: "ANST-UA",
			Name: "Animal Studies",
			Slug: "animal-studies",
		},
		College: &models.College{
			ID:   collegeID,
			Name: "College of Arts and Science",
			Slug: "college-of-arts-and-science",
		},
		Level: &models.Level{Name: "Undergraduate", Slug: "undergraduate"},
		Sections: []*models.Section{
			{
				ID:            1,
				ReferenceCode: "9001",
				Number:        "001",
				Name:          " Lecture ",
				Status:        models.StatusOpen,
				Component:     "Lecture",
				Prof:          "Jane Doe",
				Units:         "4",
				SeatsCapacity: intp(30),
				SeatsTaken:    intp(0),
				Meetings: []*models.Meeting{
					{Day: "Mon", Start: clock(10, 0), End: clock(10, 50), Location: "Silver", Room: "101"},
					{Day: "Wed", Start: clock(10, 0), End: clock(10, 50), Location: "Silver", Room: "101"},
				},
			},
			{
				ID:     2,
				Number: "002",
				Status: models.StatusClosed,
				Prof:   "John Roe",
			},
		},
	}
}

func TestBuildDocumentAPIVariant(t *testing.T) {
	doc := BuildDocument(sampleCourse(), VariantAPI)

	require.Equal(t, "Animals and Society", doc.Name)
	require.Equal(t, int64(42), doc.ID)
	require.Equal(t, models.StatusOpen, doc.Status)
	require.NotNil(t, doc.Classification)
	require.Equal(t, "ANST-UA", doc.Classification.Code)
	require.NotNil(t, doc.Classification.College)
	require.Equal(t, "college-of-arts-and-science", doc.Classification.College.Slug)
	require.NotNil(t, doc.Level)
	require.Equal(t, "Undergraduate", *doc.Level)

	require.Len(t, doc.Sections, 2)
	first := doc.Sections[0]
	require.Equal(t, "Lecture", first.Name)
	require.Len(t, first.Meets, 1)
	require.Equal(t, "Mon, Wed", first.Meets[0].Day)
	require.NotNil(t, first.Meets[0].Start)
	require.Equal(t, "10:00 AM", *first.Meets[0].Start)
}

func TestBuildDocumentIndexVariantOmitsStatus(t *testing.T) {
	doc := BuildDocument(sampleCourse(), VariantIndex)
	require.Empty(t, doc.Status)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NotContains(t, string(raw), `"status":"`)
}

func TestStatusDocumentSeatsNilVersusZero(t *testing.T) {
	// A reported zero is tracked data; nil means the institution does not
	// report the number at all.
	tracked := statusDocument(&models.Section{
		Status:        models.StatusOpen,
		SeatsCapacity: intp(30),
		SeatsTaken:    intp(0),
	})
	require.NotNil(t, tracked.Seats)
	require.Equal(t, 0, *tracked.Seats.Taken)
	require.Nil(t, tracked.Seats.Available)
	require.Nil(t, tracked.Waitlist)

	untracked := statusDocument(&models.Section{Status: models.StatusOpen})
	require.Nil(t, untracked.Seats)
	require.Nil(t, untracked.Waitlist)

	waitlisted := statusDocument(&models.Section{
		Status:        models.StatusWaitList,
		WaitlistTaken: intp(5),
	})
	require.NotNil(t, waitlisted.Waitlist)
	require.Equal(t, 5, *waitlisted.Waitlist.Taken)
}

func TestAvailableStats(t *testing.T) {
	doc := BuildDocument(sampleCourse(), VariantAPI)

	require.True(t, doc.AvailableStats["number"])
	require.True(t, doc.AvailableStats["prof"])
	require.True(t, doc.AvailableStats["status.label"])
	require.True(t, doc.AvailableStats["status.seats"])
	require.True(t, doc.AvailableStats["meets.day"])
	require.True(t, doc.AvailableStats["meets.start"])
	require.True(t, doc.AvailableStats["meets.room"])

	// No section carries waitlist data or units-free fields below.
	require.False(t, doc.AvailableStats["status.waitlist"])
	require.False(t, doc.AvailableStats["notes"])
}

func TestBuildSessionDocument(t *testing.T) {
	code := "1264"
	collegeID := int64(3)
	s := &models.Session{
		ID:         11,
		Name:       "Fall 2026",
		Slug:       "fall-2026",
		SystemCode: &code,
		StartDate:  mustDate("2026-09-01"),
		EndDate:    mustDate("2026-12-18"),
		Colleges: []*models.College{
			{ID: 3, Name: " Arts and Science ", Slug: "arts-and-science", ShortName: "CAS"},
		},
		Classifications: []*models.Classification{
			{ID: 5, Code: "CS-UA", Name: "Computer Science", Slug: "computer-science", CollegeID: &collegeID},
		},
		Levels: []*models.Level{
			{ID: 9, Name: "Undergraduate", Slug: "undergraduate"},
		},
	}

	doc := BuildSessionDocument(s)
	require.Equal(t, "fall-2026", doc.Slug)
	require.Equal(t, "2026-09-01", doc.StartDate)
	require.Equal(t, "2026-12-18", doc.EndDate)
	require.Equal(t, &code, doc.Code)
	require.Len(t, doc.Colleges, 1)
	require.Equal(t, "Arts and Science", doc.Colleges[0].Name)
	require.Len(t, doc.Subjects, 1)
	require.Equal(t, &collegeID, doc.Subjects[0].College)
	require.Len(t, doc.Levels, 1)
}

func mustDate(s string) (t time.Time) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
