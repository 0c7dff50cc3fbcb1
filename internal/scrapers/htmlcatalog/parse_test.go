package htmlcatalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `
<html><body>
<div class="course" data-number="CS 101">
  <h3 class="name">introduction to computer science</h3>
  <span class="subject" data-code="CS">Computer Science</span>
  <span class="college" data-short="A&amp;S">College of Arts and Science</span>
  <span class="level">Undergraduate</span>
  <span class="grading">Graded</span>
  <p class="description">Fundamentals of programming.</p>
  <table>
    <tr class="section" data-number="001">
      <td class="component">LEC</td>
      <td class="status">Open</td>
      <td class="prof">Alice Smith, Bob Jones</td>
      <td class="units">3</td>
      <td class="ref">12345</td>
      <td class="seats" data-capacity="30" data-taken="12"></td>
      <td class="waitlist" data-capacity="5" data-taken="0"></td>
      <td class="notes">Laptop required.</td>
      <td class="meetings">Mon 9:00-10:15 @ Science Hall / 101; Wed 9:00-10:15 @ Science Hall / 101</td>
    </tr>
    <tr class="section" data-number="002">
      <td class="component">LEC</td>
      <td class="status">Closed</td>
      <td class="prof"></td>
      <td class="units">3</td>
      <td class="ref">12346</td>
      <td class="seats"></td>
      <td class="waitlist"></td>
      <td class="notes"></td>
      <td class="meetings">TBA</td>
    </tr>
  </table>
</div>
<div class="course" data-number="HIST 210">
  <h3 class="name">modern european history</h3>
  <span class="subject" data-code="HIST">History</span>
  <span class="level">Undergraduate</span>
  <span class="grading">Graded</span>
  <p class="description"></p>
</div>
</body></html>`

func TestParseCatalog(t *testing.T) {
	courses, err := parseCatalog(strings.NewReader(samplePage))
	require.NoError(t, err)
	require.Len(t, courses, 2)

	cs := courses[0]
	require.Equal(t, "CS 101", cs.Number)
	require.Equal(t, "introduction to computer science", cs.Name)
	require.Equal(t, "CS", cs.SubjectCode)
	require.Equal(t, "Computer Science", cs.SubjectName)
	require.Equal(t, "College of Arts and Science", cs.CollegeName)
	require.Equal(t, "A&S", cs.CollegeShort)
	require.Equal(t, "Undergraduate", cs.LevelName)
	require.Equal(t, "Graded", cs.Grading)
	require.Len(t, cs.Sections, 2)

	hist := courses[1]
	require.Equal(t, "HIST 210", hist.Number)
	require.Empty(t, hist.Sections)
	require.Empty(t, hist.CollegeName)
}

func TestParseSectionCounters(t *testing.T) {
	courses, err := parseCatalog(strings.NewReader(samplePage))
	require.NoError(t, err)

	open := courses[0].Sections[0]
	require.Equal(t, "001", open.Number)
	require.Equal(t, "Open", open.Status)
	require.Equal(t, "Alice Smith, Bob Jones", open.Prof)
	require.NotNil(t, open.SeatsCapacity)
	require.Equal(t, 30, *open.SeatsCapacity)
	require.NotNil(t, open.SeatsTaken)
	require.Equal(t, 12, *open.SeatsTaken)
	require.NotNil(t, open.WaitlistTaken)
	require.Equal(t, 0, *open.WaitlistTaken)

	// a seats cell without attributes means the institution reports nothing
	closed := courses[0].Sections[1]
	require.Nil(t, closed.SeatsCapacity)
	require.Nil(t, closed.SeatsTaken)
	require.Nil(t, closed.WaitlistCapacity)
}

func TestParseMeetings(t *testing.T) {
	meetings, err := parseMeetings("Mon 9:00-10:15 @ Science Hall / 101; Wed 9:00-10:15 @ Science Hall / 101")
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	first := meetings[0]
	require.Equal(t, "Mon", first.Day)
	require.NotNil(t, first.Start)
	require.Equal(t, 9, first.Start.Hour())
	require.Equal(t, 0, first.Start.Minute())
	require.Equal(t, 15, first.End.Minute())
	require.Equal(t, "Science Hall", first.Location)
	require.Equal(t, "101", first.Room)
}

func TestParseMeetingsBareDay(t *testing.T) {
	meetings, err := parseMeetings("TBA")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	require.Equal(t, "TBA", meetings[0].Day)
	require.Nil(t, meetings[0].Start)
	require.Nil(t, meetings[0].End)
	require.Empty(t, meetings[0].Location)
}

func TestParseMeetingsLocationWithoutRoom(t *testing.T) {
	meetings, err := parseMeetings("Fri 14:00-16:45 @ Online")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	require.Equal(t, "Online", meetings[0].Location)
	require.Empty(t, meetings[0].Room)
}

func TestParseMeetingsEmptyCell(t *testing.T) {
	meetings, err := parseMeetings("")
	require.NoError(t, err)
	require.Empty(t, meetings)
}

func TestParseCatalogRejectsMissingNumber(t *testing.T) {
	_, err := parseCatalog(strings.NewReader(`<div class="course"><h3 class="name">x</h3></div>`))
	require.Error(t, err)
}
