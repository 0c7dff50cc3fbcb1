package bulk

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mberk/coursedex/internal/app/models"
)

type stubSource struct {
	courses  []*models.Course
	sections []*models.Section
}

func (s *stubSource) ExportCourses(context.Context, int64, int64) ([]*models.Course, error) {
	return s.courses, nil
}

func (s *stubSource) ExportSections(context.Context, int64, int64) ([]*models.Section, error) {
	return s.sections, nil
}

func intp(v int) *int { return &v }

func clock(hour, min int) *time.Time {
	t := time.Date(0, 1, 1, hour, min, 0, 0, time.UTC)
	return &t
}

func testSource() *stubSource {
	return &stubSource{
		courses: []*models.Course{
			{
				ID:          1,
				Name:        "Animals & Society",
				Description: "A survey.",
				Grading:     "CAS Graded",
				Classification: &models.Classification{
					Name: "Animal Studies", Code: "ANST-UA",
				},
				College: &models.College{ID: 7, Name: "College of Arts and Science"},
				Level:   &models.Level{ID: 2, Name: "Undergraduate"},
			},
			{ID: 2, Name: "Untagged Course", Grading: "Pass/Fail"},
		},
		sections: []*models.Section{
			{
				CourseID:      1,
				ReferenceCode: "9001",
				Number:        "001",
				Component:     "Lecture",
				Units:         "4",
				Prof:          "Jane Doe",
				Status:        models.StatusOpen,
				SeatsCapacity: intp(30),
				SeatsTaken:    intp(0),
				Meetings: []*models.Meeting{
					{Day: "Mon", Location: "Silver", Room: "101", Start: clock(10, 0), End: clock(10, 50)},
					{Day: "Wed", Location: "Silver", Room: "101", Start: clock(10, 0), End: clock(10, 50)},
				},
			},
			{CourseID: 2, Number: "002", Status: models.StatusClosed},
		},
	}
}

func export(t *testing.T, root string) {
	t.Helper()
	e, err := NewExporter(testSource(), root, "", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, e.Export(context.Background(),
		&models.Network{ID: 1, Slug: "nyu"},
		&models.Session{ID: 10, Slug: "fall-2026"}))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCoursesFile(t *testing.T) {
	root := t.TempDir()
	export(t, root)

	rows := readCSV(t, filepath.Join(root, "nyu-fall-2026-courses.csv"))
	require.Len(t, rows, 3)
	require.Equal(t, courseHeader, rows[0])
	require.Equal(t, []string{
		"1", "Animals & Society", "Animal Studies", "ANST-UA",
		"College of Arts and Science", "7", "Undergraduate", "2",
		"A survey.", "CAS Graded",
	}, rows[1])
	// Optional relations collapse to empty cells.
	require.Equal(t, []string{"2", "Untagged Course", "", "", "", "", "", "", "", "Pass/Fail"}, rows[2])
}

func TestExportSectionsFile(t *testing.T) {
	root := t.TempDir()
	export(t, root)

	rows := readCSV(t, filepath.Join(root, "nyu-fall-2026-sections.csv"))
	require.Len(t, rows, 3)
	require.Equal(t, sectionHeader, rows[0])
	require.Len(t, rows[1], len(sectionHeader))

	first := rows[1]
	require.Equal(t, "1", first[0])
	require.Equal(t, "9001", first[1])
	// A reported zero is a value, not an empty cell; untracked counters are
	// empty.
	require.Equal(t, "", first[8])  // seats_available untracked
	require.Equal(t, "0", first[9]) // seats_taken reported as zero
	require.Equal(t, "30", first[10])
	require.Equal(t, "", first[11]) // waitlist untracked

	// Two meetings fill slots 1-2; slot 3 is padded empty.
	require.Equal(t, []string{"Mon", "Silver", "101", "10:00", "10:50"}, first[14:19])
	require.Equal(t, []string{"Wed", "Silver", "101", "10:00", "10:50"}, first[19:24])
	require.Equal(t, []string{"", "", "", "", ""}, first[24:29])
}

func TestExportIdempotent(t *testing.T) {
	root := t.TempDir()
	export(t, root)

	first, err := os.ReadFile(filepath.Join(root, "nyu-fall-2026-sections.csv"))
	require.NoError(t, err)

	export(t, root)
	second, err := os.ReadFile(filepath.Join(root, "nyu-fall-2026-sections.csv"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestExportZipsEachFile(t *testing.T) {
	root := t.TempDir()
	export(t, root)

	for _, kind := range []string{"courses", "sections"} {
		zr, err := zip.OpenReader(filepath.Join(root, "nyu-fall-2026-"+kind+".zip"))
		require.NoError(t, err)
		require.Len(t, zr.File, 1)
		require.Equal(t, "nyu-fall-2026-"+kind+".csv", zr.File[0].Name)
		require.NoError(t, zr.Close())
	}
}

func TestExportCharsetTranscoding(t *testing.T) {
	root := t.TempDir()
	src := testSource()
	src.courses[0].Name = "Café Culture"

	e, err := NewExporter(src, root, "windows-1252", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, e.Export(context.Background(),
		&models.Network{ID: 1, Slug: "nyu"},
		&models.Session{ID: 10, Slug: "fall-2026"}))

	raw, err := os.ReadFile(filepath.Join(root, "nyu-fall-2026-courses.csv"))
	require.NoError(t, err)
	// é is a single 0xE9 byte in windows-1252, not the UTF-8 pair.
	require.Contains(t, string(raw), "Caf\xe9 Culture")
	require.NotContains(t, string(raw), "Café")
}

func TestNewExporterUnknownCharset(t *testing.T) {
	_, err := NewExporter(testSource(), t.TempDir(), "ebcdic-nope", zerolog.Nop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "charset")
}

func TestExportOverwrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "nyu-fall-2026-courses.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale old content\n"), 0o644))

	export(t, root)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "stale old content"))
	require.True(t, strings.HasPrefix(string(raw), "id,name,"))
}
