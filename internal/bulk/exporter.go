// Package bulk streams the full course and section tables of one
// network+session pair to flat CSV files, transcodes them to a configurable
// charset, and archives each file into a zip. Rerunning an export overwrites
// the previous output; with unchanged data the CSV bytes are identical.
package bulk

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/mberk/coursedex/internal/app/models"
)

// meetingSlots is the fixed number of repeated meeting column groups in the
// sections file. Sections with fewer meetings are padded with empty cells;
// extra meetings are dropped.
const meetingSlots = 3

// clockFormat is how meeting times are rendered in the CSV cells.
const clockFormat = "15:04"

var courseHeader = []string{
	"id", "name", "classification_name", "classification_code",
	"college_name", "college_id", "level", "level_id", "description", "grading",
}

var sectionHeader = buildSectionHeader()

func buildSectionHeader() []string {
	header := []string{
		"course_id", "reference_code", "number", "component", "notes", "units",
		"prof", "status_label",
		"status_seats_available", "status_seats_taken", "status_seats_total",
		"status_waitlist_available", "status_waitlist_taken", "status_waitlist_total",
	}
	for i := 1; i <= meetingSlots; i++ {
		prefix := fmt.Sprintf("meet%d_", i)
		header = append(header,
			prefix+"days", prefix+"location", prefix+"room", prefix+"start", prefix+"end")
	}
	return header
}

// Source provides the canonical rows of one network+session pair.
// Courses arrive with classification, college and level populated; sections
// with their meetings, ordered by course.
type Source interface {
	ExportCourses(ctx context.Context, networkID, sessionID int64) ([]*models.Course, error)
	ExportSections(ctx context.Context, networkID, sessionID int64) ([]*models.Section, error)
}

// Exporter writes bulk files under a root directory.
type Exporter struct {
	source Source
	root   string
	enc    encoding.Encoding
	logger zerolog.Logger
}

// NewExporter creates an exporter writing into root, transcoding cells to
// the named charset ("" defaults to utf-8).
func NewExporter(source Source, root, charset string, logger zerolog.Logger) (*Exporter, error) {
	if charset == "" {
		charset = "utf-8"
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown bulk export charset %q: %w", charset, err)
	}
	return &Exporter{source: source, root: root, enc: enc, logger: logger}, nil
}

// Export regenerates both CSV files and their zip archives for the given
// network and session.
func (e *Exporter) Export(ctx context.Context, network *models.Network, session *models.Session) error {
	if err := os.MkdirAll(e.root, 0o755); err != nil {
		return fmt.Errorf("creating bulk root: %w", err)
	}

	e.logger.Info().
		Str("network", network.Slug).
		Str("session", session.Slug).
		Msg("Dumping bulk data")

	courses, err := e.source.ExportCourses(ctx, network.ID, session.ID)
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}
	coursesPath := e.path(network, session, "courses")
	if err := e.writeCSV(coursesPath, courseHeader, courseRows(courses)); err != nil {
		return err
	}

	sections, err := e.source.ExportSections(ctx, network.ID, session.ID)
	if err != nil {
		return fmt.Errorf("loading sections: %w", err)
	}
	sectionsPath := e.path(network, session, "sections")
	if err := e.writeCSV(sectionsPath, sectionHeader, sectionRows(sections)); err != nil {
		return err
	}

	for _, csvPath := range []string{coursesPath, sectionsPath} {
		if err := zipFile(csvPath); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) path(network *models.Network, session *models.Session, kind string) string {
	return filepath.Join(e.root, fmt.Sprintf("%s-%s-%s.csv", network.Slug, session.Slug, kind))
}

func (e *Exporter) writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var out io.Writer = f
	if e.enc != nil {
		out = transform.NewWriter(f, e.enc.NewEncoder())
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows to %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func courseRows(courses []*models.Course) [][]string {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name, "", "", "", "", "", "",
			c.Description,
			c.Grading,
		}
		if c.Classification != nil {
			row[2] = c.Classification.Name
			row[3] = c.Classification.Code
		}
		if c.College != nil {
			row[4] = c.College.Name
			row[5] = strconv.FormatInt(c.College.ID, 10)
		}
		if c.Level != nil {
			row[6] = c.Level.Name
			row[7] = strconv.FormatInt(c.Level.ID, 10)
		}
		rows = append(rows, row)
	}
	return rows
}

func sectionRows(sections []*models.Section) [][]string {
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		row := []string{
			strconv.FormatInt(s.CourseID, 10),
			s.ReferenceCode,
			s.Number,
			s.Component,
			s.Notes,
			s.Units,
			s.Prof,
			s.Status,
			intCell(s.SeatsAvailable),
			intCell(s.SeatsTaken),
			intCell(s.SeatsCapacity),
			intCell(s.WaitlistAvailable),
			intCell(s.WaitlistTaken),
			intCell(s.WaitlistCapacity),
		}
		for i := 0; i < meetingSlots; i++ {
			if i < len(s.Meetings) {
				m := s.Meetings[i]
				row = append(row, m.Day, m.Location, m.Room, clockCell(m.Start), clockCell(m.End))
			} else {
				row = append(row, "", "", "", "", "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// intCell renders an optional counter. nil means the institution does not
// track the number and becomes an empty cell.
func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func clockCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(clockFormat)
}

// zipFile archives path into path-with-.zip-extension, replacing any
// previous archive. The archive holds the single CSV under its base name.
func zipFile(csvPath string) error {
	zipPath := csvPath[:len(csvPath)-len(filepath.Ext(csvPath))] + ".zip"
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create(filepath.Base(csvPath))
	if err != nil {
		return fmt.Errorf("creating zip entry: %w", err)
	}
	in, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", csvPath, err)
	}
	defer in.Close()

	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("zipping %s: %w", csvPath, err)
	}
	return zw.Close()
}
