package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mberk/coursedex/internal/app/models"
)

// Section error types
var (
	ErrSectionNotFound = errors.New("section not found")
)

const sectionColumns = `
	s.id, s.updated_at, s.network_id, s.institution_id, s.course_id, s.status,
	s.number, s.name, s.notes, s.prof, s.units, s.component, s.reference_code,
	s.seats_capacity, s.seats_taken, s.seats_available,
	s.waitlist_capacity, s.waitlist_taken, s.waitlist_available`

// SectionRepository handles database operations for sections and their
// meetings
type SectionRepository struct {
	db *pgxpool.Pool
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{
		db: db,
	}
}

// Save inserts or updates a section, touching updated_at for the stale-row
// sweep. Courses are not re-saved here: the profs rollup is refreshed by the
// orchestrator once the run completes.
func (r *SectionRepository) Save(ctx context.Context, section *models.Section) error {
	section.UpdatedAt = time.Now().UTC()

	if section.ID == 0 {
		query := `
			INSERT INTO sections (updated_at, network_id, institution_id, course_id,
				status, number, name, notes, prof, units, component, reference_code,
				seats_capacity, seats_taken, seats_available,
				waitlist_capacity, waitlist_taken, waitlist_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING id
		`
		err := r.db.QueryRow(ctx, query,
			section.UpdatedAt, section.NetworkID, section.InstitutionID, section.CourseID,
			section.Status, section.Number, section.Name, section.Notes, section.Prof,
			section.Units, section.Component, section.ReferenceCode,
			section.SeatsCapacity, section.SeatsTaken, section.SeatsAvailable,
			section.WaitlistCapacity, section.WaitlistTaken, section.WaitlistAvailable,
		).Scan(&section.ID)
		if err != nil {
			return fmt.Errorf("error creating section: %w", err)
		}
		return nil
	}

	query := `
		UPDATE sections
		SET updated_at = $1, status = $2, number = $3, name = $4, notes = $5,
			prof = $6, units = $7, component = $8, reference_code = $9,
			seats_capacity = $10, seats_taken = $11, seats_available = $12,
			waitlist_capacity = $13, waitlist_taken = $14, waitlist_available = $15
		WHERE id = $16
	`
	cmdTag, err := r.db.Exec(ctx, query,
		section.UpdatedAt, section.Status, section.Number, section.Name, section.Notes,
		section.Prof, section.Units, section.Component, section.ReferenceCode,
		section.SeatsCapacity, section.SeatsTaken, section.SeatsAvailable,
		section.WaitlistCapacity, section.WaitlistTaken, section.WaitlistAvailable,
		section.ID)
	if err != nil {
		return fmt.Errorf("error updating section: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// GetByNumber retrieves a section of a course by number
func (r *SectionRepository) GetByNumber(ctx context.Context, courseID int64, number string) (*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections s
		WHERE s.course_id = $1 AND s.number = $2
	`

	rows, err := r.db.Query(ctx, query, courseID, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections, err := scanSections(rows)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrSectionNotFound
	}
	return sections[0], nil
}

// ListByCourseID retrieves all sections of a course with their meetings
func (r *SectionRepository) ListByCourseID(ctx context.Context, courseID int64) ([]*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections s
		WHERE s.course_id = $1
		ORDER BY s.number, s.id
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections, err := scanSections(rows)
	if err != nil {
		return nil, err
	}
	if err := attachMeetings(ctx, r.db, sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// ReplaceMeetings rewrites a section's meeting rows. Scrapers report the
// full meeting set on every run, so replacement is simpler and safer than
// diffing.
func (r *SectionRepository) ReplaceMeetings(ctx context.Context, sectionID int64, meetings []*models.Meeting) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("error clearing meetings: %w", err)
	}

	query := `
		INSERT INTO meetings (section_id, day, start_time, end_time, location, room)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for _, m := range meetings {
		m.SectionID = sectionID
		if err := r.db.QueryRow(ctx, query,
			m.SectionID, m.Day, m.Start, m.End, m.Location, m.Room,
		).Scan(&m.ID); err != nil {
			return fmt.Errorf("error creating meeting: %w", err)
		}
	}
	return nil
}

func scanSections(rows pgx.Rows) ([]*models.Section, error) {
	var sections []*models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(
			&s.ID, &s.UpdatedAt, &s.NetworkID, &s.InstitutionID, &s.CourseID, &s.Status,
			&s.Number, &s.Name, &s.Notes, &s.Prof, &s.Units, &s.Component, &s.ReferenceCode,
			&s.SeatsCapacity, &s.SeatsTaken, &s.SeatsAvailable,
			&s.WaitlistCapacity, &s.WaitlistTaken, &s.WaitlistAvailable,
		); err != nil {
			return nil, err
		}
		sections = append(sections, &s)
	}
	return sections, rows.Err()
}

// attachMeetings loads the meetings of the given sections in one query and
// distributes them, preserving insertion order.
func attachMeetings(ctx context.Context, db *pgxpool.Pool, sections []*models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	ids := make([]int64, len(sections))
	byID := make(map[int64]*models.Section, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	query := `
		SELECT id, section_id, day, start_time, end_time, location, room
		FROM meetings
		WHERE section_id = ANY($1)
		ORDER BY section_id, id
	`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.SectionID, &m.Day, &m.Start, &m.End, &m.Location, &m.Room); err != nil {
			return err
		}
		if s, ok := byID[m.SectionID]; ok {
			s.Meetings = append(s.Meetings, &m)
		}
	}
	return rows.Err()
}
