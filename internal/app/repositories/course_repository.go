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

// Course error types
var (
	ErrCourseNotFound = errors.New("course not found")
)

const courseColumns = `
	id, updated_at, network_id, institution_id, college_id, classification_id,
	session_id, level_id, number, name, slug, description, grading, profs`

// CourseRepository handles database operations for courses, including the
// derived-field recomputation on save and the post-run maintenance the
// orchestrator relies on.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Save inserts or updates a course. The slug and profs rollup are
// recomputed from the populated Sections slice before writing, and
// updated_at is touched so stale-row sweeps can tell this run's rows apart.
func (r *CourseRepository) Save(ctx context.Context, course *models.Course) error {
	course.RefreshDerived()
	course.UpdatedAt = time.Now().UTC()

	if course.ID == 0 {
		query := `
			INSERT INTO courses (updated_at, network_id, institution_id, college_id,
				classification_id, session_id, level_id, number, name, slug,
				description, grading, profs)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id
		`
		err := r.db.QueryRow(ctx, query,
			course.UpdatedAt, course.NetworkID, course.InstitutionID, course.CollegeID,
			course.ClassificationID, course.SessionID, course.LevelID, course.Number,
			course.Name, course.Slug, course.Description, course.Grading, course.Profs,
		).Scan(&course.ID)
		if err != nil {
			return fmt.Errorf("error creating course: %w", err)
		}
		return nil
	}

	query := `
		UPDATE courses
		SET updated_at = $1, network_id = $2, institution_id = $3, college_id = $4,
			classification_id = $5, session_id = $6, level_id = $7, number = $8,
			name = $9, slug = $10, description = $11, grading = $12, profs = $13
		WHERE id = $14
	`
	cmdTag, err := r.db.Exec(ctx, query,
		course.UpdatedAt, course.NetworkID, course.InstitutionID, course.CollegeID,
		course.ClassificationID, course.SessionID, course.LevelID, course.Number,
		course.Name, course.Slug, course.Description, course.Grading, course.Profs,
		course.ID)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// GetByNumber retrieves a course of a session by classification and number
func (r *CourseRepository) GetByNumber(ctx context.Context, sessionID int64, classificationID *int64, number string) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE session_id = $1 AND classification_id IS NOT DISTINCT FROM $2 AND number = $3
	`

	row := r.db.QueryRow(ctx, query, sessionID, classificationID, number)
	course, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// ListBySession retrieves all courses of a network+session pair with their
// classification, college and level relations populated, ordered by
// classification and number.
func (r *CourseRepository) ListBySession(ctx context.Context, networkID, sessionID int64) ([]*models.Course, error) {
	query := `
		SELECT c.id, c.updated_at, c.network_id, c.institution_id, c.college_id,
			c.classification_id, c.session_id, c.level_id, c.number, c.name, c.slug,
			c.description, c.grading, c.profs,
			cl.id, cl.network_id, cl.institution_id, cl.college_id, cl.code, cl.name, cl.slug,
			co.id, co.network_id, co.institution_id, co.name, co.slug, co.short_name,
			l.id, l.network_id, l.institution_id, l.name, l.slug
		FROM courses c
		LEFT JOIN classifications cl ON cl.id = c.classification_id
		LEFT JOIN colleges co ON co.id = c.college_id
		LEFT JOIN levels l ON l.id = c.level_id
		WHERE c.network_id = $1 AND c.session_id = $2
		ORDER BY cl.name NULLS LAST, c.number, c.id
	`

	rows, err := r.db.Query(ctx, query, networkID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		var cl nullableClassification
		var co nullableCollege
		var l nullableLevel
		if err := rows.Scan(
			&course.ID, &course.UpdatedAt, &course.NetworkID, &course.InstitutionID,
			&course.CollegeID, &course.ClassificationID, &course.SessionID, &course.LevelID,
			&course.Number, &course.Name, &course.Slug, &course.Description,
			&course.Grading, &course.Profs,
			&cl.id, &cl.networkID, &cl.institutionID, &cl.collegeID, &cl.code, &cl.name, &cl.slug,
			&co.id, &co.networkID, &co.institutionID, &co.name, &co.slug, &co.shortName,
			&l.id, &l.networkID, &l.institutionID, &l.name, &l.slug,
		); err != nil {
			return nil, err
		}
		course.Classification = cl.model()
		course.College = co.model()
		course.Level = l.model()
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// ListBySessionWithSections retrieves the courses of a network+session pair
// with relations, sections and meetings eagerly populated, ready for the
// projection engine.
func (r *CourseRepository) ListBySessionWithSections(ctx context.Context, networkID, sessionID int64) ([]*models.Course, error) {
	courses, err := r.ListBySession(ctx, networkID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return courses, nil
	}

	sections, err := r.sectionsBySession(ctx, networkID, sessionID)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[int64][]*models.Section, len(courses))
	for _, s := range sections {
		byCourse[s.CourseID] = append(byCourse[s.CourseID], s)
	}
	for _, c := range courses {
		c.Sections = byCourse[c.ID]
	}
	return courses, nil
}

// RefreshDerived re-saves the derived fields of every course in a
// network+session pair. The profs rollup goes stale whenever sections
// change; the orchestrator calls this after each successful run.
func (r *CourseRepository) RefreshDerived(ctx context.Context, networkID, sessionID int64) error {
	courses, err := r.ListBySessionWithSections(ctx, networkID, sessionID)
	if err != nil {
		return err
	}

	for _, course := range courses {
		course.RefreshDerived()
		query := `
			UPDATE courses
			SET slug = $1, profs = $2
			WHERE id = $3
		`
		if _, err := r.db.Exec(ctx, query, course.Slug, course.Profs, course.ID); err != nil {
			return fmt.Errorf("error refreshing course %d: %w", course.ID, err)
		}
	}
	return nil
}

// DeleteStale removes courses and sections of a network+session pair that
// the most recent run did not touch. Meetings go with their sections via
// cascade. The cutoff is the run-start timestamp.
func (r *CourseRepository) DeleteStale(ctx context.Context, networkID, sessionID int64, before time.Time) error {
	sectionQuery := `
		DELETE FROM sections
		WHERE updated_at < $3 AND course_id IN (
			SELECT id FROM courses WHERE network_id = $1 AND session_id = $2
		)
	`
	if _, err := r.db.Exec(ctx, sectionQuery, networkID, sessionID, before); err != nil {
		return fmt.Errorf("error sweeping stale sections: %w", err)
	}

	courseQuery := `
		DELETE FROM courses
		WHERE network_id = $1 AND session_id = $2 AND updated_at < $3
	`
	if _, err := r.db.Exec(ctx, courseQuery, networkID, sessionID, before); err != nil {
		return fmt.Errorf("error sweeping stale courses: %w", err)
	}
	return nil
}

// ExportCourses returns the courses of a network+session pair with
// relations populated, in bulk-export order.
func (r *CourseRepository) ExportCourses(ctx context.Context, networkID, sessionID int64) ([]*models.Course, error) {
	return r.ListBySession(ctx, networkID, sessionID)
}

// ExportSections returns the sections of a network+session pair with their
// meetings, ordered by course and number.
func (r *CourseRepository) ExportSections(ctx context.Context, networkID, sessionID int64) ([]*models.Section, error) {
	return r.sectionsBySession(ctx, networkID, sessionID)
}

func (r *CourseRepository) sectionsBySession(ctx context.Context, networkID, sessionID int64) ([]*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections s
		JOIN courses c ON c.id = s.course_id
		WHERE c.network_id = $1 AND c.session_id = $2
		ORDER BY s.course_id, s.number, s.id
	`

	rows, err := r.db.Query(ctx, query, networkID, sessionID)
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

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.UpdatedAt, &course.NetworkID, &course.InstitutionID,
		&course.CollegeID, &course.ClassificationID, &course.SessionID, &course.LevelID,
		&course.Number, &course.Name, &course.Slug, &course.Description,
		&course.Grading, &course.Profs,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// nullable scan targets for LEFT JOINed relations

type nullableClassification struct {
	id            *int64
	networkID     *int64
	institutionID *int64
	collegeID     *int64
	code          *string
	name          *string
	slug          *string
}

func (n nullableClassification) model() *models.Classification {
	if n.id == nil {
		return nil
	}
	c := &models.Classification{ID: *n.id, CollegeID: n.collegeID}
	if n.networkID != nil {
		c.NetworkID = *n.networkID
	}
	if n.institutionID != nil {
		c.InstitutionID = *n.institutionID
	}
	if n.code != nil {
		c.Code = *n.code
	}
	if n.name != nil {
		c.Name = *n.name
	}
	if n.slug != nil {
		c.Slug = *n.slug
	}
	return c
}

type nullableCollege struct {
	id            *int64
	networkID     *int64
	institutionID *int64
	name          *string
	slug          *string
	shortName     *string
}

func (n nullableCollege) model() *models.College {
	if n.id == nil {
		return nil
	}
	c := &models.College{ID: *n.id, NetworkID: n.networkID, InstitutionID: n.institutionID}
	if n.name != nil {
		c.Name = *n.name
	}
	if n.slug != nil {
		c.Slug = *n.slug
	}
	if n.shortName != nil {
		c.ShortName = *n.shortName
	}
	return c
}

type nullableLevel struct {
	id            *int64
	networkID     *int64
	institutionID *int64
	name          *string
	slug          *string
}

func (n nullableLevel) model() *models.Level {
	if n.id == nil {
		return nil
	}
	l := &models.Level{ID: *n.id, NetworkID: n.networkID}
	if n.institutionID != nil {
		l.InstitutionID = *n.institutionID
	}
	if n.name != nil {
		l.Name = *n.name
	}
	if n.slug != nil {
		l.Slug = *n.slug
	}
	return l
}
