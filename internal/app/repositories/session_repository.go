package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mberk/coursedex/internal/app/models"
)

// Session error types
var (
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository handles database operations for sessions and their
// reference data associations
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create creates a new session. The slug is derived from the name.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	session.RefreshSlug()

	query := `
		INSERT INTO sessions (network_id, name, slug, system_code, start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		session.NetworkID, session.Name, session.Slug, session.SystemCode,
		session.StartDate, session.EndDate, session.Active,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// Update updates an existing session, regenerating its slug
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.RefreshSlug()

	query := `
		UPDATE sessions
		SET name = $1, slug = $2, system_code = $3, start_date = $4, end_date = $5, active = $6
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		session.Name, session.Slug, session.SystemCode,
		session.StartDate, session.EndDate, session.Active, session.ID)
	if err != nil {
		return fmt.Errorf("error updating session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// GetOrCreate retrieves the session matching the network and derived slug,
// creating it when absent. The get-or-create semantics back the scrapers'
// session upsert logic.
func (r *SessionRepository) GetOrCreate(ctx context.Context, session *models.Session) error {
	session.RefreshSlug()

	query := `
		SELECT id, network_id, name, slug, system_code, start_date, end_date, active
		FROM sessions
		WHERE network_id = $1 AND slug = $2
	`

	err := r.db.QueryRow(ctx, query, session.NetworkID, session.Slug).Scan(
		&session.ID, &session.NetworkID, &session.Name, &session.Slug,
		&session.SystemCode, &session.StartDate, &session.EndDate, &session.Active)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("error retrieving session: %w", err)
	}

	return r.Create(ctx, session)
}

// GetBySlug retrieves a session of a network by slug
func (r *SessionRepository) GetBySlug(ctx context.Context, networkID int64, slug string) (*models.Session, error) {
	query := `
		SELECT id, network_id, name, slug, system_code, start_date, end_date, active
		FROM sessions
		WHERE network_id = $1 AND slug = $2
	`

	var session models.Session
	err := r.db.QueryRow(ctx, query, networkID, slug).Scan(
		&session.ID, &session.NetworkID, &session.Name, &session.Slug,
		&session.SystemCode, &session.StartDate, &session.EndDate, &session.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return &session, nil
}

// ActiveSessions retrieves all active sessions of a network, by network slug
func (r *SessionRepository) ActiveSessions(ctx context.Context, networkSlug string) ([]*models.Session, error) {
	query := `
		SELECT s.id, s.network_id, s.name, s.slug, s.system_code, s.start_date, s.end_date, s.active
		FROM sessions s
		JOIN networks n ON n.id = s.network_id
		WHERE n.slug = $1 AND s.active = TRUE
		ORDER BY s.start_date, s.id
	`

	rows, err := r.db.Query(ctx, query, networkSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID, &session.NetworkID, &session.Name, &session.Slug,
			&session.SystemCode, &session.StartDate, &session.EndDate, &session.Active,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Associate links a session to the classifications, colleges and levels that
// exist within it. Existing links are kept; duplicates are ignored.
func (r *SessionRepository) Associate(ctx context.Context, sessionID int64, classificationIDs, collegeIDs, levelIDs []int64) error {
	links := []struct {
		table  string
		column string
		ids    []int64
	}{
		{"session_classifications", "classification_id", classificationIDs},
		{"session_colleges", "college_id", collegeIDs},
		{"session_levels", "level_id", levelIDs},
	}

	for _, link := range links {
		for _, id := range link.ids {
			query := fmt.Sprintf(`
				INSERT INTO %s (session_id, %s)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, link.table, link.column)
			if _, err := r.db.Exec(ctx, query, sessionID, id); err != nil {
				return fmt.Errorf("error associating %s: %w", link.table, err)
			}
		}
	}

	return nil
}

// LoadAssociations populates the session's classifications, colleges and
// levels from the association tables.
func (r *SessionRepository) LoadAssociations(ctx context.Context, session *models.Session) error {
	classifications, err := r.sessionClassifications(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Classifications = classifications

	colleges, err := r.sessionColleges(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Colleges = colleges

	levels, err := r.sessionLevels(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Levels = levels

	return nil
}

func (r *SessionRepository) sessionClassifications(ctx context.Context, sessionID int64) ([]*models.Classification, error) {
	query := `
		SELECT c.id, c.network_id, c.institution_id, c.college_id, c.code, c.name, c.slug
		FROM classifications c
		JOIN session_classifications sc ON sc.classification_id = c.id
		WHERE sc.session_id = $1
		ORDER BY c.name
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classifications []*models.Classification
	for rows.Next() {
		var c models.Classification
		if err := rows.Scan(&c.ID, &c.NetworkID, &c.InstitutionID, &c.CollegeID, &c.Code, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		classifications = append(classifications, &c)
	}

	return classifications, rows.Err()
}

func (r *SessionRepository) sessionColleges(ctx context.Context, sessionID int64) ([]*models.College, error) {
	query := `
		SELECT c.id, c.network_id, c.institution_id, c.name, c.slug, c.short_name
		FROM colleges c
		JOIN session_colleges sc ON sc.college_id = c.id
		WHERE sc.session_id = $1
		ORDER BY c.id
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colleges []*models.College
	for rows.Next() {
		var c models.College
		if err := rows.Scan(&c.ID, &c.NetworkID, &c.InstitutionID, &c.Name, &c.Slug, &c.ShortName); err != nil {
			return nil, err
		}
		colleges = append(colleges, &c)
	}

	return colleges, rows.Err()
}

func (r *SessionRepository) sessionLevels(ctx context.Context, sessionID int64) ([]*models.Level, error) {
	query := `
		SELECT l.id, l.network_id, l.institution_id, l.name, l.slug
		FROM levels l
		JOIN session_levels sl ON sl.level_id = l.id
		WHERE sl.session_id = $1
		ORDER BY l.id
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*models.Level
	for rows.Next() {
		var l models.Level
		if err := rows.Scan(&l.ID, &l.NetworkID, &l.InstitutionID, &l.Name, &l.Slug); err != nil {
			return nil, err
		}
		levels = append(levels, &l)
	}

	return levels, rows.Err()
}
