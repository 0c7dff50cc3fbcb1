package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mberk/coursedex/internal/app/models"
)

// ReferenceRepository handles database operations for the per-network
// reference rows: colleges, levels and classifications. Scrapers upsert
// these by name/code within their network scope; slugs are regenerated on
// every save.
type ReferenceRepository struct {
	db *pgxpool.Pool
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{
		db: db,
	}
}

// GetOrCreateCollege retrieves the college matching the network and name,
// creating it when absent.
func (r *ReferenceRepository) GetOrCreateCollege(ctx context.Context, college *models.College) error {
	college.RefreshSlug()

	query := `
		SELECT id, network_id, institution_id, name, slug, short_name
		FROM colleges
		WHERE network_id IS NOT DISTINCT FROM $1 AND slug = $2
	`

	err := r.db.QueryRow(ctx, query, college.NetworkID, college.Slug).Scan(
		&college.ID, &college.NetworkID, &college.InstitutionID,
		&college.Name, &college.Slug, &college.ShortName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("error retrieving college: %w", err)
	}

	insert := `
		INSERT INTO colleges (network_id, institution_id, name, slug, short_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, insert,
		college.NetworkID, college.InstitutionID, college.Name, college.Slug, college.ShortName,
	).Scan(&college.ID); err != nil {
		return fmt.Errorf("error creating college: %w", err)
	}

	return nil
}

// GetOrCreateLevel retrieves the level matching the institution and name,
// creating it when absent.
func (r *ReferenceRepository) GetOrCreateLevel(ctx context.Context, level *models.Level) error {
	level.RefreshSlug()

	query := `
		SELECT id, network_id, institution_id, name, slug
		FROM levels
		WHERE institution_id = $1 AND slug = $2
	`

	err := r.db.QueryRow(ctx, query, level.InstitutionID, level.Slug).Scan(
		&level.ID, &level.NetworkID, &level.InstitutionID, &level.Name, &level.Slug)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("error retrieving level: %w", err)
	}

	insert := `
		INSERT INTO levels (network_id, institution_id, name, slug)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, insert,
		level.NetworkID, level.InstitutionID, level.Name, level.Slug,
	).Scan(&level.ID); err != nil {
		return fmt.Errorf("error creating level: %w", err)
	}

	return nil
}

// GetOrCreateClassification retrieves the classification matching the
// network and code, creating it when absent. The name and college link are
// refreshed on existing rows.
func (r *ReferenceRepository) GetOrCreateClassification(ctx context.Context, classification *models.Classification) error {
	classification.RefreshSlug()

	query := `
		SELECT id, network_id, institution_id, college_id, code, name, slug
		FROM classifications
		WHERE network_id = $1 AND code = $2
	`

	var existing models.Classification
	err := r.db.QueryRow(ctx, query, classification.NetworkID, classification.Code).Scan(
		&existing.ID, &existing.NetworkID, &existing.InstitutionID,
		&existing.CollegeID, &existing.Code, &existing.Name, &existing.Slug)
	if err == nil {
		classification.ID = existing.ID
		update := `
			UPDATE classifications
			SET college_id = $1, name = $2, slug = $3
			WHERE id = $4
		`
		if _, err := r.db.Exec(ctx, update,
			classification.CollegeID, classification.Name, classification.Slug, classification.ID); err != nil {
			return fmt.Errorf("error updating classification: %w", err)
		}
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("error retrieving classification: %w", err)
	}

	insert := `
		INSERT INTO classifications (network_id, institution_id, college_id, code, name, slug)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, insert,
		classification.NetworkID, classification.InstitutionID, classification.CollegeID,
		classification.Code, classification.Name, classification.Slug,
	).Scan(&classification.ID); err != nil {
		return fmt.Errorf("error creating classification: %w", err)
	}

	return nil
}
