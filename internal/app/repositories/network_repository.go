package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mberk/coursedex/internal/app/models"
	"github.com/mberk/coursedex/internal/pkg/dberrors"
)

// Network error types
var (
	ErrNetworkNotFound      = errors.New("network not found")
	ErrNetworkAlreadyExists = errors.New("network already exists")
	ErrInstitutionNotFound  = errors.New("institution not found")
)

// NetworkRepository handles database operations for networks and institutions
type NetworkRepository struct {
	db *pgxpool.Pool
}

// NewNetworkRepository creates a new network repository
func NewNetworkRepository(db *pgxpool.Pool) *NetworkRepository {
	return &NetworkRepository{
		db: db,
	}
}

// Create creates a new network
func (r *NetworkRepository) Create(ctx context.Context, network *models.Network) error {
	query := `
		INSERT INTO networks (slug, name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, network.Slug, network.Name).Scan(&network.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrNetworkAlreadyExists, network.Slug)
		}
		return fmt.Errorf("error creating network: %w", err)
	}

	return nil
}

// GetBySlug retrieves a network by its slug
func (r *NetworkRepository) GetBySlug(ctx context.Context, slug string) (*models.Network, error) {
	query := `
		SELECT id, slug, name
		FROM networks
		WHERE slug = $1
	`

	var network models.Network
	err := r.db.QueryRow(ctx, query, slug).Scan(&network.ID, &network.Slug, &network.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNetworkNotFound
		}
		return nil, fmt.Errorf("error retrieving network: %w", err)
	}

	return &network, nil
}

// GetAll retrieves all networks
func (r *NetworkRepository) GetAll(ctx context.Context) ([]*models.Network, error) {
	query := `
		SELECT id, slug, name
		FROM networks
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var networks []*models.Network
	for rows.Next() {
		var network models.Network
		if err := rows.Scan(&network.ID, &network.Slug, &network.Name); err != nil {
			return nil, err
		}
		networks = append(networks, &network)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return networks, nil
}

// GetOrCreateInstitution retrieves an institution by slug, creating it if absent
func (r *NetworkRepository) GetOrCreateInstitution(ctx context.Context, institution *models.Institution) error {
	query := `
		SELECT id, slug, name
		FROM institutions
		WHERE slug = $1
	`

	err := r.db.QueryRow(ctx, query, institution.Slug).Scan(
		&institution.ID, &institution.Slug, &institution.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("error retrieving institution: %w", err)
	}

	insert := `
		INSERT INTO institutions (slug, name)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, insert, institution.Slug, institution.Name).Scan(&institution.ID); err != nil {
		return fmt.Errorf("error creating institution: %w", err)
	}

	return nil
}
