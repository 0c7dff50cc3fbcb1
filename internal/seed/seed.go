package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/mberk/coursedex/internal/app/models"
	appRepos "github.com/mberk/coursedex/internal/app/repositories"
)

// CreateDefaultData creates a default network and institution if none exist,
// so a fresh install has something to register scrapers against.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	networkRepo := appRepos.NewNetworkRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (Networks)...")

	if _, err := networkRepo.GetBySlug(ctx, "demo"); err == nil {
		return nil
	} else if !errors.Is(err, appRepos.ErrNetworkNotFound) {
		return err
	}

	network := &appModels.Network{Slug: "demo", Name: "Demo Catalog Network"}
	if err := networkRepo.Create(ctx, network); err != nil {
		lgr.Error().Err(err).Msg("Error creating default network")
		return err
	}

	if err := networkRepo.GetOrCreateInstitution(ctx, &appModels.Institution{
		Slug: "demo-university",
		Name: "Demo University",
	}); err != nil {
		lgr.Error().Err(err).Msg("Error creating default institution")
		return err
	}

	lgr.Info().Str("network", network.Slug).Msg("Default data created")
	return nil
}
