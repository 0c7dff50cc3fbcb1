package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/mberk/coursedex/internal/app/models"
	"github.com/mberk/coursedex/internal/app/repositories"
	"github.com/mberk/coursedex/internal/bootstrap"
	"github.com/mberk/coursedex/internal/scraper"
	"github.com/mberk/coursedex/internal/scrapers/htmlcatalog"
)

var (
	flagNetwork    string
	flagSession    string
	flagCatalogURL string
)

func init() {
	runCmd.Flags().StringVar(&flagNetwork, "network", "", "Network slug to scrape (required)")
	runCmd.Flags().StringVar(&flagSession, "session", "", "Restrict the run to one session slug")
	runCmd.Flags().StringVar(&flagCatalogURL, "catalog-url", "http://localhost:8000/catalog",
		"Base URL of the demo network's HTML catalog")
	runCmd.MarkFlagRequired("network")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run --network <slug> [--session <slug>]",
	Short: "Scrape a network's active sessions and regenerate index and bulk files",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := buildDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		registry, orch := bootstrap.BuildOrchestrator(deps)
		if err := registerScrapers(ctx, deps, registry); err != nil {
			return err
		}

		start := time.Now()
		if err := orch.RunNetwork(ctx, flagNetwork, flagSession); err != nil {
			return fmt.Errorf("scrape run: %w", err)
		}

		deps.Logger.Info().
			Str("network", flagNetwork).
			Dur("elapsed", time.Since(start)).
			Msg("Scrape run complete")
		return nil
	},
}

// registerScrapers binds every scraper this binary ships to its network.
// A network whose row is missing is skipped with a warning so one bad
// registration never blocks the rest.
func registerScrapers(ctx context.Context, deps *bootstrap.Dependencies, registry *scraper.Registry) error {
	institution, err := demoInstitution(ctx, deps)
	if err != nil {
		return err
	}

	network, err := deps.Repos.NetworkRepository.GetBySlug(ctx, "demo")
	if err != nil {
		if errors.Is(err, repositories.ErrNetworkNotFound) {
			deps.Logger.Warn().Str("network", "demo").Msg("Network row missing, scraper not registered")
			return nil
		}
		return err
	}

	factory := htmlcatalog.NewFactory(htmlcatalog.Options{
		BaseURL:     flagCatalogURL,
		Client:      resty.New().SetTimeout(30 * time.Second),
		Repos:       deps.Repos,
		Network:     network,
		Institution: institution,
		Logger:      deps.Logger,
	})
	return registry.Register(ctx, network.Slug, factory)
}

func demoInstitution(ctx context.Context, deps *bootstrap.Dependencies) (*models.Institution, error) {
	institution := &models.Institution{Slug: "demo-university", Name: "Demo University"}
	if err := deps.Repos.NetworkRepository.GetOrCreateInstitution(ctx, institution); err != nil {
		return nil, fmt.Errorf("resolving demo institution: %w", err)
	}
	return institution, nil
}
