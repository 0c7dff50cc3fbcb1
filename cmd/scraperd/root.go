package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mberk/coursedex/internal/bootstrap"
)

var rootCmd = &cobra.Command{
	Use:          "scraperd",
	Short:        "scraperd runs catalog scrapers and regenerates derived data",
	SilenceUsage: true,
}

// buildDeps assembles the full dependency set the way the API server does,
// so scrape runs share config, migrations and seeding with it.
func buildDeps() (*bootstrap.Dependencies, func(), error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up database: %w", err)
	}

	rdb, err := bootstrap.SetupRedis(cfg, lgr)
	if err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("setting up redis: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, rdb, lgr)
	if err != nil {
		dbPool.Close()
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("building dependencies: %w", err)
	}

	cleanup := func() {
		dbPool.Close()
		_ = rdb.Close()
	}
	return deps, cleanup, nil
}
