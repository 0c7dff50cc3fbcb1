// Package scraper holds the pluggable scraper contract, the process-wide
// registry mapping networks to their scraper implementations, and the
// orchestrator that runs per-network, per-session scrape jobs.
package scraper

import (
	"context"

	"github.com/mberk/coursedex/internal/app/models"
)

// Scraper is the capability contract a pluggable network scraper implements.
// Run performs the network-specific scraping and upserts canonical rows for
// the session it was constructed with. Production hardening (timeouts,
// retries) belongs to the implementation, not to this package.
type Scraper interface {
	Run(ctx context.Context) error
}

// Factory constructs a scraper bound to one network session.
type Factory func(networkSlug string, session *models.Session) Scraper
