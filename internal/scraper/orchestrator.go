package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mberk/coursedex/internal/app/models"
	"github.com/mberk/coursedex/internal/runlog"
)

// ErrNotRegistered is returned when a network has no registered scraper.
var ErrNotRegistered = errors.New("no scraper registered for network")

// SessionSource resolves the active sessions of a network.
type SessionSource interface {
	ActiveSessions(ctx context.Context, networkSlug string) ([]*models.Session, error)
}

// CourseMaintainer performs the post-run bookkeeping on canonical rows:
// refreshing derived course fields (the profs rollup goes stale after
// section writes) and sweeping rows a re-scrape no longer produced.
type CourseMaintainer interface {
	RefreshDerived(ctx context.Context, networkID, sessionID int64) error
	DeleteStale(ctx context.Context, networkID, sessionID int64, before time.Time) error
}

// Indexer pushes a session's canonical documents into the search index.
type Indexer interface {
	ReindexSession(ctx context.Context, network *models.Network, session *models.Session) error
}

// Exporter regenerates the bulk files for one network and session.
type Exporter interface {
	Export(ctx context.Context, network *models.Network, session *models.Session) error
}

// Orchestrator runs all active sessions of a network through its registered
// scraper, serializing run metadata to the run log and triggering the
// downstream regeneration exactly once per successful run.
type Orchestrator struct {
	registry *Registry
	sessions SessionSource
	courses  CourseMaintainer
	indexer  Indexer
	exporter Exporter
	runs     runlog.Log
	logger   zerolog.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(
	registry *Registry,
	sessions SessionSource,
	courses CourseMaintainer,
	indexer Indexer,
	exporter Exporter,
	runs runlog.Log,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		sessions: sessions,
		courses:  courses,
		indexer:  indexer,
		exporter: exporter,
		runs:     runs,
		logger:   logger,
	}
}

// RunNetwork runs the registered scraper across the network's active
// sessions, optionally filtered to one session slug. Sessions are processed
// independently: a failing session is logged and reported but never prevents
// the remaining sessions from running. The returned error joins the
// per-session failures.
func (o *Orchestrator) RunNetwork(ctx context.Context, networkSlug, sessionSlug string) error {
	reg, ok := o.registry.Lookup(networkSlug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, networkSlug)
	}

	sessions, err := o.sessions.ActiveSessions(ctx, networkSlug)
	if err != nil {
		return fmt.Errorf("resolving active sessions for %s: %w", networkSlug, err)
	}

	var failures []error
	for _, session := range sessions {
		if sessionSlug != "" && session.Slug != sessionSlug {
			continue
		}
		if err := o.runSession(ctx, reg, session); err != nil {
			o.logger.Error().Err(err).
				Str("network", networkSlug).
				Str("session", session.Slug).
				Msg("Session scrape failed")
			failures = append(failures, fmt.Errorf("session %s: %w", session.Slug, err))
		}
	}
	return errors.Join(failures...)
}

func (o *Orchestrator) runSession(ctx context.Context, reg Registration, session *models.Session) error {
	runID, err := o.runs.NextRunID(ctx)
	if err != nil {
		return err
	}

	started := time.Now().UTC()
	network := reg.Network
	if err := o.runs.RecordStart(ctx, runID, network.Slug, session.Slug, started); err != nil {
		return err
	}

	o.logger.Info().
		Int64("run", runID).
		Str("network", network.Slug).
		Str("session", session.Slug).
		Msg("Running scraper")

	if err := reg.Factory(network.Slug, session).Run(ctx); err != nil {
		// No run-end is written: the dangling run-start is the failure
		// signal monitoring looks for.
		return fmt.Errorf("scraper run: %w", err)
	}

	if err := o.runs.RecordEnd(ctx, runID, network.Slug, session.Slug, time.Now().UTC()); err != nil {
		return err
	}

	// Sections changed under the courses during the run; re-save the derived
	// fields, then sweep whatever the scraper did not touch this run.
	if err := o.courses.RefreshDerived(ctx, network.ID, session.ID); err != nil {
		return fmt.Errorf("refreshing derived course fields: %w", err)
	}
	if err := o.courses.DeleteStale(ctx, network.ID, session.ID, started); err != nil {
		return fmt.Errorf("sweeping stale rows: %w", err)
	}

	if err := o.indexer.ReindexSession(ctx, network, session); err != nil {
		return fmt.Errorf("reindexing session: %w", err)
	}
	if err := o.exporter.Export(ctx, network, session); err != nil {
		return fmt.Errorf("regenerating bulk files: %w", err)
	}
	return nil
}
