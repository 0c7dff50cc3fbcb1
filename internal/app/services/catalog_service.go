package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/app/repositories"
	"github.com/mberk/coursedex/internal/pkg/apperrors"
	"github.com/mberk/coursedex/internal/search"
)

// CatalogService serves the reference listings around course search: the
// known networks and the active sessions of a network.
type CatalogService struct {
	networks *repositories.NetworkRepository
	sessions *repositories.SessionRepository
	index    search.Index
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	networks *repositories.NetworkRepository,
	sessions *repositories.SessionRepository,
	index search.Index,
) *CatalogService {
	return &CatalogService{
		networks: networks,
		sessions: sessions,
		index:    index,
	}
}

// Networks lists every known catalog network.
func (s *CatalogService) Networks(ctx context.Context) ([]dto.NetworkResponse, error) {
	networks, err := s.networks.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}

	out := make([]dto.NetworkResponse, 0, len(networks))
	for _, n := range networks {
		out = append(out, dto.NetworkResponse{Slug: n.Slug, Name: n.Name})
	}
	return out, nil
}

// SessionDocument returns the indexed document of a single session.
func (s *CatalogService) SessionDocument(ctx context.Context, networkSlug, sessionSlug string) (json.RawMessage, error) {
	entry, err := s.index.Session(ctx, networkSlug, sessionSlug)
	if errors.Is(err, search.ErrSessionNotFound) {
		return nil, apperrors.NewResourceNotFoundError(
			fmt.Sprintf("session %s not found in network %s", sessionSlug, networkSlug))
	}
	if err != nil {
		return nil, fmt.Errorf("loading session document %s: %w", sessionSlug, err)
	}
	return entry.Document, nil
}

// Sessions lists the active sessions of a network, attaching the indexed
// session document when one exists. A session missing from the index is
// simply listed without a document; it has not been scraped yet.
func (s *CatalogService) Sessions(ctx context.Context, networkSlug string) ([]dto.SessionResponse, error) {
	if _, err := s.networks.GetBySlug(ctx, networkSlug); err != nil {
		if errors.Is(err, repositories.ErrNetworkNotFound) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("network %s not found", networkSlug))
		}
		return nil, fmt.Errorf("loading network %s: %w", networkSlug, err)
	}

	sessions, err := s.sessions.ActiveSessions(ctx, networkSlug)
	if err != nil {
		return nil, fmt.Errorf("listing sessions for %s: %w", networkSlug, err)
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp := dto.SessionResponse{
			Name:   session.Name,
			Slug:   session.Slug,
			Active: session.Active,
		}
		if !session.StartDate.IsZero() {
			resp.StartDate = session.StartDate.Format("2006-01-02")
		}
		if !session.EndDate.IsZero() {
			resp.EndDate = session.EndDate.Format("2006-01-02")
		}

		entry, err := s.index.Session(ctx, networkSlug, session.Slug)
		switch {
		case err == nil:
			resp.Document = entry.Document
		case errors.Is(err, search.ErrSessionNotFound):
			// not indexed yet
		default:
			return nil, fmt.Errorf("loading session document %s: %w", session.Slug, err)
		}
		out = append(out, resp)
	}
	return out, nil
}
