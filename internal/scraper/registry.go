package scraper

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mberk/coursedex/internal/app/models"
)

// NetworkStore resolves network rows during registration.
type NetworkStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Network, error)
}

// Registration pairs a registered scraper factory with its network entity.
type Registration struct {
	Factory Factory
	Network *models.Network
}

// Registry maps network slugs to their registered scrapers. It is
// constructed once at process start, populated while scrapers register
// themselves, and read for the life of the process. It is always passed
// explicitly, never reached for as ambient state.
type Registry struct {
	mu       sync.RWMutex
	networks NetworkStore
	entries  map[string]Registration
}

// NewRegistry creates an empty registry resolving networks through store.
func NewRegistry(store NetworkStore) *Registry {
	return &Registry{
		networks: store,
		entries:  make(map[string]Registration),
	}
}

// Register binds a scraper factory to a network slug. Registering a slug
// whose network row does not exist fails with an explicit error and the
// entry is not created; logging and continuing is the caller's choice.
// Callers must check Registered or Lookup rather than assume success.
func (r *Registry) Register(ctx context.Context, slug string, factory Factory) error {
	network, err := r.networks.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("registering scraper for network %q: %w", slug, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[slug] = Registration{Factory: factory, Network: network}
	return nil
}

// Registered returns the sorted slugs with a registered scraper.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.entries))
	for slug := range r.entries {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Lookup returns the registration for a network slug.
func (r *Registry) Lookup(slug string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[slug]
	return reg, ok
}
