package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mberk/coursedex/internal/app/models"
)

var errNetworkMissing = errors.New("network not found")

type stubNetworkStore struct {
	networks map[string]*models.Network
}

func (s *stubNetworkStore) GetBySlug(_ context.Context, slug string) (*models.Network, error) {
	n, ok := s.networks[slug]
	if !ok {
		return nil, errNetworkMissing
	}
	return n, nil
}

func noopFactory(string, *models.Session) Scraper { return nil }

func TestRegistryRegister(t *testing.T) {
	store := &stubNetworkStore{networks: map[string]*models.Network{
		"nyu": {ID: 1, Slug: "nyu", Name: "NYU"},
	}}
	reg := NewRegistry(store)
	ctx := context.Background()

	require.NoError(t, reg.Register(ctx, "nyu", noopFactory))
	require.Equal(t, []string{"nyu"}, reg.Registered())

	entry, ok := reg.Lookup("nyu")
	require.True(t, ok)
	require.Equal(t, "nyu", entry.Network.Slug)
}

func TestRegistryRegisterUnknownNetwork(t *testing.T) {
	reg := NewRegistry(&stubNetworkStore{})
	err := reg.Register(context.Background(), "ghost", noopFactory)

	// The failure is explicit and the entry is not created; callers must
	// check membership instead of assuming registration succeeded.
	require.ErrorIs(t, err, errNetworkMissing)
	require.Empty(t, reg.Registered())
	_, ok := reg.Lookup("ghost")
	require.False(t, ok)
}
