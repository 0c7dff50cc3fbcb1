package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mberk/coursedex/internal/app/models"
	"github.com/mberk/coursedex/internal/runlog"
)

type stubSessions struct {
	sessions []*models.Session
}

func (s *stubSessions) ActiveSessions(context.Context, string) ([]*models.Session, error) {
	return s.sessions, nil
}

type recordingMaintainer struct {
	refreshed []int64
	swept     []int64
}

func (m *recordingMaintainer) RefreshDerived(_ context.Context, _, sessionID int64) error {
	m.refreshed = append(m.refreshed, sessionID)
	return nil
}

func (m *recordingMaintainer) DeleteStale(_ context.Context, _, sessionID int64, _ time.Time) error {
	m.swept = append(m.swept, sessionID)
	return nil
}

type recordingIndexer struct {
	sessions []string
}

func (i *recordingIndexer) ReindexSession(_ context.Context, _ *models.Network, s *models.Session) error {
	i.sessions = append(i.sessions, s.Slug)
	return nil
}

type recordingExporter struct {
	exports []string
}

func (e *recordingExporter) Export(_ context.Context, n *models.Network, s *models.Session) error {
	e.exports = append(e.exports, n.Slug+"/"+s.Slug)
	return nil
}

type scriptedScraper struct {
	session *models.Session
	fail    map[string]error
}

func (s *scriptedScraper) Run(context.Context) error {
	return s.fail[s.session.Slug]
}

func testOrchestrator(t *testing.T, fail map[string]error) (*Orchestrator, *runlog.MemoryLog, *recordingExporter, *recordingMaintainer, *recordingIndexer) {
	t.Helper()

	store := &stubNetworkStore{networks: map[string]*models.Network{
		"nyu": {ID: 1, Slug: "nyu", Name: "NYU"},
	}}
	registry := NewRegistry(store)
	require.NoError(t, registry.Register(context.Background(), "nyu",
		func(_ string, session *models.Session) Scraper {
			return &scriptedScraper{session: session, fail: fail}
		}))

	sessions := &stubSessions{sessions: []*models.Session{
		{ID: 10, NetworkID: 1, Slug: "session-a", Active: true},
		{ID: 11, NetworkID: 1, Slug: "session-b", Active: true},
		{ID: 12, NetworkID: 1, Slug: "session-c", Active: true},
	}}

	runs := runlog.NewMemoryLog()
	exporter := &recordingExporter{}
	maintainer := &recordingMaintainer{}
	indexer := &recordingIndexer{}
	o := NewOrchestrator(registry, sessions, maintainer, indexer, exporter, runs, zerolog.Nop())
	return o, runs, exporter, maintainer, indexer
}

func TestRunNetworkHappyPath(t *testing.T) {
	o, runs, exporter, maintainer, indexer := testOrchestrator(t, nil)

	require.NoError(t, o.RunNetwork(context.Background(), "nyu", ""))

	for i, slug := range []string{"session-a", "session-b", "session-c"} {
		runID := int64(i + 1)
		_, ok := runs.StartedAt(runID, "nyu", slug)
		require.True(t, ok, "missing run-start for %s", slug)
		_, ok = runs.EndedAt(runID, "nyu", slug)
		require.True(t, ok, "missing run-end for %s", slug)
	}

	require.Equal(t, []string{"nyu/session-a", "nyu/session-b", "nyu/session-c"}, exporter.exports)
	require.Equal(t, []int64{10, 11, 12}, maintainer.refreshed)
	require.Equal(t, []int64{10, 11, 12}, maintainer.swept)
	require.Equal(t, []string{"session-a", "session-b", "session-c"}, indexer.sessions)
}

func TestRunNetworkIsolatesSessionFailure(t *testing.T) {
	scrapeErr := errors.New("upstream smoked")
	o, runs, exporter, _, _ := testOrchestrator(t, map[string]error{"session-b": scrapeErr})

	err := o.RunNetwork(context.Background(), "nyu", "")
	require.ErrorIs(t, err, scrapeErr)

	// A and C complete with both log entries; B keeps only its run-start.
	_, ok := runs.StartedAt(1, "nyu", "session-a")
	require.True(t, ok)
	_, ok = runs.EndedAt(1, "nyu", "session-a")
	require.True(t, ok)

	_, ok = runs.StartedAt(2, "nyu", "session-b")
	require.True(t, ok)
	_, ok = runs.EndedAt(2, "nyu", "session-b")
	require.False(t, ok)

	_, ok = runs.StartedAt(3, "nyu", "session-c")
	require.True(t, ok)
	_, ok = runs.EndedAt(3, "nyu", "session-c")
	require.True(t, ok)

	// Bulk export never fires for the failed session.
	require.Equal(t, []string{"nyu/session-a", "nyu/session-c"}, exporter.exports)
}

func TestRunNetworkSessionFilter(t *testing.T) {
	o, runs, exporter, _, _ := testOrchestrator(t, nil)

	require.NoError(t, o.RunNetwork(context.Background(), "nyu", "session-b"))

	_, ok := runs.StartedAt(1, "nyu", "session-b")
	require.True(t, ok)
	require.Equal(t, []string{"nyu/session-b"}, exporter.exports)
}

func TestRunNetworkUnregistered(t *testing.T) {
	o, _, _, _, _ := testOrchestrator(t, nil)
	err := o.RunNetwork(context.Background(), "columbia", "")
	require.ErrorIs(t, err, ErrNotRegistered)
}
