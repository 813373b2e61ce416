package analytics

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store, err := Open(filepath.Join(t.TempDir(), "analytics.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	store := openStore(t)

	a := store.HashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, store.HashIP("203.0.113.7"))
	assert.NotEqual(t, a, store.HashIP("203.0.113.8"))
	assert.NotContains(t, a, "203")

	other := openStore(t)
	assert.NotEqual(t, a, other.HashIP("203.0.113.7"), "salt differs per store")
}

func TestStats(t *testing.T) {
	store := openStore(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	at := func(ts time.Time) { store.now = func() time.Time { return ts } }

	at(now.Add(-30 * 24 * time.Hour))
	store.RecordVisit(ctx, "10.0.0.1", "ua", "/blog/")
	store.Wait()
	at(now.Add(-3 * 24 * time.Hour))
	store.RecordVisit(ctx, "10.0.0.2", "ua", "/projects/")
	store.Wait()
	at(now.Add(-time.Hour))
	store.RecordVisit(ctx, "10.0.0.1", "ua", "/")
	store.Wait()
	store.RecordVisit(ctx, "10.0.0.3", "ua", "/")
	store.Wait()

	store.Track(ctx, NewEvent("Viewed Homepage", Properties{"route": "/"}))
	store.Track(ctx, NewEvent("Viewed Homepage", nil))
	store.Track(ctx, NewEvent("Contact Form Success", Properties{"sender_domain": "example.com"}))
	store.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalVisitors)
	assert.EqualValues(t, 3, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	assert.EqualValues(t, 3, stats.TotalEvents)
	assert.Equal(t, Count{Key: "/", Count: 2}, stats.TopPaths[0])
	assert.Equal(t, []Count{{"Viewed Homepage", 2}, {"Contact Form Success", 1}}, stats.TopEvents)
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "/projects/", stats.RecentVisitors[2].Path)
}

func TestCleanupRemovesOldRecords(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	store.RecordVisit(ctx, "10.0.0.1", "ua", "/old")
	old := NewEvent("Old", nil)
	old.Timestamp = store.now()
	store.Track(ctx, old)
	store.Wait()

	store.now = func() time.Time { return now }
	store.RecordVisit(ctx, "10.0.0.1", "ua", "/new")
	store.Track(ctx, NewEvent("New", nil))
	store.Wait()

	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisitors)
	assert.EqualValues(t, 1, stats.TotalEvents)
}

func TestTrackFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store, err := Open(filepath.Join(t.TempDir(), "analytics.db"), logger)
	require.NoError(t, err)
	require.NoError(t, store.db.Close())

	store.Track(context.Background(), NewEvent("Lost", nil))
	store.Wait()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Event tracking failed", hook.LastEntry().Message)
}

func TestWritesAfterCloseAreDropped(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store, err := Open(filepath.Join(t.TempDir(), "analytics.db"), logger)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store.Track(context.Background(), NewEvent("Late", nil))
	store.RecordVisit(context.Background(), "10.0.0.1", "ua", "/")
	store.Wait()

	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
	}
}

func TestCloseRacingTrack(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store, err := Open(filepath.Join(t.TempDir(), "analytics.db"), logger)
	require.NoError(t, err)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			store.Track(context.Background(), NewEvent("Viewed Homepage", nil))
		}()
	}
	close(start)
	require.NoError(t, store.Close())
	wg.Wait()
	store.Wait()

	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, "Event tracking failed", e.Message)
	}
}

func TestMultiAndLogTracker(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var got []string
	record := trackerFunc(func(_ context.Context, e Event) { got = append(got, e.Name) })

	Multi{LogTracker{Logger: logger}, record, Nop{}}.Track(context.Background(), NewEvent("Viewed About Page", nil))

	assert.Equal(t, []string{"Viewed About Page"}, got)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "Viewed About Page", hook.LastEntry().Data["event"])
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("Projects Listed", Properties{"project_count": 6})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "anonymous", e.DistinctID)
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Minute)
}

type trackerFunc func(context.Context, Event)

func (f trackerFunc) Track(ctx context.Context, e Event) { f(ctx, e) }
