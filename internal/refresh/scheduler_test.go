package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
	"github.com/pfial/atlas-resource-bot/internal/resource"
)

// fakeSource serves canned sheets and can fail selectively.
type fakeSource struct {
	mu        sync.Mutex
	names     []string
	namesErr  error
	sheets    map[string][][]string
	rowsErr   map[string]error
	rowsCalls int
}

func (f *fakeSource) SheetNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.names, f.namesErr
}

func (f *fakeSource) Rows(_ context.Context, name string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsCalls++
	if err := f.rowsErr[name]; err != nil {
		return nil, err
	}
	return f.sheets[name], nil
}

func testSheet() [][]string {
	return [][]string{
		{"Resource", "IslandX"},
		{"Wood/Holz", "TRUE"},
	}
}

func newTestScheduler(src *fakeSource, store *resource.Store, cacheDir string) *Scheduler {
	return NewScheduler(
		src, store, cacheDir,
		time.Hour, 5*time.Second,
		logger.New("error"),
		metrics.New(prometheus.NewRegistry()),
	)
}

func TestScheduler_RefreshInstallsSnapshot(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:  []string{"A1 North"},
		sheets: map[string][][]string{"A1 North": testSheet()},
	}
	store := resource.NewStore()
	s := newTestScheduler(src, store, t.TempDir())

	require.NoError(t, s.TriggerNow(context.Background()))

	idx := store.Current()
	require.Contains(t, idx.EN, "wood")
	assert.Equal(t, []string{"A1"}, idx.Grids)
	assert.Equal(t, []string{"IslandX"}, idx.Islands)
}

func TestScheduler_RefreshWritesCache(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:  []string{"A1 North"},
		sheets: map[string][][]string{"A1 North": testSheet()},
	}
	dir := t.TempDir()
	s := newTestScheduler(src, resource.NewStore(), dir)

	require.NoError(t, s.TriggerNow(context.Background()))

	idx, err := resource.LoadCache(dir)
	require.NoError(t, err)
	assert.Contains(t, idx.DE, "holz")
}

func TestScheduler_ListFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	src := &fakeSource{namesErr: errors.New("transport down")}
	store := resource.NewStore()

	previous := resource.NewBuilder(logger.New("error"))
	require.NoError(t, previous.AddSheet("B2 South", testSheet()))
	store.Install(previous.Build())

	s := newTestScheduler(src, store, t.TempDir())
	require.Error(t, s.TriggerNow(context.Background()))

	assert.Contains(t, store.Current().EN, "wood")
	assert.Equal(t, []string{"B2"}, store.Current().Grids)
}

func TestScheduler_AllSheetsFailingKeepsSnapshot(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:   []string{"A1 North", "B2 South"},
		rowsErr: map[string]error{"A1 North": errors.New("boom"), "B2 South": errors.New("boom")},
	}
	store := resource.NewStore()

	previous := resource.NewBuilder(logger.New("error"))
	require.NoError(t, previous.AddSheet("C3 East", testSheet()))
	store.Install(previous.Build())

	s := newTestScheduler(src, store, t.TempDir())
	require.Error(t, s.TriggerNow(context.Background()))

	assert.Equal(t, []string{"C3"}, store.Current().Grids)
}

func TestScheduler_EmptyListingKeepsSnapshot(t *testing.T) {
	t.Parallel()

	src := &fakeSource{names: nil}
	store := resource.NewStore()

	previous := resource.NewBuilder(logger.New("error"))
	require.NoError(t, previous.AddSheet("C3 East", testSheet()))
	store.Install(previous.Build())

	dir := t.TempDir()
	require.NoError(t, resource.SaveCache(dir, store.Current()))

	s := newTestScheduler(src, store, dir)
	require.Error(t, s.TriggerNow(context.Background()))

	// Neither the live snapshot nor the persisted cache got emptied.
	assert.Equal(t, []string{"C3"}, store.Current().Grids)
	cached, err := resource.LoadCache(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"C3"}, cached.Grids)
}

func TestScheduler_TemplateOnlyListingKeepsSnapshot(t *testing.T) {
	t.Parallel()

	src := &fakeSource{names: []string{"Island template", "Grid Template"}}
	store := resource.NewStore()

	previous := resource.NewBuilder(logger.New("error"))
	require.NoError(t, previous.AddSheet("C3 East", testSheet()))
	store.Install(previous.Build())

	s := newTestScheduler(src, store, t.TempDir())
	require.Error(t, s.TriggerNow(context.Background()))

	assert.Equal(t, []string{"C3"}, store.Current().Grids)
	assert.Equal(t, 0, src.rowsCalls)
}

func TestScheduler_PartialFailureKeepsGoodSheets(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:   []string{"A1 North", "B2 South"},
		sheets:  map[string][][]string{"A1 North": testSheet()},
		rowsErr: map[string]error{"B2 South": errors.New("boom")},
	}
	store := resource.NewStore()
	s := newTestScheduler(src, store, t.TempDir())

	require.NoError(t, s.TriggerNow(context.Background()))

	assert.Equal(t, []string{"A1"}, store.Current().Grids)
}

func TestScheduler_TemplateSheetsNotFetched(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:  []string{"Island template", "A1 North"},
		sheets: map[string][][]string{"A1 North": testSheet()},
	}
	s := newTestScheduler(src, resource.NewStore(), t.TempDir())

	require.NoError(t, s.TriggerNow(context.Background()))
	assert.Equal(t, 1, src.rowsCalls)
}

func TestScheduler_TimeoutMidFetchKeepsSnapshot(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:   []string{"A1 North"},
		rowsErr: map[string]error{"A1 North": context.DeadlineExceeded},
	}
	store := resource.NewStore()

	previous := resource.NewBuilder(logger.New("error"))
	require.NoError(t, previous.AddSheet("C3 East", testSheet()))
	store.Install(previous.Build())

	s := newTestScheduler(src, store, t.TempDir())
	require.Error(t, s.TriggerNow(context.Background()))

	assert.Equal(t, []string{"C3"}, store.Current().Grids)
}

func TestScheduler_StartStops(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		names:  []string{"A1 North"},
		sheets: map[string][][]string{"A1 North": testSheet()},
	}
	store := resource.NewStore()
	s := newTestScheduler(src, store, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Start(ctx)

	require.Eventually(t, func() bool {
		return len(store.Current().Grids) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh loop did not stop")
	}
}
