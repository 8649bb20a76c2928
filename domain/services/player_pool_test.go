package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"footycards/domain/entities"
	"footycards/domain/testhelpers"
	"footycards/events"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testStats() []entities.PlayerStat {
	return []entities.PlayerStat{
		{Name: "Erling Haaland", Team: "Manchester City", Goals: 27, Assists: 5, Appearances: 31, Rating: 7.5, League: "Premier League"},
		{Name: "Bukayo Saka", Team: "Arsenal", Goals: 3, Assists: 2, Appearances: 15, Rating: 6.8},
		{Name: "Squad Player", Team: "Brentford", Goals: 1, Assists: 1, Appearances: 10, Rating: 6.2},
	}
}

func newProvider(name string) *testhelpers.MockPlayerStatsProvider {
	p := new(testhelpers.MockPlayerStatsProvider)
	p.On("Name").Return(name).Maybe()
	return p
}

func testPoolConfig() PlayerPoolConfig {
	cfg := DefaultPlayerPoolConfig()
	cfg.TTL = time.Hour
	cfg.FallbackTTL = 10 * time.Minute
	cfg.RefreshWait = 5 * time.Second
	cfg.FetchTimeout = 5 * time.Second
	return cfg
}

// blockingProvider holds FetchTopPlayers until release is closed
type blockingProvider struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	stats   []entities.PlayerStat
	err     error
	once    sync.Once
}

func newBlockingProvider(stats []entities.PlayerStat, err error) *blockingProvider {
	return &blockingProvider{
		started: make(chan struct{}),
		release: make(chan struct{}),
		stats:   stats,
		err:     err,
	}
}

func (b *blockingProvider) FetchTopPlayers(ctx context.Context) ([]entities.PlayerStat, error) {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.stats, b.err
}

func (b *blockingProvider) Name() string { return "blocking" }

func TestPlayerPool_ServesFreshCacheWithoutRefetch(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	primary := newProvider("api")
	primary.On("FetchTopPlayers", mock.Anything).Return(testStats(), nil).Once()

	pool := NewPlayerPool(primary, nil, nil, clock, testPoolConfig())

	entries, degraded, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Len(t, entries, 3)

	clock.Advance(59 * time.Minute)
	again, _, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entries, again)

	primary.AssertNumberOfCalls(t, "FetchTopPlayers", 1)
}

func TestPlayerPool_RefreshesAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	primary := newProvider("api")
	primary.On("FetchTopPlayers", mock.Anything).Return(testStats(), nil).Once()
	primary.On("FetchTopPlayers", mock.Anything).Return(testStats()[:1], nil).Once()

	pool := NewPlayerPool(primary, nil, nil, clock, testPoolConfig())

	_, _, err := pool.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	entries, degraded, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, entries, 1)
	assert.Equal(t, "Erling Haaland", entries[0].Player.Name)
	primary.AssertExpectations(t)
}

func TestPlayerPool_ServesStaleOnProviderFailure(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	primary := newProvider("api")
	primary.On("FetchTopPlayers", mock.Anything).Return(testStats(), nil).Once()
	primary.On("FetchTopPlayers", mock.Anything).Return(nil, errors.New("429 too many requests")).Once()
	publisher := &testhelpers.RecordingEventPublisher{}

	pool := NewPlayerPool(primary, nil, publisher, clock, testPoolConfig())

	_, _, err := pool.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	entries, degraded, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Len(t, entries, 3)

	stats := pool.Stats()
	assert.True(t, stats.Degraded)
	assert.Equal(t, "api", stats.Source)

	// stale data is kept for FallbackTTL without hammering the provider
	clock.Advance(5 * time.Minute)
	_, degraded, err = pool.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	primary.AssertNumberOfCalls(t, "FetchTopPlayers", 2)

	refreshed := publisher.OfType(events.EventTypePlayerPoolRefreshed)
	require.Len(t, refreshed, 2)
	assert.False(t, refreshed[0].(events.PlayerPoolRefreshedEvent).Stale)
	assert.True(t, refreshed[1].(events.PlayerPoolRefreshedEvent).Stale)
}

func TestPlayerPool_UsesFallbackWhenNothingCached(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	primary := newProvider("api")
	primary.On("FetchTopPlayers", mock.Anything).Return(nil, errors.New("FOOTBALL_API_KEY is not configured"))
	fallback := newProvider("roster")
	fallback.On("FetchTopPlayers", mock.Anything).Return(testStats()[:2], nil)

	pool := NewPlayerPool(primary, fallback, nil, clock, testPoolConfig())

	entries, degraded, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Len(t, entries, 2)

	stats := pool.Stats()
	assert.Equal(t, "roster", stats.Source)
	assert.Equal(t, clock.Now().Add(10*time.Minute), stats.ExpiresAt)
}

func TestPlayerPool_UnavailableWhenEverythingFails(t *testing.T) {
	t.Parallel()

	primary := newProvider("api")
	primary.On("FetchTopPlayers", mock.Anything).Return(nil, errors.New("connection refused"))
	fallback := newProvider("roster")
	fallback.On("FetchTopPlayers", mock.Anything).Return(nil, errors.New("roster missing"))

	pool := NewPlayerPool(primary, fallback, nil, clockwork.NewFakeClock(), testPoolConfig())

	entries, _, err := pool.Get(context.Background())
	assert.ErrorIs(t, err, ErrPoolUnavailable)
	assert.Empty(t, entries)

	err = pool.Warm(context.Background())
	assert.ErrorIs(t, err, ErrPoolUnavailable)
}

func TestPlayerPool_RejectsResponseWithNoValidRecords(t *testing.T) {
	t.Parallel()

	primary := newProvider("api")
	primary.On("FetchTopPlayers", mock.Anything).Return([]entities.PlayerStat{
		{Name: "", Team: "Arsenal"},
		{Name: "No Team"},
	}, nil)

	pool := NewPlayerPool(primary, nil, nil, clockwork.NewFakeClock(), testPoolConfig())

	_, _, err := pool.Get(context.Background())
	assert.ErrorIs(t, err, ErrPoolUnavailable)
}

func TestPlayerPool_ConcurrentCallersShareOneRefresh(t *testing.T) {
	t.Parallel()

	provider := newBlockingProvider(testStats(), nil)
	pool := NewPlayerPool(provider, nil, nil, clockwork.NewRealClock(), testPoolConfig())

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, _, err := pool.Get(context.Background())
			if err == nil {
				results <- len(entries)
			}
		}()
	}

	<-provider.started
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()
	close(results)

	assert.Equal(t, int32(1), provider.calls.Load())
	count := 0
	for n := range results {
		assert.Equal(t, 3, n)
		count++
	}
	assert.Equal(t, callers, count)
}

func TestPlayerPool_BoundedWaitReturnsUnavailableWithoutCache(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	provider := newBlockingProvider(testStats(), nil)
	defer close(provider.release)

	pool := NewPlayerPool(provider, nil, nil, clock, testPoolConfig())

	errCh := make(chan error, 1)
	go func() {
		_, _, err := pool.Get(context.Background())
		errCh <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(5 * time.Second)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrPoolUnavailable)
	case <-time.After(2 * time.Second):
		t.Fatal("caller was not released after the bounded wait")
	}
}

func TestPlayerPool_BoundedWaitServesStaleWhileRefreshHangs(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	seed := newProvider("api")
	seed.On("FetchTopPlayers", mock.Anything).Return(testStats(), nil)
	pool := NewPlayerPool(seed, nil, nil, clock, testPoolConfig())
	require.NoError(t, pool.Warm(context.Background()))

	// later refreshes hang

	hanging := newBlockingProvider(testStats(), nil)
	defer close(hanging.release)
	pool.primary = hanging
	pool.Invalidate()

	type result struct {
		n        int
		degraded bool
		err      error
	}
	done := make(chan result, 1)
	go func() {
		entries, degraded, err := pool.Get(context.Background())
		done <- result{len(entries), degraded, err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(5 * time.Second)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, 3, r.n)
		assert.True(t, r.degraded)
	case <-time.After(2 * time.Second):
		t.Fatal("caller was not released after the bounded wait")
	}
}

func TestPlayerPool_CallerContextCancellation(t *testing.T) {
	t.Parallel()

	provider := newBlockingProvider(testStats(), nil)
	defer close(provider.release)
	pool := NewPlayerPool(provider, nil, nil, clockwork.NewFakeClock(), testPoolConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := pool.Get(ctx)
	assert.ErrorIs(t, err, ErrPoolUnavailable)
}

func TestBuildPoolEntries(t *testing.T) {
	t.Parallel()

	stats := []entities.PlayerStat{
		{Name: "  Mohamed Salah ", Team: "Liverpool", Goals: 18, Assists: 10, Appearances: 30, Rating: 7.4, Age: 32, PhotoURL: "https://img/salah.png", League: "Premier League", Position: "Attacker", Nationality: "Egypt"},
		{Name: "Mohamed Salah", Team: "Liverpool"},
		{Name: "Unknown Defender", Team: "Fulham", Goals: -2},
		{Name: "", Team: "Chelsea"},
		{Name: "Free Agent", Team: "  "},
		{Name: "Cole Palmer", Team: "Chelsea", Rarity: "Epic"},
	}

	entries := BuildPoolEntries(stats, DefaultRarityPolicy())
	require.Len(t, entries, 3)

	salah := entries[0]
	assert.Equal(t, "Mohamed Salah", salah.Player.Name)
	assert.Equal(t, "Attacker", salah.Player.Position)
	assert.Equal(t, "https://img/salah.png", salah.Player.ImageURL)
	assert.Equal(t, 32, salah.Age)
	assert.Equal(t, entities.RarityEpic, salah.Rarity)
	assert.Equal(t, salah.Rarity, salah.Player.Rarity)

	defender := entries[1]
	assert.Equal(t, "Player", defender.Player.Position)
	assert.Equal(t, "Unknown", defender.Player.Nationality)
	assert.Equal(t, "Unknown League", defender.League)
	assert.Equal(t, 25, defender.Age)
	assert.Equal(t, 0, defender.Goals)
	assert.Contains(t, defender.Player.ImageURL, "name=Unknown+Defender")
	assert.Equal(t, entities.RarityCommon, defender.Rarity)

	assert.Equal(t, entities.RarityEpic, entries[2].Rarity)
}
