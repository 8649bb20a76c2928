package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// PlayerPoolConfig tunes cache lifetime and refresh behaviour
type PlayerPoolConfig struct {
	// TTL is how long a successful primary load is served
	TTL time.Duration
	// FallbackTTL is how long stale or fallback data is served before retrying the primary
	FallbackTTL time.Duration
	// RefreshWait bounds how long a caller waits on an in-flight refresh
	RefreshWait time.Duration
	// FetchTimeout bounds a single provider call
	FetchTimeout time.Duration
	Policy       RarityPolicy
}

// DefaultPlayerPoolConfig returns production timings
func DefaultPlayerPoolConfig() PlayerPoolConfig {
	return PlayerPoolConfig{
		TTL:          6 * time.Hour,
		FallbackTTL:  15 * time.Minute,
		RefreshWait:  30 * time.Second,
		FetchTimeout: 20 * time.Second,
		Policy:       DefaultRarityPolicy(),
	}
}

// PoolStats describes what the pool is currently serving
type PoolStats struct {
	Size        int
	Source      string
	Degraded    bool
	RefreshedAt time.Time
	ExpiresAt   time.Time
}

// PlayerPool caches drop candidates from a statistics provider.
// Once any load has succeeded it never serves an empty pool.
type PlayerPool struct {
	primary   interfaces.PlayerStatsProvider
	fallback  interfaces.PlayerStatsProvider
	publisher interfaces.EventPublisher
	clock     clockwork.Clock
	config    PlayerPoolConfig
	group     singleflight.Group

	mu          sync.RWMutex
	entries     []*entities.PlayerPoolEntry
	source      string
	degraded    bool
	refreshedAt time.Time
	expiresAt   time.Time
}

// NewPlayerPool creates an empty pool. fallback and publisher may be nil.
func NewPlayerPool(
	primary interfaces.PlayerStatsProvider,
	fallback interfaces.PlayerStatsProvider,
	publisher interfaces.EventPublisher,
	clock clockwork.Clock,
	config PlayerPoolConfig,
) *PlayerPool {
	return &PlayerPool{
		primary:   primary,
		fallback:  fallback,
		publisher: publisher,
		clock:     clock,
		config:    config,
	}
}

// Get returns the current pool, refreshing it first when expired.
// A caller waits at most RefreshWait for a refresh; on timeout it gets
// whatever is cached, or ErrPoolUnavailable when nothing is.
func (p *PlayerPool) Get(ctx context.Context) ([]*entities.PlayerPoolEntry, bool, error) {
	if entries, degraded, fresh := p.snapshot(); fresh {
		return entries, degraded, nil
	}

	result := p.group.DoChan(refreshKey, func() (interface{}, error) {
		return nil, p.refresh()
	})

	select {
	case res := <-result:
		if res.Err != nil {
			log.WithError(res.Err).Debug("Player pool refresh finished with error")
		}
	case <-p.clock.After(p.config.RefreshWait):
		log.WithField("wait", p.config.RefreshWait).Warn("Timed out waiting for player pool refresh")
	case <-ctx.Done():
		log.WithError(ctx.Err()).Debug("Caller gave up waiting for player pool refresh")
	}

	entries, degraded, fresh := p.snapshot()
	if len(entries) == 0 {
		return nil, false, ErrPoolUnavailable
	}
	return entries, degraded || !fresh, nil
}

// Warm forces a refresh and waits for it without the RefreshWait bound
func (p *PlayerPool) Warm(ctx context.Context) error {
	result := p.group.DoChan(refreshKey, func() (interface{}, error) {
		return nil, p.refresh()
	})

	select {
	case res := <-result:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Invalidate marks the cache expired; entries stay available as stale data
func (p *PlayerPool) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expiresAt = time.Time{}
}

// Stats reports what the pool currently serves
func (p *PlayerPool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PoolStats{
		Size:        len(p.entries),
		Source:      p.source,
		Degraded:    p.degraded,
		RefreshedAt: p.refreshedAt,
		ExpiresAt:   p.expiresAt,
	}
}

func (p *PlayerPool) snapshot() (entries []*entities.PlayerPoolEntry, degraded bool, fresh bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fresh = len(p.entries) > 0 && p.clock.Now().Before(p.expiresAt)
	return p.entries, p.degraded, fresh
}

// refresh runs detached from any caller context so one impatient caller
// cannot cancel the load everybody else is waiting on.
func (p *PlayerPool) refresh() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.FetchTimeout)
	defer cancel()

	start := p.clock.Now()
	entries, err := p.load(ctx, p.primary)
	if err == nil {
		p.replace(entries, p.primary.Name(), false, p.config.TTL)
		p.announce(start, false)
		return nil
	}

	log.WithFields(log.Fields{
		"provider": p.primary.Name(),
		"error":    err,
	}).Warn("Player pool refresh failed")

	if p.extendStale() {
		p.announce(start, true)
		return nil
	}

	if p.fallback != nil {
		fallbackEntries, fallbackErr := p.load(ctx, p.fallback)
		if fallbackErr == nil {
			p.replace(fallbackEntries, p.fallback.Name(), true, p.config.FallbackTTL)
			p.announce(start, true)
			return nil
		}
		log.WithFields(log.Fields{
			"provider": p.fallback.Name(),
			"error":    fallbackErr,
		}).Error("Fallback player source failed")
		err = errors.Join(err, fallbackErr)
	}

	return fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
}

// extendStale keeps serving the existing cache for FallbackTTL so the
// failing provider is not retried on every drop.
func (p *PlayerPool) extendStale() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 {
		return false
	}
	p.degraded = true
	p.expiresAt = p.clock.Now().Add(p.config.FallbackTTL)

	log.WithFields(log.Fields{
		"size":        len(p.entries),
		"source":      p.source,
		"refreshedAt": p.refreshedAt,
	}).Warn("Serving stale player pool")
	return true
}

func (p *PlayerPool) replace(entries []*entities.PlayerPoolEntry, source string, degraded bool, ttl time.Duration) {
	now := p.clock.Now()

	p.mu.Lock()
	p.entries = entries
	p.source = source
	p.degraded = degraded
	p.refreshedAt = now
	p.expiresAt = now.Add(ttl)
	p.mu.Unlock()

	log.WithFields(log.Fields{
		"size":     len(entries),
		"source":   source,
		"degraded": degraded,
	}).Info("Player pool refreshed")
}

func (p *PlayerPool) announce(start time.Time, degraded bool) {
	if p.publisher == nil {
		return
	}
	stats := p.Stats()
	p.publisher.Publish(events.PlayerPoolRefreshedEvent{
		Source:      stats.Source,
		Size:        stats.Size,
		Stale:       degraded,
		Duration:    p.clock.Since(start),
		RefreshedAt: stats.RefreshedAt,
	})
}

func (p *PlayerPool) load(ctx context.Context, provider interfaces.PlayerStatsProvider) ([]*entities.PlayerPoolEntry, error) {
	stats, err := provider.FetchTopPlayers(ctx)
	if err != nil {
		return nil, err
	}

	entries := BuildPoolEntries(stats, p.config.Policy)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s returned no usable players (%d records)", provider.Name(), len(stats))
	}
	if dropped := len(stats) - len(entries); dropped > 0 {
		log.WithFields(log.Fields{
			"provider": provider.Name(),
			"dropped":  dropped,
		}).Warn("Discarded player records missing name or team")
	}
	return entries, nil
}

// BuildPoolEntries validates raw records, fills defaults and assigns
// rarity. Records without a name or team are dropped, as are repeated names.
func BuildPoolEntries(stats []entities.PlayerStat, policy RarityPolicy) []*entities.PlayerPoolEntry {
	entries := make([]*entities.PlayerPoolEntry, 0, len(stats))
	seen := make(map[string]struct{}, len(stats))

	for _, stat := range stats {
		name := strings.TrimSpace(stat.Name)
		team := strings.TrimSpace(stat.Team)
		if name == "" || team == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		rarity := policy.Classify(stat)
		entries = append(entries, &entities.PlayerPoolEntry{
			Player: entities.Player{
				Name:        name,
				Team:        team,
				Position:    withDefault(stat.Position, "Player"),
				Nationality: withDefault(stat.Nationality, "Unknown"),
				ImageURL:    withDefault(stat.PhotoURL, placeholderImageURL(name)),
				Rarity:      rarity,
			},
			Goals:   max(stat.Goals, 0),
			Assists: max(stat.Assists, 0),
			Age:     defaultAge(stat.Age),
			League:  withDefault(stat.League, "Unknown League"),
			Rarity:  rarity,
		})
	}
	return entries
}

func withDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func defaultAge(age int) int {
	if age <= 0 {
		return 25
	}
	return age
}

func placeholderImageURL(name string) string {
	return "https://ui-avatars.com/api/?background=random&size=256&name=" + url.QueryEscape(name)
}
