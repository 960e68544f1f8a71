// Package cache holds the process-wide match cache that shields the provider gateway
// from repeated schedule fetches by stats and notification queries.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
)

const (
	DefaultTTL            = 5 * time.Minute
	DefaultRefreshTimeout = 20 * time.Second
	DefaultConcurrency    = 4

	// ScopeAll labels the all-sports entry in logs and metrics.
	ScopeAll = "all"
)

// Config tunes freshness and refill behavior.
type Config struct {
	TTL            time.Duration
	RefreshTimeout time.Duration
	Concurrency    int
}

type entry struct {
	matches  []domain.Match
	filledAt time.Time
}

func (e entry) freshAt(now time.Time, ttl time.Duration) bool {
	return !e.filledAt.IsZero() && now.Sub(e.filledAt) < ttl
}

// MatchCache stores the most recent all-sports match set plus per-sport sets.
// Every entry follows the same TTL. Concurrent refills of one key share a single fetch.
type MatchCache struct {
	gateway        providers.Gateway
	ttl            time.Duration
	refreshTimeout time.Duration
	concurrency    int
	logger         *slog.Logger
	metrics        *metrics.Recorder
	now            func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	all    entry
	sports map[string]entry
}

// New constructs a cache over the gateway. Zero config values fall back to defaults.
func New(gateway providers.Gateway, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *MatchCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = DefaultRefreshTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &MatchCache{
		gateway:        gateway,
		ttl:            cfg.TTL,
		refreshTimeout: cfg.RefreshTimeout,
		concurrency:    cfg.Concurrency,
		logger:         logger,
		metrics:        recorder,
		now:            time.Now,
		sports:         make(map[string]entry),
	}
}

// TTL reports the configured freshness window.
func (c *MatchCache) TTL() time.Duration {
	return c.ttl
}

// All returns every sport's matches, refilling first when the cached set is stale.
func (c *MatchCache) All(ctx context.Context) ([]domain.Match, error) {
	c.mu.RLock()
	cached := c.all
	c.mu.RUnlock()

	if cached.freshAt(c.now(), c.ttl) {
		c.metrics.RecordCacheLookup(ScopeAll, true)
		return cloneMatches(cached.matches), nil
	}
	c.metrics.RecordCacheLookup(ScopeAll, false)

	return c.shared(ctx, ScopeAll, func(fctx context.Context) ([]domain.Match, error) {
		return c.fillAll(fctx, false)
	})
}

// ForSports returns the matches of the given sports in request order. Stale sports are
// refilled individually; a sport whose refill fails is logged and skipped.
func (c *MatchCache) ForSports(ctx context.Context, sports []string) ([]domain.Match, error) {
	keys := dedupe(sports)
	results := make([][]domain.Match, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			matches, err := c.sport(gctx, key)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.Warn(c.logger, "sport refill failed, skipping",
					slog.String(logging.FieldSport, key),
					"error", err,
				)
				return nil
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Match, 0)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// Refresh forces an all-sports refill regardless of freshness.
func (c *MatchCache) Refresh(ctx context.Context) error {
	_, err := c.shared(ctx, ScopeAll, func(fctx context.Context) ([]domain.Match, error) {
		return c.fillAll(fctx, true)
	})
	return err
}

// FilledAt reports when the all-sports entry was last filled; zero when never.
func (c *MatchCache) FilledAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all.filledAt
}

func (c *MatchCache) sport(ctx context.Context, key string) ([]domain.Match, error) {
	c.mu.RLock()
	cached := c.sports[key]
	c.mu.RUnlock()

	if cached.freshAt(c.now(), c.ttl) {
		c.metrics.RecordCacheLookup(key, true)
		return cloneMatches(cached.matches), nil
	}
	c.metrics.RecordCacheLookup(key, false)

	return c.shared(ctx, "sport:"+key, func(fctx context.Context) ([]domain.Match, error) {
		return c.fillSport(fctx, key)
	})
}

// shared runs fill once per key across concurrent callers. The fill outlives the caller
// that started it and is bounded by the refresh timeout instead.
func (c *MatchCache) shared(ctx context.Context, key string, fill func(context.Context) ([]domain.Match, error)) ([]domain.Match, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return fill(fctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneMatches(res.Val.([]domain.Match)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *MatchCache) fillAll(ctx context.Context, force bool) ([]domain.Match, error) {
	if !force {
		c.mu.RLock()
		cached := c.all
		c.mu.RUnlock()
		if cached.freshAt(c.now(), c.ttl) {
			return cached.matches, nil
		}
	}
	if c.gateway == nil {
		return nil, providers.ErrProviderUnavailable
	}

	start := time.Now()
	list, err := c.gateway.SportsList(ctx)
	if err != nil {
		c.metrics.RecordCacheRefresh(ScopeAll, time.Since(start), err)
		logging.Error(c.logger, "match cache refill failed", err)
		return nil, err
	}

	keys := list.Keys()
	results := make([][]domain.Match, len(keys))
	ok := make([]bool, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			matches, err := c.gateway.Schedule(gctx, domain.ScheduleFilter{Sport: key})
			if err != nil {
				logging.Warn(c.logger, "schedule fetch failed during refill, skipping sport",
					slog.String(logging.FieldSport, key),
					"error", err,
				)
				return nil
			}
			results[i] = matches
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	all := make([]domain.Match, 0)
	for _, r := range results {
		all = append(all, r...)
	}

	filledAt := c.now()
	c.mu.Lock()
	c.all = entry{matches: all, filledAt: filledAt}
	for i, key := range keys {
		if ok[i] {
			c.sports[key] = entry{matches: results[i], filledAt: filledAt}
		}
	}
	c.mu.Unlock()

	c.metrics.RecordCacheRefresh(ScopeAll, time.Since(start), nil)
	logging.Info(c.logger, "match cache refilled",
		slog.Int(logging.FieldCount, len(all)),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return all, nil
}

func (c *MatchCache) fillSport(ctx context.Context, key string) ([]domain.Match, error) {
	c.mu.RLock()
	cached := c.sports[key]
	c.mu.RUnlock()
	if cached.freshAt(c.now(), c.ttl) {
		return cached.matches, nil
	}
	if c.gateway == nil {
		return nil, providers.ErrProviderUnavailable
	}

	start := time.Now()
	matches, err := c.gateway.Schedule(ctx, domain.ScheduleFilter{Sport: key})
	c.metrics.RecordCacheRefresh(key, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.Match{}
	}

	c.mu.Lock()
	c.sports[key] = entry{matches: matches, filledAt: c.now()}
	c.mu.Unlock()
	return matches, nil
}

func cloneMatches(in []domain.Match) []domain.Match {
	out := make([]domain.Match, len(in))
	copy(out, in)
	return out
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
