package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits      int
	misses    int
	refreshes int
	failures  int
}

// Recorder captures in-memory counters for provider, cache and notification activity
// and forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu            sync.Mutex
	stats         map[string]*providerStats
	cache         map[string]*cacheStats
	notifications map[string]int
	otel          *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:         make(map[string]*providerStats),
		cache:         make(map[string]*cacheStats),
		notifications: make(map[string]int),
		otel:          otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordCacheLookup counts a match cache read for the given scope ("all" or a sport key).
func (r *Recorder) RecordCacheLookup(scope string, hit bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureCacheLocked(scope)
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheLookup(scope, hit)
	}
}

// RecordCacheRefresh tracks an upstream refill of the match cache.
func (r *Recorder) RecordCacheRefresh(scope string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureCacheLocked(scope)
	stats.refreshes++
	if err != nil {
		stats.failures++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheRefresh(scope, duration, err)
	}
}

// CacheSnapshot is a copy of the cache counters for one scope.
type CacheSnapshot struct {
	Hits      int
	Misses    int
	Refreshes int
	Failures  int
}

// Cache returns the cache counters recorded for a scope.
func (r *Recorder) Cache(scope string) CacheSnapshot {
	if r == nil {
		return CacheSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.cache[scope]
	if !ok {
		return CacheSnapshot{}
	}
	return CacheSnapshot{Hits: stats.hits, Misses: stats.misses, Refreshes: stats.refreshes, Failures: stats.failures}
}

// RecordNotification counts a notification delivered through the named notifier.
func (r *Recorder) RecordNotification(notifier string, err error) {
	if r == nil {
		return
	}
	if err == nil {
		r.mu.Lock()
		r.notifications[notifier]++
		r.mu.Unlock()
	}
	if r.otel != nil {
		r.otel.recordNotification(notifier, err)
	}
}

// Notifications returns how many notifications were delivered through the named notifier.
func (r *Recorder) Notifications(notifier string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifications[notifier]
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

func (r *Recorder) ensureStats(provider string) *providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) ensureCacheLocked(scope string) *cacheStats {
	stats, ok := r.cache[scope]
	if !ok {
		stats = &cacheStats{}
		r.cache[scope] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}
