package config

import "time"

const (
	envPort         = "PORT"
	envPollInterval = "POLL_INTERVAL"
	envProvider     = "SPORTS_API_PROVIDER"
	envAPIBaseURL   = "SPORTS_API_BASE_URL"
	envAPIKey       = "SPORTS_API_KEY"
	envAPITimeout   = "SPORTS_API_TIMEOUT"
	envMinInterval  = "PROVIDER_MIN_INTERVAL"
	envCacheTTL     = "MATCH_CACHE_TTL"
	envCacheTimeout = "CACHE_REFRESH_TIMEOUT"
	envCacheWarm    = "CACHE_WARM_ENABLED"
	envCacheFanout  = "CACHE_REFRESH_CONCURRENCY"
	envCORSOrigins  = "CORS_ALLOWED_ORIGINS"
	envAdminToken   = "ADMIN_TOKEN"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "3000"
	// Warm the match cache a little faster than it expires so readers rarely hit a stale entry.
	defaultPollInterval = 4 * Duration(time.Minute)
	defaultProvider     = "mock"
	defaultAPIBaseURL   = "https://api.sportsdata.example/v1"
	defaultAPITimeout   = 10 * Duration(time.Second)
	// Spacing between upstream calls for the HTTP provider; the mock provider is never limited.
	defaultMinInterval  = 200 * Duration(time.Millisecond)
	defaultCacheTTL     = 5 * Duration(time.Minute)
	defaultCacheTimeout = 20 * Duration(time.Second)
	defaultCacheWarm    = true
	defaultCacheFanout  = 4
	defaultCORSOrigin   = "*"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "sports-hub"
)
