package config

// CacheConfig controls the shared match cache and its background warmer.
type CacheConfig struct {
	TTL            Duration
	RefreshTimeout Duration
	WarmEnabled    bool
	Concurrency    int
}

func loadCache() CacheConfig {
	return CacheConfig{
		TTL:            durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		RefreshTimeout: durationEnvOrDefault(envCacheTimeout, defaultCacheTimeout),
		WarmEnabled:    boolEnvOrDefault(envCacheWarm, defaultCacheWarm),
		Concurrency:    intEnvOrDefault(envCacheFanout, defaultCacheFanout),
	}
}
