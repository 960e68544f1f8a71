package config

import "github.com/joho/godotenv"

// loadDotenv is swapped in tests so a stray .env file cannot leak into assertions.
var loadDotenv = func() { _ = godotenv.Load() }

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	PollInterval Duration
	Provider     string
	SportsAPI    SportsAPIConfig
	Cache        CacheConfig
	CORSOrigins  []string
	AdminToken   string
	Metrics      MetricsConfig
}

// Load reads configuration from environment variables (and an optional .env file) with sensible defaults.
func Load() Config {
	loadDotenv()
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Provider:     envOrDefault(envProvider, defaultProvider),
		SportsAPI:    loadSportsAPI(),
		Cache:        loadCache(),
		CORSOrigins:  listEnvOrDefault(envCORSOrigins, []string{defaultCORSOrigin}),
		AdminToken:   envOrDefault(envAdminToken, ""),
		Metrics:      loadMetrics(),
	}
}
