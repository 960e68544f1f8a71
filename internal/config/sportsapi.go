package config

// SportsAPIConfig controls how we talk to the upstream sports data API.
type SportsAPIConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     Duration
	MinInterval Duration
}

func loadSportsAPI() SportsAPIConfig {
	return SportsAPIConfig{
		BaseURL:     envOrDefault(envAPIBaseURL, defaultAPIBaseURL),
		APIKey:      envOrDefault(envAPIKey, ""),
		Timeout:     durationEnvOrDefault(envAPITimeout, defaultAPITimeout),
		MinInterval: durationEnvOrDefault(envMinInterval, defaultMinInterval),
	}
}
