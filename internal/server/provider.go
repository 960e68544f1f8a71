package server

import (
	"log/slog"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/config"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers/mock"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers/sportsapi"
)

// selectProvider returns the base gateway. The upstream API needs a key; without one the
// mock data set is served instead.
func selectProvider(cfg config.Config, logger *slog.Logger) providers.Gateway {
	switch cfg.Provider {
	case mock.ProviderName, "":
		return mock.New()
	case sportsapi.ProviderName:
		if cfg.SportsAPI.APIKey == "" {
			logging.Warn(logger, "no sports API key configured, serving mock data")
			return mock.New()
		}
		return sportsapi.NewClient(sportsapi.Config{
			BaseURL: cfg.SportsAPI.BaseURL,
			APIKey:  cfg.SportsAPI.APIKey,
			Timeout: cfg.SportsAPI.Timeout,
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to mock", slog.String(logging.FieldProvider, cfg.Provider))
		return mock.New()
	}
}
