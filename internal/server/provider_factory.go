package server

import (
	"log/slog"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/config"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers/sportsapi"
)

// providerFactory assembles the gateway with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.Gateway {
	base := selectProvider(cfg, f.logger)
	gateway := base
	// Only the remote API has a quota to respect.
	if _, remote := base.(*sportsapi.Client); remote {
		gateway = providers.NewRateLimitedGateway(base, cfg.SportsAPI.MinInterval, f.logger)
	}
	return providers.NewRetryingGateway(gateway, f.logger, f.metrics, normalizeProviderName(cfg.Provider, base), 0, 0)
}
