package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

// rateLimitedGateway wraps a Gateway and enforces a minimum interval between upstream calls.
type rateLimitedGateway struct {
	next      Gateway
	interval  time.Duration
	ticker    *time.Ticker
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewRateLimitedGateway returns a Gateway that spaces calls by the given interval.
// Calls block until the next tick to avoid exceeding upstream quotas.
func NewRateLimitedGateway(next Gateway, interval time.Duration, logger *slog.Logger) Gateway {
	if interval <= 0 {
		interval = time.Minute
	}
	return &rateLimitedGateway{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedGateway) SportsList(ctx context.Context) (domain.SportsList, error) {
	if err := p.wait(ctx, OpSportsList); err != nil {
		return nil, err
	}
	return p.next.SportsList(ctx)
}

func (p *rateLimitedGateway) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	if err := p.wait(ctx, OpSchedule); err != nil {
		return nil, err
	}
	return p.next.Schedule(ctx, filter)
}

func (p *rateLimitedGateway) GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	if err := p.wait(ctx, OpGlobalEvents); err != nil {
		return nil, err
	}
	return p.next.GlobalEvents(ctx, filter)
}

// Close stops the ticker; the gateway must not be used afterwards.
func (p *rateLimitedGateway) Close() {
	p.closeOnce.Do(func() {
		p.ticker.Stop()
		if c, ok := p.next.(interface{ Close() }); ok {
			c.Close()
		}
	})
}

func (p *rateLimitedGateway) wait(ctx context.Context, op string) error {
	if p == nil || p.next == nil {
		logWithProvider(ctx, p.loggerOrNil(), slog.LevelWarn, "rate-limited", "provider unavailable")
		return ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled", "op", op)
		return ctx.Err()
	case <-p.ticker.C:
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited provider fetch", "op", op)
	return nil
}

func (p *rateLimitedGateway) loggerOrNil() *slog.Logger {
	if p == nil {
		return nil
	}
	return p.logger
}
