package providers

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingGateway wraps a Gateway with retry/backoff behavior and provider metrics.
type retryingGateway struct {
	inner        Gateway
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingGateway wraps the given gateway with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingGateway(inner Gateway, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, backoff time.Duration) Gateway {
	return NewRetryingGatewayWithRNG(inner, logger, recorder, providerName, nil, maxAttempts, backoff)
}

// NewRetryingGatewayWithRNG is NewRetryingGateway with a caller-supplied jitter source.
func NewRetryingGatewayWithRNG(inner Gateway, logger *slog.Logger, recorder *metrics.Recorder, providerName string, rng *rand.Rand, maxAttempts int, backoff time.Duration) Gateway {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if providerName == "" {
		providerName = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingGateway{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		rng:          rng,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingGateway) SportsList(ctx context.Context) (domain.SportsList, error) {
	return withRetry(ctx, r, OpSportsList, func(ctx context.Context) (domain.SportsList, error) {
		return r.inner.SportsList(ctx)
	})
}

func (r *retryingGateway) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	return withRetry(ctx, r, OpSchedule, func(ctx context.Context) ([]domain.Match, error) {
		return r.inner.Schedule(ctx, filter)
	}, slog.String(logging.FieldSport, filter.Sport))
}

func (r *retryingGateway) GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	return withRetry(ctx, r, OpGlobalEvents, func(ctx context.Context) ([]domain.Event, error) {
		return r.inner.GlobalEvents(ctx, filter)
	})
}

// Close releases resources held by the wrapped gateway (e.g. rate limiter tickers).
func (r *retryingGateway) Close() {
	if c, ok := r.inner.(interface{ Close() }); ok {
		c.Close()
	}
}

func withRetry[T any](ctx context.Context, r *retryingGateway, op string, call func(context.Context) (T, error), attrs ...any) (T, error) {
	var zero T
	if r == nil || r.inner == nil {
		return zero, ErrProviderUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		result, err := call(ctx)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if ctx.Err() != nil || attempt == r.maxAttempts {
			break
		}

		delay := r.computeDelay(err, attempt)
		r.log(ctx, slog.LevelWarn, "provider fetch retry", append(attrs,
			"op", op,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)...)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, Wrap(r.providerName, op, ctx.Err())
		case <-timer.C:
		}
	}

	r.log(ctx, slog.LevelWarn, "provider fetch failed", append(attrs,
		"op", op,
		"attempts", r.maxAttempts,
		"error", lastErr,
	)...)
	return zero, Wrap(r.providerName, op, lastErr)
}

// computeDelay honors Retry-After from rate limit errors, else jitters the backoff into [base/2, base].
func (r *retryingGateway) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}

func (r *retryingGateway) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logWithProvider(ctx, logging.FromContext(ctx, r.logger), level, r.providerName, msg, args...)
}
