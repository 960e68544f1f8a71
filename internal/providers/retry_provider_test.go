package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/teststubs"
)

// flakeyGateway fails the first N schedule calls.
type flakeyGateway struct {
	teststubs.StubGateway
	failures int32
	calls    atomic.Int32
	failWith error
}

func (f *flakeyGateway) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	_ = ctx
	n := f.calls.Add(1)
	if n <= f.failures {
		if f.failWith != nil {
			return nil, f.failWith
		}
		return nil, errors.New("boom")
	}
	return []domain.Match{{ID: "ok", Sport: filter.Sport}}, nil
}

func TestRetryingGatewayRetriesAndSucceeds(t *testing.T) {
	fp := &flakeyGateway{failures: 2}
	rp := NewRetryingGateway(fp, slog.Default(), metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	matches, err := rp.Schedule(context.Background(), domain.ScheduleFilter{Sport: "soccer"})
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "ok" {
		t.Fatalf("unexpected matches %+v", matches)
	}
	if fp.calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls.Load())
	}
}

func TestRetryingGatewayStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyGateway{failures: 5}
	rp := NewRetryingGateway(fp, nil, metrics.NewRecorder(), "flakey", 2, time.Millisecond)

	_, err := rp.Schedule(context.Background(), domain.ScheduleFilter{Sport: "soccer"})
	if err == nil {
		t.Fatal("expected error after retries")
	}
	pe, ok := AsProviderError(err)
	if !ok || pe.Provider != "flakey" || pe.Op != OpSchedule {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if fp.calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls.Load())
	}
}

func TestRetryingGatewayRespectsContextCancel(t *testing.T) {
	fp := &flakeyGateway{failures: 5}
	rp := NewRetryingGateway(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rp.Schedule(ctx, domain.ScheduleFilter{Sport: "soccer"})
	if err == nil {
		t.Fatal("expected context error")
	}
	if fp.calls.Load() != 1 {
		t.Fatalf("expected no retries after cancellation, got %d calls", fp.calls.Load())
	}
}

func TestRetryingGatewayUsesCustomBackoff(t *testing.T) {
	fp := &flakeyGateway{failures: 1}
	rp := NewRetryingGateway(fp, nil, metrics.NewRecorder(), "flakey", 2, time.Hour).(*retryingGateway)

	calls := 0
	rp.backoffFn = func(attempt int) time.Duration {
		calls++
		return 0
	}

	_, _ = rp.Schedule(context.Background(), domain.ScheduleFilter{Sport: "soccer"})

	if calls == 0 {
		t.Fatalf("expected custom backoff to be invoked")
	}
}

func TestRetryingGatewayRecordsRateLimitMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	fp := &flakeyGateway{failures: 1, failWith: &RateLimitError{StatusCode: 429, RetryAfter: time.Millisecond}}
	rp := NewRetryingGateway(fp, nil, rec, "rl", 2, time.Millisecond).(*retryingGateway)

	matches, err := rp.Schedule(context.Background(), domain.ScheduleFilter{Sport: "soccer"})
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("unexpected matches %+v", matches)
	}
	if got := rec.RateLimitHits(rp.providerName); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", got)
	}
	if got := rec.ProviderCalls(rp.providerName); got != 2 {
		t.Fatalf("expected 2 provider calls, got %d", got)
	}
	if got := rec.ProviderErrors(rp.providerName); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestRetryingGatewayDelaySelection(t *testing.T) {
	rp := NewRetryingGatewayWithRNG(&flakeyGateway{}, nil, metrics.NewRecorder(), "rl", rand.New(rand.NewSource(1)), 2, time.Millisecond).(*retryingGateway)
	rp.backoffFn = func(attempt int) time.Duration {
		_ = attempt
		return 50 * time.Millisecond
	}

	tests := []struct {
		name string
		err  error
	}{
		{name: "rate_limit_uses_retry_after", err: &RateLimitError{RetryAfter: 3 * time.Second}},
		{name: "generic_error_uses_backoff_with_jitter", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay := rp.computeDelay(tt.err, 1)
			if rlErr, ok := tt.err.(*RateLimitError); ok {
				if delay != rlErr.RetryAfter {
					t.Fatalf("expected retry-after delay %s, got %s", rlErr.RetryAfter, delay)
				}
				return
			}
			if delay < 25*time.Millisecond || delay > 50*time.Millisecond {
				t.Fatalf("expected jittered delay between 25ms and 50ms, got %s", delay)
			}
		})
	}
}

func TestRetryingGatewayPassesThroughSportsAndEvents(t *testing.T) {
	stub := &teststubs.StubGateway{
		Sports: domain.SportsList{"soccer": {Name: "Soccer"}},
		Events: []domain.Event{{ID: "e1"}},
	}
	rp := NewRetryingGateway(stub, nil, nil, "stub", 0, 0)

	sports, err := rp.SportsList(context.Background())
	if err != nil || len(sports) != 1 {
		t.Fatalf("unexpected sports %+v, %v", sports, err)
	}
	events, err := rp.GlobalEvents(context.Background(), domain.EventFilter{Year: "2024"})
	if err != nil || len(events) != 1 {
		t.Fatalf("unexpected events %+v, %v", events, err)
	}
}

func TestNewRetryingGatewayDefaults(t *testing.T) {
	rp := NewRetryingGatewayWithRNG(nil, nil, metrics.NewRecorder(), "", nil, 0, 0).(*retryingGateway)
	if rp.providerName != "provider" {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	if rp.backoffFn(1) != defaultBackoff {
		t.Fatalf("expected default backoff")
	}
	if _, err := rp.SportsList(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable for nil inner, got %v", err)
	}
}
