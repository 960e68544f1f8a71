package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/teststubs"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/testutil"
)

func newStub() *teststubs.StubGateway {
	return &teststubs.StubGateway{
		Sports: domain.SportsList{
			"soccer": {Name: "Soccer"},
			"tennis": {Name: "Tennis"},
		},
		Matches: map[string][]domain.Match{
			"soccer": {{ID: "s1", Sport: "soccer"}, {ID: "s2", Sport: "soccer"}},
			"tennis": {{ID: "t1", Sport: "tennis"}},
		},
	}
}

func newCache(g providers.Gateway, rec *metrics.Recorder) (*MatchCache, *testutil.Clock) {
	clk := testutil.NewClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	c := New(g, Config{}, nil, rec)
	c.now = clk.Now
	return c, clk
}

func ids(matches []domain.Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}

func TestAllFillsInSportKeyOrder(t *testing.T) {
	c, _ := newCache(newStub(), nil)

	matches, err := c.All(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := ids(matches)
	if len(got) != 3 || got[0] != "s1" || got[1] != "s2" || got[2] != "t1" {
		t.Fatalf("unexpected matches %v", got)
	}
	if c.FilledAt().IsZero() {
		t.Fatal("expected filledAt set")
	}
}

func TestAllHonorsTTLBoundary(t *testing.T) {
	stub := newStub()
	c, clk := newCache(stub, nil)
	filledAt := clk.Now()

	if _, err := c.All(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	clk.Set(filledAt.Add(299999 * time.Millisecond))
	if _, err := c.All(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stub.SportsCalls.Load() != 1 {
		t.Fatalf("expected cached set just before ttl, got %d sports calls", stub.SportsCalls.Load())
	}

	clk.Set(filledAt.Add(300001 * time.Millisecond))
	if _, err := c.All(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stub.SportsCalls.Load() != 2 {
		t.Fatalf("expected refetch just after ttl, got %d sports calls", stub.SportsCalls.Load())
	}
}

func TestAllSkipsFailedSports(t *testing.T) {
	stub := newStub()
	stub.ScheduleErrs = map[string]error{"tennis": errors.New("upstream down")}
	c, _ := newCache(stub, nil)

	matches, err := c.All(context.Background())
	if err != nil {
		t.Fatalf("expected partial results without error, got %v", err)
	}
	if got := ids(matches); len(got) != 2 || got[0] != "s1" {
		t.Fatalf("expected soccer matches only, got %v", got)
	}
}

func TestAllReturnsSportsListError(t *testing.T) {
	stub := newStub()
	stub.SportsErr = errors.New("boom")
	rec := metrics.NewRecorder()
	c, _ := newCache(stub, rec)

	if _, err := c.All(context.Background()); err == nil {
		t.Fatal("expected sports list error")
	}
	if snap := rec.Cache(ScopeAll); snap.Failures != 1 || snap.Misses != 1 {
		t.Fatalf("unexpected cache stats %+v", snap)
	}
}

func TestAllRecordsHitsAndMisses(t *testing.T) {
	rec := metrics.NewRecorder()
	c, _ := newCache(newStub(), rec)

	_, _ = c.All(context.Background())
	_, _ = c.All(context.Background())

	snap := rec.Cache(ScopeAll)
	if snap.Misses != 1 || snap.Hits != 1 || snap.Refreshes != 1 {
		t.Fatalf("unexpected cache stats %+v", snap)
	}
}

func TestAllSharesOneFetchAcrossConcurrentCallers(t *testing.T) {
	stub := newStub()
	stub.Gate = make(chan struct{})
	c, _ := newCache(stub, nil)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches, err := c.All(context.Background())
			if err == nil && len(matches) != 3 {
				err = errors.New("unexpected match count")
			}
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(stub.Gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected caller error %v", err)
		}
	}
	if stub.SportsCalls.Load() != 1 {
		t.Fatalf("expected one shared upstream refill, got %d", stub.SportsCalls.Load())
	}
	if stub.ScheduleCalls.Load() != 2 {
		t.Fatalf("expected one schedule call per sport, got %d", stub.ScheduleCalls.Load())
	}
}

func TestSharedFetchSurvivesCallerCancellation(t *testing.T) {
	stub := newStub()
	stub.Gate = make(chan struct{})
	stub.Notify = make(chan struct{})
	c, _ := newCache(stub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.All(ctx)
		done <- err
	}()

	<-stub.Notify
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected caller to observe cancellation, got %v", err)
	}

	close(stub.Gate)
	matches, err := c.All(context.Background())
	if err != nil || len(matches) != 3 {
		t.Fatalf("expected refill to complete, got %v, %v", ids(matches), err)
	}
	if stub.SportsCalls.Load() != 1 {
		t.Fatalf("expected the in-flight refill to be reused, got %d sports calls", stub.SportsCalls.Load())
	}
}

func TestForSportsReusesEntriesFilledByAll(t *testing.T) {
	stub := newStub()
	c, _ := newCache(stub, nil)

	if _, err := c.All(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	before := stub.ScheduleCalls.Load()

	matches, err := c.ForSports(context.Background(), []string{"tennis", "soccer", "tennis"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(matches); len(got) != 3 || got[0] != "t1" || got[1] != "s1" {
		t.Fatalf("expected request order with duplicates removed, got %v", got)
	}
	if stub.ScheduleCalls.Load() != before {
		t.Fatalf("expected no upstream calls for fresh sports, got %d new", stub.ScheduleCalls.Load()-before)
	}
}

func TestForSportsRefillsStaleSportsWithSameTTL(t *testing.T) {
	stub := newStub()
	c, clk := newCache(stub, nil)
	start := clk.Now()

	if _, err := c.ForSports(context.Background(), []string{"soccer"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	clk.Set(start.Add(299999 * time.Millisecond))
	_, _ = c.ForSports(context.Background(), []string{"soccer"})
	if stub.ScheduleCalls.Load() != 1 {
		t.Fatalf("expected cached sport before ttl, got %d calls", stub.ScheduleCalls.Load())
	}

	clk.Set(start.Add(300001 * time.Millisecond))
	_, _ = c.ForSports(context.Background(), []string{"soccer"})
	if stub.ScheduleCalls.Load() != 2 {
		t.Fatalf("expected refill after ttl, got %d calls", stub.ScheduleCalls.Load())
	}
	if stub.SportsCalls.Load() != 0 {
		t.Fatalf("expected sport-filtered reads to skip the sports list, got %d", stub.SportsCalls.Load())
	}
}

func TestForSportsSkipsFailingSport(t *testing.T) {
	stub := newStub()
	stub.ScheduleErrs = map[string]error{"soccer": errors.New("boom")}
	c, _ := newCache(stub, nil)

	matches, err := c.ForSports(context.Background(), []string{"soccer", "tennis"})
	if err != nil {
		t.Fatalf("expected failures to be skipped, got %v", err)
	}
	if got := ids(matches); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("expected tennis only, got %v", got)
	}
}

func TestForSportsEmptyReturnsEmptySlice(t *testing.T) {
	c, _ := newCache(newStub(), nil)
	matches, err := c.ForSports(context.Background(), nil)
	if err != nil || matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v, %v", matches, err)
	}
}

func TestRefreshForcesRefill(t *testing.T) {
	stub := newStub()
	c, _ := newCache(stub, nil)

	_, _ = c.All(context.Background())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stub.SportsCalls.Load() != 2 {
		t.Fatalf("expected forced refill, got %d sports calls", stub.SportsCalls.Load())
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	c, _ := newCache(newStub(), nil)
	first, _ := c.All(context.Background())
	first[0].ID = "mutated"

	second, _ := c.All(context.Background())
	if second[0].ID != "s1" {
		t.Fatalf("expected cached entries untouched, got %s", second[0].ID)
	}
}

func TestNilGatewayIsUnavailable(t *testing.T) {
	c, _ := newCache(nil, nil)
	if _, err := c.All(context.Background()); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(nil, Config{}, nil, nil)
	if c.TTL() != DefaultTTL || c.refreshTimeout != DefaultRefreshTimeout || c.concurrency != DefaultConcurrency {
		t.Fatalf("unexpected defaults ttl=%s timeout=%s concurrency=%d", c.TTL(), c.refreshTimeout, c.concurrency)
	}
}
