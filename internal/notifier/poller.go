package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/timeutil"
)

const (
	DefaultInterval      = 60 * time.Second
	DefaultWindowMinutes = 120
)

// State is the lifecycle of the client poller.
type State string

const (
	StateIdle    State = "idle"
	StatePolling State = "polling"
)

// Source returns matches starting within the next windowMinutes.
type Source interface {
	Upcoming(ctx context.Context, sports, teams []string, windowMinutes int) ([]domain.Match, error)
}

// Subscription is the set of sports and teams the user follows.
type Subscription struct {
	Sports []string
	Teams  []string
}

// Config tunes the poller. Zero values take the defaults.
type Config struct {
	Interval      time.Duration
	WindowMinutes int
	Retention     time.Duration
	Location      *time.Location
}

// Status is a point-in-time view of the poller.
type Status struct {
	State        State
	Subscription Subscription
	Polls        int
	LastPoll     time.Time
	LastError    string
	Notified     int
}

// Poller queries the backend on an interval and notifies each upcoming match once.
type Poller struct {
	source    Source
	notifier  Notifier
	set       *NotifiedSet
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	window    int
	retention time.Duration
	loc       *time.Location
	now       func() time.Time

	// runMu serialises Start and Stop so at most one session is active.
	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	status Status
}

// New constructs a Poller. A nil set keeps notified ids in memory only.
func New(source Source, n Notifier, set *NotifiedSet, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.WindowMinutes <= 0 {
		cfg.WindowMinutes = DefaultWindowMinutes
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if set == nil {
		set = NewNotifiedSet(nil)
	}
	return &Poller{
		source:    source,
		notifier:  n,
		set:       set,
		logger:    logger,
		metrics:   recorder,
		interval:  cfg.Interval,
		window:    cfg.WindowMinutes,
		retention: cfg.Retention,
		loc:       cfg.Location,
		now:       time.Now,
		status:    Status{State: StateIdle},
	}
}

// Start begins a polling session for sub: one immediate query, then one per interval.
// Any running session is cancelled and waited for first.
func (p *Poller) Start(ctx context.Context, sub Subscription) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	p.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	sub = Subscription{
		Sports: append([]string(nil), sub.Sports...),
		Teams:  append([]string(nil), sub.Teams...),
	}
	p.mu.Lock()
	p.status.State = StatePolling
	p.status.Subscription = sub
	p.mu.Unlock()

	logging.Info(p.logger, "notification polling started",
		slog.Any("sports", sub.Sports),
		slog.Any("teams", sub.Teams),
		slog.Duration("interval", p.interval),
	)

	go p.loop(runCtx, sub, done)
}

// Stop cancels the running session and waits for it to exit. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil

	p.mu.Lock()
	p.status.State = StateIdle
	p.mu.Unlock()
}

// Wait blocks until the current session ends or ctx is done.
func (p *Poller) Wait(ctx context.Context) error {
	p.runMu.Lock()
	done := p.done
	p.runMu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) loop(ctx context.Context, sub Subscription, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx, sub)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx, sub)
		}
	}
}

// Poll runs one query and notification step. Failures are logged and recorded, never returned.
func (p *Poller) Poll(ctx context.Context, sub Subscription) {
	start := p.now()
	if removed, err := p.set.Prune(ctx, start, p.retention); err != nil {
		logging.Warn(p.logger, "prune notified ids failed", slog.Any("err", err))
	} else if removed > 0 {
		logging.Debug(p.logger, "pruned notified ids", slog.Int(logging.FieldCount, removed))
	}

	matches, err := p.source.Upcoming(ctx, sub.Sports, sub.Teams, p.window)
	p.metrics.RecordPollerCycle(time.Since(start), err)

	p.mu.Lock()
	p.status.Polls++
	p.status.LastPoll = start
	if err != nil {
		p.status.LastError = err.Error()
	} else {
		p.status.LastError = ""
	}
	p.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			logging.Warn(p.logger, "upcoming query failed", slog.Any("err", err))
		}
		return
	}
	p.Process(ctx, matches)
}

// Process notifies every match whose id is not yet in the notified set and records it
// immediately after delivery. It returns how many notifications were delivered.
func (p *Poller) Process(ctx context.Context, matches []domain.Match) int {
	delivered := 0
	for _, m := range matches {
		if m.ID == "" || p.set.Has(m.ID) {
			continue
		}
		if err := p.notifier.Notify(ctx, Format(m, p.loc)); err != nil {
			logging.Warn(p.logger, "notification failed",
				slog.String(logging.FieldMatchID, m.ID),
				slog.Any("err", err),
			)
			continue
		}
		delivered++

		startAt, err := timeutil.ParseInstant(m.StartTimeUTC)
		if err != nil {
			startAt = p.now()
		}
		if err := p.set.Add(ctx, m.ID, startAt); err != nil {
			logging.Warn(p.logger, "persist notified id failed",
				slog.String(logging.FieldMatchID, m.ID),
				slog.Any("err", err),
			)
		}
		logging.Debug(p.logger, "match notified",
			slog.String(logging.FieldMatchID, m.ID),
			slog.String(logging.FieldNotifier, p.notifier.Name()),
		)
	}
	return delivered
}

// Status returns a snapshot of the poller.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := p.status
	st.Subscription = Subscription{
		Sports: append([]string(nil), st.Subscription.Sports...),
		Teams:  append([]string(nil), st.Subscription.Teams...),
	}
	st.Notified = p.set.Len()
	return st
}
