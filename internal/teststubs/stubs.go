package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

// StubGateway is a test double for providers.Gateway.
// Matches are served per sport; ScheduleErrs fails individual sports.
type StubGateway struct {
	Sports       domain.SportsList
	Matches      map[string][]domain.Match // keyed by sport
	Events       []domain.Event
	SportsErr    error
	ScheduleErrs map[string]error
	EventsErr    error

	// Gate, when set, blocks Schedule calls until it is closed.
	Gate chan struct{}
	// Notify is closed on the first call of any method.
	Notify chan struct{}

	SportsCalls   atomic.Int32
	ScheduleCalls atomic.Int32
	EventCalls    atomic.Int32

	mu         sync.Mutex
	filters    []domain.ScheduleFilter
	notifyOnce sync.Once
}

// SportsList returns the configured sports list.
func (s *StubGateway) SportsList(ctx context.Context) (domain.SportsList, error) {
	_ = ctx
	s.notify()
	s.SportsCalls.Add(1)
	if s.SportsErr != nil {
		return nil, s.SportsErr
	}
	return s.Sports, nil
}

// Schedule returns the configured matches for the filter's sport.
func (s *StubGateway) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	s.notify()
	s.ScheduleCalls.Add(1)
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	s.mu.Unlock()

	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.ScheduleErrs[filter.Sport]; err != nil {
		return nil, err
	}
	return append([]domain.Match(nil), s.Matches[filter.Sport]...), nil
}

// GlobalEvents returns the configured events.
func (s *StubGateway) GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	_ = ctx
	_ = filter
	s.notify()
	s.EventCalls.Add(1)
	if s.EventsErr != nil {
		return nil, s.EventsErr
	}
	return s.Events, nil
}

// Filters returns the schedule filters received so far.
func (s *StubGateway) Filters() []domain.ScheduleFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ScheduleFilter(nil), s.filters...)
}

func (s *StubGateway) notify() {
	if s.Notify == nil {
		return
	}
	s.notifyOnce.Do(func() { close(s.Notify) })
}

// StubUpcomingSource is a test double for the notifier's upcoming-match source.
type StubUpcomingSource struct {
	mu      sync.Mutex
	Results [][]domain.Match // served in order; the last entry repeats
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}
	queries []UpcomingCall
}

// UpcomingCall records the arguments of one Upcoming call.
type UpcomingCall struct {
	Sports        []string
	Teams         []string
	WindowMinutes int
}

// Upcoming returns the next configured result set.
func (s *StubUpcomingSource) Upcoming(ctx context.Context, sports, teams []string, windowMinutes int) ([]domain.Match, error) {
	_ = ctx
	n := int(s.Calls.Add(1))
	s.mu.Lock()
	s.queries = append(s.queries, UpcomingCall{Sports: sports, Teams: teams, WindowMinutes: windowMinutes})
	var out []domain.Match
	if len(s.Results) > 0 {
		idx := n - 1
		if idx >= len(s.Results) {
			idx = len(s.Results) - 1
		}
		out = s.Results[idx]
	}
	s.mu.Unlock()

	if s.Notify != nil {
		select {
		case s.Notify <- struct{}{}:
		default:
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return out, nil
}

// Queries returns the calls seen so far.
func (s *StubUpcomingSource) Queries() []UpcomingCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UpcomingCall(nil), s.queries...)
}
