// Package mock serves deterministic sports data relative to the current time.
// It is the default gateway when no upstream API key is configured.
package mock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/timeutil"
)

// ProviderName identifies the mock gateway in logs and metrics.
const ProviderName = "mock"

// ErrUnknownSport is returned for schedule requests on a sport the mock does not know.
var ErrUnknownSport = errors.New("unknown sport")

type fixtureMatch struct {
	home, away string
	location   string
	offset     time.Duration // start relative to now
}

type fixtureEvent struct {
	id, name, sport, location string
	start, end                string
}

var sports = domain.SportsList{
	"soccer":     {Name: "Soccer", Teams: []string{"Arsenal", "Chelsea", "Liverpool", "Manchester City"}},
	"basketball": {Name: "Basketball", Teams: []string{"Lakers", "Celtics", "Warriors", "Heat"}},
	"cricket":    {Name: "Cricket", Teams: []string{"India", "Australia", "England", "New Zealand"}},
	"tennis":     {Name: "Tennis", Teams: []string{"Alcaraz", "Sinner", "Djokovic", "Medvedev"}},
}

var schedules = map[string][]fixtureMatch{
	"soccer": {
		{home: "Arsenal", away: "Chelsea", location: "Emirates Stadium, London", offset: -3 * time.Hour},
		{home: "Liverpool", away: "Manchester City", location: "Anfield, Liverpool", offset: -30 * time.Minute},
		{home: "Chelsea", away: "Liverpool", location: "Stamford Bridge, London", offset: 45 * time.Minute},
		{home: "Manchester City", away: "Arsenal", location: "Etihad Stadium, Manchester", offset: 26 * time.Hour},
	},
	"basketball": {
		{home: "Lakers", away: "Celtics", location: "Crypto.com Arena, Los Angeles", offset: -20 * time.Hour},
		{home: "Warriors", away: "Heat", location: "Chase Center, San Francisco", offset: 90 * time.Minute},
		{home: "Celtics", away: "Warriors", location: "TD Garden, Boston", offset: 5 * time.Hour},
	},
	"cricket": {
		{home: "India", away: "Australia", location: "Wankhede Stadium, Mumbai", offset: -2 * time.Hour},
		{home: "England", away: "New Zealand", location: "Lord's, London", offset: 100 * time.Minute},
		{home: "Australia", away: "England", location: "MCG, Melbourne", offset: 50 * time.Hour},
	},
	"tennis": {
		{home: "Alcaraz", away: "Sinner", location: "Centre Court, Wimbledon", offset: 30 * time.Minute},
		{home: "Djokovic", away: "Medvedev", location: "Court Philippe-Chatrier, Paris", offset: -26 * time.Hour},
	},
}

// liveWindow is how long after kickoff a mock match still reports as live.
const liveWindow = 2 * time.Hour

var events = []fixtureEvent{
	{id: "evt-afcon-2025", name: "Africa Cup of Nations", sport: "soccer", location: "Morocco", start: "2025-12-21T00:00:00Z", end: "2026-01-18T23:59:59Z"},
	{id: "evt-wc-2026", name: "FIFA World Cup", sport: "soccer", location: "United States, Canada, Mexico", start: "2026-06-11T00:00:00Z", end: "2026-07-19T23:59:59Z"},
	{id: "evt-t20-2026", name: "ICC Men's T20 World Cup", sport: "cricket", location: "India, Sri Lanka", start: "2026-02-07T00:00:00Z", end: "2026-03-08T23:59:59Z"},
	{id: "evt-wimbledon-2026", name: "Wimbledon Championships", sport: "tennis", location: "London", start: "2026-06-29T00:00:00Z", end: "2026-07-12T23:59:59Z"},
	{id: "evt-nba-finals-2026", name: "NBA Finals", sport: "basketball", location: "United States", start: "2026-06-04T00:00:00Z", end: "2026-06-21T23:59:59Z"},
	{id: "evt-olympics-2028", name: "Summer Olympic Games", location: "Los Angeles", start: "2028-07-14T00:00:00Z", end: "2028-07-30T23:59:59Z"},
}

// Provider returns a static data set useful for local development and demos.
type Provider struct {
	now func() time.Time
}

// New creates a mock provider with a time source.
func New() *Provider {
	return &Provider{now: time.Now}
}

// NewWithClock creates a mock provider pinned to the given clock.
func NewWithClock(now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{now: now}
}

// SportsList returns the fixed sports and teams.
func (p *Provider) SportsList(ctx context.Context) (domain.SportsList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(domain.SportsList, len(sports))
	for key, s := range sports {
		out[key] = domain.Sport{Name: s.Name, Teams: append([]string(nil), s.Teams...)}
	}
	return out, nil
}

// Schedule returns the sport's matches with start times relative to now, filtered by team and day.
func (p *Provider) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fixtures, ok := schedules[filter.Sport]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSport, filter.Sport)
	}

	now := p.now().UTC().Truncate(time.Minute)
	out := make([]domain.Match, 0, len(fixtures))
	for i, f := range fixtures {
		start := now.Add(f.offset)
		m := domain.Match{
			ID:           filter.Sport + "-" + strconv.Itoa(i+1),
			Sport:        filter.Sport,
			HomeTeam:     f.home,
			AwayTeam:     f.away,
			Location:     f.location,
			StartTimeUTC: start.Format(time.RFC3339),
			Status:       statusAt(now, start, start.Add(liveWindow)),
		}
		if filter.Team != "" && !m.Involves(filter.Team) {
			continue
		}
		if filter.Date != "" && timeutil.FormatDate(start) != filter.Date {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// GlobalEvents returns the fixed events filtered by start year and a case-insensitive search.
func (p *Provider) GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := p.now().UTC()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	year := strings.TrimSpace(filter.Year)

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if year != "" && !strings.HasPrefix(e.start, year) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.name), search) &&
			!strings.Contains(strings.ToLower(e.location), search) {
			continue
		}
		start, _ := timeutil.ParseInstant(e.start)
		end, _ := timeutil.ParseInstant(e.end)
		out = append(out, domain.Event{
			ID:           e.id,
			Name:         e.name,
			Sport:        e.sport,
			Location:     e.location,
			StartDateUTC: e.start,
			EndDateUTC:   e.end,
			Status:       statusAt(now, start, end),
		})
	}
	return out, nil
}

func statusAt(now, start, end time.Time) domain.MatchStatus {
	switch {
	case now.Before(start):
		return domain.StatusUpcoming
	case now.Before(end):
		return domain.StatusLive
	default:
		return domain.StatusCompleted
	}
}
