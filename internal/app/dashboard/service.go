// Package dashboard owns the backend state behind the HTTP API: the provider gateway,
// the match cache and the preferences store.
package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/cache"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/store"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/timeutil"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/upcoming"
)

// UpcomingQuery is the parsed form of an upcoming-notifications request.
type UpcomingQuery struct {
	Sports        []string
	Teams         []string
	WindowMinutes int
}

// Service coordinates the dashboard operations. Create one per process and inject it
// into the HTTP handlers.
type Service struct {
	gateway providers.Gateway
	cache   *cache.MatchCache
	engine  *upcoming.Engine
	prefs   store.PreferencesStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a Service. A nil prefs store gets an in-memory one.
func NewService(gateway providers.Gateway, matches *cache.MatchCache, prefs store.PreferencesStore, logger *slog.Logger) *Service {
	if prefs == nil {
		prefs = store.NewMemoryStore()
	}
	return &Service{
		gateway: gateway,
		cache:   matches,
		engine:  upcoming.NewEngine(matches),
		prefs:   prefs,
		logger:  logger,
		now:     time.Now,
	}
}

// Sports returns the upstream sports list.
func (s *Service) Sports(ctx context.Context) (domain.SportsList, error) {
	if s.gateway == nil {
		return nil, providers.ErrProviderUnavailable
	}
	list, err := s.gateway.SportsList(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = domain.SportsList{}
	}
	return list, nil
}

// Schedule fetches one sport's schedule straight from the gateway. Team and date are
// also applied locally so the result is exact whatever the upstream supports.
func (s *Service) Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error) {
	filter.Sport = strings.TrimSpace(filter.Sport)
	if filter.Sport == "" {
		return nil, &ValidationError{Field: "sport", Message: msgSportRequired}
	}
	if filter.Date != "" {
		if _, err := timeutil.ParseDate(filter.Date); err != nil {
			return nil, &ValidationError{Field: "date", Message: msgInvalidDate}
		}
	}
	if s.gateway == nil {
		return nil, providers.ErrProviderUnavailable
	}

	matches, err := s.gateway.Schedule(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if filter.Team != "" && !m.Involves(filter.Team) {
			continue
		}
		if filter.Date != "" {
			day, err := timeutil.UTCDay(m.StartTimeUTC)
			if err != nil || day != filter.Date {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// GlobalEvents returns tournaments and championships.
func (s *Service) GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	if s.gateway == nil {
		return nil, providers.ErrProviderUnavailable
	}
	events, err := s.gateway.GlobalEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// Stats aggregates per-sport status counts over the cached match set.
func (s *Service) Stats(ctx context.Context) (domain.StatsResponse, error) {
	matches, err := s.cache.All(ctx)
	if err != nil {
		return domain.StatsResponse{}, err
	}
	return domain.NewStatsResponse(matches), nil
}

// SetPreferences overwrites the client's record and returns what was stored.
func (s *Service) SetPreferences(prefs domain.Preferences) (domain.Preferences, error) {
	prefs.ClientID = strings.TrimSpace(prefs.ClientID)
	if prefs.ClientID == "" {
		return domain.Preferences{}, &ValidationError{Field: "clientId", Message: msgClientIDRequired}
	}
	if prefs.Sports == nil {
		prefs.Sports = []string{}
	}
	if prefs.Teams == nil {
		prefs.Teams = []string{}
	}
	at := s.now().UTC()
	prefs.UpdatedAt = &at

	s.prefs.Set(prefs)
	logging.Debug(s.logger, "preferences stored",
		slog.String(logging.FieldClientID, prefs.ClientID),
		slog.Int(logging.FieldCount, len(prefs.Sports)+len(prefs.Teams)),
	)
	return prefs.Clone(), nil
}

// Preferences returns the client's record, or the default record when none is stored.
func (s *Service) Preferences(clientID string) domain.Preferences {
	if p, ok := s.prefs.Get(clientID); ok {
		return p
	}
	return domain.DefaultPreferences()
}

// Upcoming returns the matches starting within the query window.
func (s *Service) Upcoming(ctx context.Context, q UpcomingQuery) ([]domain.Match, error) {
	minutes := q.WindowMinutes
	if minutes <= 0 {
		minutes = upcoming.DefaultWindowMinutes
	}
	return s.engine.Upcoming(ctx, upcoming.Criteria{
		Now:    s.now(),
		Window: upcoming.Window(minutes),
		Sports: q.Sports,
		Teams:  q.Teams,
	})
}

// RefreshCache forces a match cache refill.
func (s *Service) RefreshCache(ctx context.Context) error {
	return s.cache.Refresh(ctx)
}

// CacheFilledAt reports when the match cache was last filled.
func (s *Service) CacheFilledAt() time.Time {
	return s.cache.FilledAt()
}

// WithClock replaces the time source used for window and timestamp calculations.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}
