package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/notifier"
)

// Backend is the subset of the API the session needs.
type Backend interface {
	Preferences(ctx context.Context, clientID string) (domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs domain.Preferences) (domain.Preferences, error)
}

// StateStore is the client-local state the session reads and writes.
type StateStore interface {
	ClientID(ctx context.Context) (string, error)
	SetClientID(ctx context.Context, id string) error
	Preferences(ctx context.Context) (domain.Preferences, bool, error)
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
}

// Poller is the notification loop driven by the session.
type Poller interface {
	Start(ctx context.Context, sub notifier.Subscription)
	Status() notifier.Status
}

// Status describes the session.
type Status struct {
	ClientID    string
	Preferences domain.Preferences
	Poller      notifier.Status
}

// Session ties the client id, stored preferences and the notification poller together.
type Session struct {
	backend Backend
	state   StateStore
	poller  Poller
	logger  *slog.Logger
	newID   func() (string, error)
}

// NewSession constructs a Session.
func NewSession(backend Backend, state StateStore, poller Poller, logger *slog.Logger) *Session {
	return &Session{
		backend: backend,
		state:   state,
		poller:  poller,
		logger:  logger,
		newID:   NewClientID,
	}
}

// ClientID returns the stored client id, generating and persisting one on first use.
func (s *Session) ClientID(ctx context.Context) (string, error) {
	id, err := s.state.ClientID(ctx)
	if err != nil {
		return "", fmt.Errorf("load client id: %w", err)
	}
	if id != "" {
		return id, nil
	}
	id, err = s.newID()
	if err != nil {
		return "", fmt.Errorf("generate client id: %w", err)
	}
	if err := s.state.SetClientID(ctx, id); err != nil {
		return "", fmt.Errorf("store client id: %w", err)
	}
	logging.Info(s.logger, "client id created", slog.String(logging.FieldClientID, id))
	return id, nil
}

// Resume loads preferences (backend first, local copy as fallback) and starts polling
// when notifications are enabled. It reports whether polling started.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	id, err := s.ClientID(ctx)
	if err != nil {
		return false, err
	}

	prefs, err := s.backend.Preferences(ctx, id)
	if err != nil {
		logging.Warn(s.logger, "fetch preferences failed, using local copy",
			slog.String(logging.FieldClientID, id),
			slog.Any("err", err),
		)
		local, ok, lerr := s.state.Preferences(ctx)
		if lerr != nil {
			return false, fmt.Errorf("load local preferences: %w", lerr)
		}
		if !ok {
			return false, err
		}
		prefs = local
	} else if err := s.state.SavePreferences(ctx, prefs); err != nil {
		logging.Warn(s.logger, "store preferences failed", slog.Any("err", err))
	}

	if !prefs.NotificationsEnabled {
		return false, nil
	}
	s.poller.Start(ctx, notifier.Subscription{Sports: prefs.Sports, Teams: prefs.Teams})
	return true, nil
}

// Subscribe stores an enabled subscription on the backend and locally, then restarts polling.
func (s *Session) Subscribe(ctx context.Context, sports, teams []string) (domain.Preferences, error) {
	id, err := s.ClientID(ctx)
	if err != nil {
		return domain.Preferences{}, err
	}

	prefs := domain.Preferences{
		ClientID:             id,
		Sports:               compact(sports),
		Teams:                compact(teams),
		NotificationsEnabled: true,
	}
	stored, err := s.backend.SavePreferences(ctx, prefs)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	if err := s.state.SavePreferences(ctx, stored); err != nil {
		return domain.Preferences{}, fmt.Errorf("store preferences: %w", err)
	}

	s.poller.Start(ctx, notifier.Subscription{Sports: stored.Sports, Teams: stored.Teams})
	logging.Info(s.logger, "subscribed",
		slog.String(logging.FieldClientID, id),
		slog.Any("sports", stored.Sports),
		slog.Any("teams", stored.Teams),
	)
	return stored, nil
}

// Status reports the client id, locally stored preferences and poller state.
func (s *Session) Status(ctx context.Context) (Status, error) {
	id, err := s.state.ClientID(ctx)
	if err != nil {
		return Status{}, err
	}
	prefs, ok, err := s.state.Preferences(ctx)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		prefs = domain.DefaultPreferences()
	}
	return Status{ClientID: id, Preferences: prefs, Poller: s.poller.Status()}, nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
