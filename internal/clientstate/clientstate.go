// Package clientstate persists the notifier client's local state: its client id, the last
// saved preferences and the ids of matches it already notified.
package clientstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown state backend")

// Store is the client-local state. Implementations are safe for concurrent use.
type Store interface {
	ClientID(ctx context.Context) (string, error)
	SetClientID(ctx context.Context, id string) error
	Preferences(ctx context.Context) (domain.Preferences, bool, error)
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
	Notified(ctx context.Context) (map[string]time.Time, error)
	MarkNotified(ctx context.Context, id string, start time.Time) error
	PruneNotified(ctx context.Context, before time.Time) (int, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Path     string // file or sqlite database path
	RedisURL string
	// Namespace prefixes redis keys; defaults to "esh".
	Namespace string
	Logger    *slog.Logger
}

// Open returns the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return OpenFile(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path, opts.Logger)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.Namespace)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
