package clientstate

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var migrateMu sync.Mutex

const (
	keyClientID    = "esh_client_id"
	keyPreferences = "esh_preferences"
)

// SQLiteStore keeps state in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("state path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps an in-memory database on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	logging.Debug(logger, "client state database ready", slog.String(logging.FieldPath, path))
	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClientID(ctx context.Context) (string, error) {
	v, _, err := s.get(ctx, keyClientID)
	return v, err
}

func (s *SQLiteStore) SetClientID(ctx context.Context, id string) error {
	return s.put(ctx, keyClientID, id)
}

func (s *SQLiteStore) Preferences(ctx context.Context) (domain.Preferences, bool, error) {
	raw, ok, err := s.get(ctx, keyPreferences)
	if err != nil || !ok {
		return domain.Preferences{}, false, err
	}
	var prefs domain.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return domain.Preferences{}, false, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, true, nil
}

func (s *SQLiteStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.put(ctx, keyPreferences, string(data))
}

func (s *SQLiteStore) Notified(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT match_id, starts_at FROM notified_matches`)
	if err != nil {
		return nil, fmt.Errorf("query notified: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			id     string
			starts int64
		)
		if err := rows.Scan(&id, &starts); err != nil {
			return nil, fmt.Errorf("scan notified: %w", err)
		}
		out[id] = time.Unix(starts, 0).UTC()
	}
	return out, rows.Err()
}

func (s *SQLiteStore) MarkNotified(ctx context.Context, id string, start time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notified_matches (match_id, starts_at, notified_at) VALUES (?, ?, ?)
		 ON CONFLICT(match_id) DO UPDATE SET starts_at = excluded.starts_at`,
		id, start.Unix(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("mark notified %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) PruneNotified(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notified_matches WHERE starts_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune notified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_kv WHERE key = ?`, key).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
