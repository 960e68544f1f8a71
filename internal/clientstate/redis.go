package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

const defaultNamespace = "esh"

// RedisStore keeps state in redis: string keys for the client id and preferences and a
// sorted set of notified ids scored by match start (unix seconds).
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// OpenRedis connects to url (redis://host:port/db) and verifies the connection.
func OpenRedis(ctx context.Context, url, namespace string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, namespace), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(name string) string {
	return s.namespace + ":" + name
}

func (s *RedisStore) ClientID(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, s.key("client_id")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *RedisStore) SetClientID(ctx context.Context, id string) error {
	return s.client.Set(ctx, s.key("client_id"), id, 0).Err()
}

func (s *RedisStore) Preferences(ctx context.Context) (domain.Preferences, bool, error) {
	raw, err := s.client.Get(ctx, s.key("preferences")).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Preferences{}, false, nil
	}
	if err != nil {
		return domain.Preferences{}, false, err
	}
	var prefs domain.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return domain.Preferences{}, false, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, true, nil
}

func (s *RedisStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key("preferences"), data, 0).Err()
}

func (s *RedisStore) Notified(ctx context.Context) (map[string]time.Time, error) {
	entries, err := s.client.ZRangeWithScores(ctx, s.key("notified_matches"), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(entries))
	for _, z := range entries {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		out[id] = time.Unix(int64(z.Score), 0).UTC()
	}
	return out, nil
}

func (s *RedisStore) MarkNotified(ctx context.Context, id string, start time.Time) error {
	return s.client.ZAdd(ctx, s.key("notified_matches"), redis.Z{
		Score:  float64(start.Unix()),
		Member: id,
	}).Err()
}

func (s *RedisStore) PruneNotified(ctx context.Context, before time.Time) (int, error) {
	// "(" makes the upper bound exclusive.
	n, err := s.client.ZRemRangeByScore(ctx, s.key("notified_matches"), "-inf", "("+strconv.FormatInt(before.Unix(), 10)).Result()
	return int(n), err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
