package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phenrril/vitrina/internal/domain"
)

type cmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Store keeps sessions as JSON blobs with a TTL that is refreshed on every
// save, so a session disappears once the visitor stops interacting.
type Store struct {
	store  cmdable
	raw    *redis.Client
	prefix string
	ttl    time.Duration
}

// New parses the redis URL, verifies connectivity and returns a store.
func New(ctx context.Context, url, prefix string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{store: raw, raw: raw, prefix: prefix, ttl: ttl}, nil
}

func (s *Store) key(k string) string {
	parts := []string{}
	if s.prefix != "" {
		parts = append(parts, s.prefix)
	}
	parts = append(parts, "session", k)
	return strings.Join(parts, ":")
}

func (s *Store) Get(ctx context.Context, key string) (*domain.Session, error) {
	raw, err := s.store.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Save(ctx context.Context, key string, sess *domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.key(key), b, s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.store.Del(ctx, s.key(key)).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	if s.raw == nil {
		return errors.New("redis client not initialized")
	}
	return s.raw.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
