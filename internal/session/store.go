package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session ID resolves to nothing, either
// because it never existed or because the store TTL evicted it.
var ErrNotFound = errors.New("session not found")

// Store abstracts session persistence so handlers can be tested against an
// in-memory Redis.
type Store interface {
	Put(ctx context.Context, sess Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Store over the given Redis client. Sessions expire
// after ttl regardless of activity.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{client: client, ttl: ttl}
}

// NewID returns a fresh opaque session identifier.
func NewID() string {
	return uuid.NewString()
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *redisStore) Put(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id must not be empty")
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sess.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}

	payload, err := s.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}

	return sess, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
