// Package session keeps server-side login sessions so tokens can be revoked
// before they expire.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound means the session expired, was revoked or never existed.
var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, id, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

const keyPrefix = "doctrack:session:"

func key(id string) string { return keyPrefix + id }

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, id, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, key(id), userID, ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, id string) (string, error) {
	userID, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return userID, err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}

// MemoryStore is a single-process store for development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	now      func() time.Time
}

type entry struct {
	userID  string
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]entry{}, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, id, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, id)
		return "", ErrNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
