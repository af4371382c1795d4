package procore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session holds the OAuth tokens for a Procore login.
// It is an explicit value passed around and persisted at lifecycle
// boundaries, never process-global state.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// expirySkew is subtracted from ExpiresAt so tokens refresh slightly early.
const expirySkew = 30 * time.Second

// Expired reports whether the access token needs a refresh.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt.Add(-expirySkew))
}

// SessionStore persists a Session across process restarts.
type SessionStore interface {
	// Load returns the stored session, or ErrNoSession if none exists.
	Load(ctx context.Context) (*Session, error)
	// Save stores the session.
	Save(ctx context.Context, s *Session) error
}

// RedisSessionStore keeps the session in Redis so multiple instances and
// restarts share one login.
type RedisSessionStore struct {
	rdb *redis.Client
	key string
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(cfg RedisConfig) *RedisSessionStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisSessionStore{rdb: rdb, key: cfg.Key}
}

func (r *RedisSessionStore) Load(ctx context.Context) (*Session, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// MemorySessionStore is an in-process session store for tests and
// single-instance deployments without Redis.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.session = &cp
	return nil
}
