package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

const defaultSessionTTL = 12 * time.Hour

// SessionStore persists gateway sessions in Redis.
// Key format: session:<id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// A default TTL is applied when none is provided.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Save writes the session as JSON and resets its TTL, so activity keeps
// the session alive.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Find loads a session by ID. Unknown or expired IDs come back as
// domain.ErrSessionNotFound.
func (s *SessionStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete drops the session and its cached permission sets.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// Cached permissions are scoped to the session; sweep them with it.
	iter := s.client.Scan(ctx, 0, permKey(id, "*"), 0).Iterator()
	for iter.Next(ctx) {
		_ = s.client.Del(ctx, iter.Val()).Err()
	}

	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}

// PermissionCache caches per-role permission sets in Redis, scoped to a
// session so re-selecting the same role never re-fetches.
// Key format: perms:<session_id>:<role>
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.PermissionCache = (*PermissionCache)(nil)

// NewPermissionCache creates a PermissionCache wrapping the given Redis
// client. The TTL should match the session TTL.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &PermissionCache{client: client, ttl: ttl}
}

// Get returns the cached permission set and whether it was present. An
// empty cached set is a valid hit: some roles genuinely have none.
func (c *PermissionCache) Get(ctx context.Context, sessionID, role string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, permKey(sessionID, role)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("permission cache get: %w", err)
	}

	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false, fmt.Errorf("decode cached permissions: %w", err)
	}
	return perms, true, nil
}

// Put stores the permission set for one role of one session.
func (c *PermissionCache) Put(ctx context.Context, sessionID, role string, perms []string) error {
	if perms == nil {
		perms = []string{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := c.client.Set(ctx, permKey(sessionID, role), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("permission cache put: %w", err)
	}
	return nil
}

func permKey(sessionID, role string) string {
	return fmt.Sprintf("perms:%s:%s", sessionID, role)
}
