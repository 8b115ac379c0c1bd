// Package redis provides Redis-based adapters for the shopfront system.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

const defaultSessionPrefix = "session:"

// SessionStore is a Redis-based session store. Keys expire with the session
// so sign-out cleanup is the only explicit deletion path.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// SessionStoreOptions configures optional session store behavior.
type SessionStoreOptions struct {
	// Prefix overrides the default "session:" key prefix.
	Prefix string
}

// NewSessionStore creates a Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

// Save persists the session with a TTL derived from its expiry.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

// Get retrieves a session by id, cleaning up sessions that outlived their
// Redis TTL bookkeeping.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have expired the key already; double-check so a
	// clock-skewed record never resurrects a signed-out user.
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
