package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brand-plan/internal/cache"
	"brand-plan/internal/domain"

	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds optimistic transaction retries on WATCH conflicts.
const maxUpdateRetries = 5

// RedisSessionStore implements domain.SessionRepository on Redis. Sessions
// are stored as JSON documents with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessionStore creates a session store. now may be nil.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, now func() time.Time) *RedisSessionStore {
	if now == nil {
		now = time.Now
	}
	return &RedisSessionStore{client: client, ttl: ttl, now: now}
}

// Create stores a new session. It fails if the ID is already taken.
func (s *RedisSessionStore) Create(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	created, err := s.client.SetNX(ctx, cache.SessionKey(session.ID), string(payload), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}
	if !created {
		return domain.NewError(domain.CodeInvalidInput, fmt.Sprintf("session %s already exists", session.ID), nil)
	}
	return nil
}

// Get loads a session by ID.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, cache.SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewSessionNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return decodeSession(data)
}

// Update loads the session, applies fn and writes it back inside a
// WATCH/MULTI transaction. A concurrent write to the same session makes the
// transaction fail and fn is retried on fresh data. Errors returned by fn
// abort the update and are returned as is.
func (s *RedisSessionStore) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	key := cache.SessionKey(id)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var updated *domain.Session

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return domain.NewSessionNotFoundError(id)
				}
				return fmt.Errorf("failed to get session %s: %w", id, err)
			}

			session, err := decodeSession(data)
			if err != nil {
				return err
			}
			if err := fn(session); err != nil {
				return err
			}
			session.UpdatedAt = s.now()

			payload, err := json.Marshal(session)
			if err != nil {
				return fmt.Errorf("failed to marshal session: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, string(payload), s.ttl)
				return nil
			})
			if err != nil {
				return err
			}
			updated = session
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, domain.NewInternalError(fmt.Sprintf("session %s is being modified concurrently", id), redis.TxFailedErr)
}

// Delete removes a session. Missing sessions are not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, cache.SessionKey(id)).Err()
}

func decodeSession(data []byte) (*domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Completed == nil {
		session.Completed = domain.NewCompletionSet()
	}
	return &session, nil
}

var _ domain.SessionRepository = (*RedisSessionStore)(nil)
