package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/booknotes/internal/domain/editor"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// SessionStore keeps editor sessions as hashes:
// booknotes:session:{id} -> {role, updated_at}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates the session store
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string {
	return keyPrefix + "session:" + id
}

// Put writes the role and refreshes the ttl atomically
func (s *SessionStore) Put(ctx context.Context, id string, role editor.Role, ttl time.Duration) error {
	key := sessionKey(id)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"role":       string(role),
			"updated_at": time.Now().Unix(),
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return nil
}

// Get returns the role of a live session
func (s *SessionStore) Get(ctx context.Context, id string) (editor.Role, bool, error) {
	role, err := s.client.HGet(ctx, sessionKey(id), "role").Result()
	if err != nil {
		if err == redis.Nil {
			return editor.RoleGuest, false, nil
		}
		return editor.RoleGuest, false, apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return editor.Role(role), true, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return nil
}
