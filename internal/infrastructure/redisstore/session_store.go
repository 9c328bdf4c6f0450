package redisstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

func sessionKey(sid string) string {
	return "session:" + sid
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SessionStore keeps sessions as Redis hashes. Every write refreshes the TTL.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create stores a new session with the given fields and returns its id.
func (s *SessionStore) Create(ctx context.Context, fields map[string]any) (string, error) {
	sid := uuid.NewString()
	values := map[string]any{entity.SessionCreatedAt: nowRFC3339()}
	for k, v := range fields {
		values[k] = v
	}
	if err := s.write(ctx, sid, values); err != nil {
		return "", err
	}
	return sid, nil
}

// Get returns repository.ErrNotFound for unknown or expired sessions.
func (s *SessionStore) Get(ctx context.Context, sid string) (*entity.Session, error) {
	if sid == "" {
		return nil, repository.ErrNotFound
	}
	data, err := s.rdb.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, repository.ErrNotFound
	}
	return &entity.Session{
		ID:            sid,
		UserID:        data[entity.SessionUserID],
		OAuthState:    data[entity.SessionOAuthState],
		OAuthProvider: data[entity.SessionOAuthProvider],
		CreatedAt:     data[entity.SessionCreatedAt],
		UpdatedAt:     data[entity.SessionUpdatedAt],
	}, nil
}

func (s *SessionStore) Set(ctx context.Context, sid string, fields map[string]any) error {
	values := map[string]any{entity.SessionUpdatedAt: nowRFC3339()}
	for k, v := range fields {
		values[k] = v
	}
	return s.write(ctx, sid, values)
}

// Unset removes fields without touching the rest of the session.
func (s *SessionStore) Unset(ctx context.Context, sid string, fields ...string) error {
	if sid == "" || len(fields) == 0 {
		return nil
	}
	return s.rdb.HDel(ctx, sessionKey(sid), fields...).Err()
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

func (s *SessionStore) write(ctx context.Context, sid string, values map[string]any) error {
	key := sessionKey(sid)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, values)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
