package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/geocoder89/classroom/internal/domain/session"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type record struct {
	UserID    string    `json:"uid"`
	CreatedAt time.Time `json:"cat"`
	ExpiresAt time.Time `json:"exp"`
}

// SessionsRepo stores one key per session; redis expiry does the cleanup.
type SessionsRepo struct {
	rdb *redis.Client
}

func NewSessionsRepo(rdb *redis.Client) *SessionsRepo {
	return &SessionsRepo{rdb: rdb}
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	raw, err := json.Marshal(record{UserID: s.UserID, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt})
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, keyPrefix+s.Key, raw, ttl).Err()
}

func (r *SessionsRepo) Get(ctx context.Context, key string) (session.Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return session.Session{}, err
	}

	s := session.Session{Key: key, UserID: rec.UserID, CreatedAt: rec.CreatedAt, ExpiresAt: rec.ExpiresAt}

	// redis expiry has second granularity
	if s.Expired(time.Now()) {
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, keyPrefix+key).Err()
}

// DeleteExpired is a no-op, redis evicts expired keys itself.
func (r *SessionsRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
