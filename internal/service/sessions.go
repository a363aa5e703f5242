package service

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/classroom/internal/domain/session"
	"github.com/geocoder89/classroom/internal/security"
)

type SessionsRepo interface {
	Create(ctx context.Context, s session.Session) error
	Get(ctx context.Context, key string) (session.Session, error)
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionManager maps opaque cookie tokens to user ids.
type SessionManager struct {
	repo   SessionsRepo
	digest *security.TokenDigester
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(repo SessionsRepo, digest *security.TokenDigester, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{
		repo:   repo,
		digest: digest,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Create(ctx context.Context, userID string) (string, error) {
	raw, err := security.NewSessionToken()
	if err != nil {
		return "", &StorageError{Op: "session.token", Err: err}
	}

	now := m.now().UTC()

	err = m.repo.Create(ctx, session.Session{
		Key:       m.digest.Digest(raw),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	})
	if err != nil {
		return "", &StorageError{Op: "session.create", Err: err}
	}

	return raw, nil
}

// Resolve reports ok=false for an empty, unknown or expired token. err is
// only set when the backend itself failed.
func (m *SessionManager) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	s, err := m.repo.Get(ctx, m.digest.Digest(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", false, nil
		}
		return "", false, &StorageError{Op: "session.resolve", Err: err}
	}

	if s.Expired(m.now()) {
		return "", false, nil
	}

	return s.UserID, true, nil
}

func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := m.repo.Delete(ctx, m.digest.Digest(token)); err != nil {
		return &StorageError{Op: "session.destroy", Err: err}
	}
	return nil
}

func (m *SessionManager) Sweep(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, &StorageError{Op: "session.sweep", Err: err}
	}
	return n, nil
}
