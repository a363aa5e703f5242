package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/classroom/internal/domain/session"
)

type SessionsRepo struct {
	mu    sync.Mutex
	items map[string]session.Session
	now   func() time.Time
}

func NewSessionsRepo() *SessionsRepo {
	return &SessionsRepo{
		items: make(map[string]session.Session),
		now:   time.Now,
	}
}

// WithClock swaps the time source, used by tests to walk past expiry.
func (r *SessionsRepo) WithClock(now func() time.Time) *SessionsRepo {
	r.now = now
	return r
}

func (r *SessionsRepo) Create(_ context.Context, s session.Session) error {
	r.mu.Lock()
	r.items[s.Key] = s
	r.mu.Unlock()
	return nil
}

func (r *SessionsRepo) Get(_ context.Context, key string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[key]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	if s.Expired(r.now()) {
		delete(r.items, key)
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

func (r *SessionsRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.items, key)
	r.mu.Unlock()
	return nil
}

func (r *SessionsRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int64
	for k, s := range r.items {
		if s.Expired(now) {
			delete(r.items, k)
			n++
		}
	}
	return n, nil
}
