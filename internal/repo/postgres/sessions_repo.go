package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/classroom/internal/domain/session"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionsRepo keeps sessions in the sessions table, keyed by token digest.
type SessionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSessionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *SessionsRepo {
	return &SessionsRepo{pool: pool, prom: prom}
}

func (r *SessionsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	return r.observe("sessions.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO sessions (key, user_id, created_at, expires_at)
			VALUES ($1,$2,$3,$4)`,
			s.Key, s.UserID, s.CreatedAt, s.ExpiresAt,
		)
		return err
	})
}

// Get ignores expired rows; they are swept separately.
func (r *SessionsRepo) Get(ctx context.Context, key string) (session.Session, error) {
	var s session.Session

	err := r.observe("sessions.get", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT key, user_id, created_at, expires_at
			FROM sessions
			WHERE key = $1 AND expires_at > NOW()
		`, key).Scan(&s.Key, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, key string) error {
	return r.observe("sessions.delete", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE key = $1`, key)
		return err
	})
}

func (r *SessionsRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64

	err := r.observe("sessions.delete_expired", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})

	return n, err
}
