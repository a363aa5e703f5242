package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/classroom/internal/db"
	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/domain/session"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// These tests need a scratch database: TEST_DB_DSN=postgres://... go test ./...
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	if err := db.MigrateUp(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := db.NewPool(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE sessions, assignments, users CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return pool
}

func TestUsersRepo(t *testing.T) {
	pool := setupPool(t)
	repo := postgres.NewUsersRepo(pool, observability.NewProm(prometheus.NewRegistry()))
	ctx := context.Background()

	u := user.New("b@x.com", "Bob", user.TypeStudent, "hash")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Create(ctx, user.New("b@x.com", "Other", user.TypeStudent, "hash")); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, "b@x.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by email: %+v %v", got, err)
	}

	if err := repo.UpdateType(ctx, u.ID, user.TypeAdmin); err != nil {
		t.Fatalf("update type: %v", err)
	}
	got, _ = repo.GetByID(ctx, u.ID)
	if !got.IsAdmin() {
		t.Fatalf("expected admin after update")
	}

	if _, err := repo.GetByEmail(ctx, "nobody@x.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentsRepo(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	owner := user.New("b@x.com", "Bob", user.TypeStudent, "hash")
	if err := postgres.NewUsersRepo(pool, nil).Create(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}

	repo := postgres.NewAssignmentsRepo(pool, nil)

	first := assignment.NewFromSubmitRequest(owner.ID, assignment.SubmitRequest{Student: "Bob", Name: "HW1"})
	second := assignment.NewFromSubmitRequest(owner.ID, assignment.SubmitRequest{Student: "Bob", Name: "HW2"})
	second.Date = first.Date.Add(time.Second)

	for _, a := range []assignment.Assignment{first, second} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 || all[0].Name != "HW1" {
		t.Fatalf("list: %+v %v", all, err)
	}

	graded, err := repo.UpdateGrade(ctx, first.ID, "A")
	if err != nil || graded.Grade != "A" {
		t.Fatalf("grade: %+v %v", graded, err)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, assignment.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	mine, _ := repo.ListByOwner(ctx, owner.ID)
	if len(mine) != 1 || mine[0].ID != second.ID {
		t.Fatalf("expected only HW2 left, got %+v", mine)
	}
}

func TestSessionsRepoExpiry(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	owner := user.New("b@x.com", "Bob", user.TypeStudent, "hash")
	if err := postgres.NewUsersRepo(pool, nil).Create(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}

	repo := postgres.NewSessionsRepo(pool, nil)
	now := time.Now().UTC()

	live := session.Session{Key: "live", UserID: owner.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := session.Session{Key: "dead", UserID: owner.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}

	for _, s := range []session.Session{live, dead} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if _, err := repo.Get(ctx, "dead"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expired session should be absent, got %v", err)
	}

	n, err := repo.DeleteExpired(ctx)
	if err != nil || n != 1 {
		t.Fatalf("delete expired: %d %v", n, err)
	}

	if _, err := repo.Get(ctx, "live"); err != nil {
		t.Fatalf("live session: %v", err)
	}
}
