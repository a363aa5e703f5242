package redisrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/classroom/internal/domain/session"
	"github.com/redis/go-redis/v9"
)

// Needs a throwaway redis: TEST_REDIS_ADDR=127.0.0.1:6379 go test ./...
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return rdb
}

func TestSessionsRepoLifecycle(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewSessionsRepo(rdb)
	ctx := context.Background()
	now := time.Now().UTC()

	s := session.Session{Key: "digest", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	ttl, err := rdb.TTL(ctx, keyPrefix+"digest").Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected key ttl within a minute, got %s %v", ttl, err)
	}

	got, err := repo.Get(ctx, "digest")
	if err != nil || got.UserID != "u1" {
		t.Fatalf("get: %+v %v", got, err)
	}

	if err := repo.Delete(ctx, "digest"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "digest"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateRejectsExpiredSession(t *testing.T) {
	repo := NewSessionsRepo(nil)
	now := time.Now()

	err := repo.Create(context.Background(), session.Session{Key: "k", UserID: "u1", ExpiresAt: now.Add(-time.Second)})
	if err == nil {
		t.Fatalf("expected error for an already expired session")
	}
}
