package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/classroom/internal/cache"
	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/db"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/http/handlers"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/redisclient"
	"github.com/geocoder89/classroom/internal/repo/memory"
	"github.com/geocoder89/classroom/internal/repo/postgres"
	"github.com/geocoder89/classroom/internal/repo/redisrepo"
	"github.com/geocoder89/classroom/internal/security"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/geocoder89/classroom/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userCacheTTL = 5 * time.Second

// Stores is the wired service layer plus the backends it holds open.
type Stores struct {
	Credentials *service.CredentialStore
	Assignments *service.AssignmentStore
	Sessions    *service.SessionManager

	// Checks feed /readyz, one per backend actually in use.
	Checks map[string]handlers.Check

	// SweepNeeded is false for redis, which expires keys itself.
	SweepNeeded bool

	pool  *pgxpool.Pool
	redis *redisclient.Client
}

// Build opens the backends named by cfg and wires the stores on top.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (*Stores, error) {
	s := &Stores{Checks: map[string]handlers.Check{}}

	needsPool := cfg.Store == "postgres" || cfg.SessionStore == "postgres"
	if needsPool {
		if cfg.AutoMigrate {
			if err := db.MigrateUp(cfg.DBURL); err != nil {
				return nil, err
			}
			log.Info("migrations applied")
		}

		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		s.pool = pool
		s.Checks["postgres"] = pool.Ping
	}

	v := validation.New()

	var (
		usersRepo       service.UsersRepo
		assignmentsRepo service.AssignmentsRepo
		sessionsRepo    service.SessionsRepo
	)

	switch cfg.Store {
	case "postgres":
		usersRepo = postgres.NewUsersRepo(s.pool, prom)
		assignmentsRepo = postgres.NewAssignmentsRepo(s.pool, prom)
	case "memory":
		usersRepo = memory.NewUsersRepo()
		assignmentsRepo = memory.NewAssignmentsRepo()
	default:
		s.Close()
		return nil, fmt.Errorf("unknown STORE %q", cfg.Store)
	}

	switch cfg.SessionStore {
	case "redis":
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			s.Close()
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		s.redis = rc
		s.Checks["redis"] = rc.Ping
		sessionsRepo = redisrepo.NewSessionsRepo(rc.Raw())
	case "postgres":
		sessionsRepo = postgres.NewSessionsRepo(s.pool, prom)
		s.SweepNeeded = true
	case "memory":
		sessionsRepo = memory.NewSessionsRepo()
		s.SweepNeeded = true
	default:
		s.Close()
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	s.Credentials = service.NewCredentialStore(usersRepo, security.NewHasher(cfg.BcryptCost), v, cache.New[user.User](userCacheTTL))
	s.Assignments = service.NewAssignmentStore(assignmentsRepo, v)
	s.Sessions = service.NewSessionManager(sessionsRepo, security.NewTokenDigester(cfg.SessionSecret), cfg.SessionTTL)

	return s, nil
}

func (s *Stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
