package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL       string
	Store       string // postgres | memory
	AutoMigrate bool

	SessionStore         string // redis | postgres | memory
	SessionTTL           time.Duration
	SessionSecret        string
	SessionSweepInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BcryptCost int

	AdminEmail    string
	AdminName     string
	AdminPassword string

	OtelEndpoint string

	LoginRateLimit  int
	LoginRateWindow time.Duration
	MaxBodyBytes    int64
}

func Load() Config {
	// a missing .env is fine, the environment wins either way
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 4000),
		DBURL: buildDBURL(),
		Store: getEnv("STORE", "postgres"),

		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),

		SessionStore:  getEnv("SESSION_STORE", "redis"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionSecret: getEnv("SESSION_SECRET", "thisisasecretsession"),

		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminName:     getEnv("ADMIN_NAME", "Grader"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		OtelEndpoint: getEnv("OTEL_ENDPOINT", ""),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

func buildDBURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "classroom")
	pass := getEnv("DB_PASSWORD", "classroom")
	name := getEnv("DB_NAME", "classroom")
	ssl := getEnv("DB_SSLMODE", "disable")

	u := &url.URL{
		Scheme: "postgres",
		Host:   host + ":" + port,
		User:   url.UserPassword(user, pass),
		Path:   name,
	}
	q := u.Query()
	q.Set("sslmode", ssl)
	u.RawQuery = q.Encode()
	return u.String()
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not an int, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not a duration, using %s\n", key, v, fallback)
			return fallback
		}
		return d
	}
	return fallback
}
