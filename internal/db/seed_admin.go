package db

import (
	"context"

	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/domain/user"
)

type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, name, password string) (user.User, error)
}

// EnsureAdminUser seeds the grader account from config. Skipped when the
// admin credentials are not configured.
func EnsureAdminUser(ctx context.Context, users AdminEnsurer, cfg config.Config) (bool, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	if _, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
		return false, err
	}

	return true, nil
}
