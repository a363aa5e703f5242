package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/classroom/internal/cache"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/security"
	"github.com/geocoder89/classroom/internal/validation"
	"github.com/google/uuid"
)

type UsersRepo interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateType(ctx context.Context, id, userType string) error
}

type RegisterInput struct {
	Email    string `form:"email" validate:"required,email,max=50"`
	Name     string `form:"name" validate:"required,max=50"`
	Password string `form:"password" validate:"required,max=50"`
	Type     string `form:"-" validate:"oneof=student admin"`
}

const passwordRules = "required,max=50"

// CredentialStore owns user records and password verification.
type CredentialStore struct {
	users     UsersRepo
	hasher    *security.Hasher
	validator *validation.Validator
	cache     *cache.Cache[user.User]
}

func NewCredentialStore(users UsersRepo, hasher *security.Hasher, v *validation.Validator, userCache *cache.Cache[user.User]) *CredentialStore {
	if userCache == nil {
		userCache = cache.New[user.User](5 * time.Second)
	}
	return &CredentialStore{
		users:     users,
		hasher:    hasher,
		validator: v,
		cache:     userCache,
	}
}

// Register creates a student account. An empty Type defaults to student.
func (s *CredentialStore) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Type == "" {
		in.Type = user.TypeStudent
	}

	if err := s.validator.Struct(in); err != nil {
		return user.User{}, err
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return user.User{}, &StorageError{Op: "register.hash", Err: err}
	}

	u := user.New(in.Email, in.Name, in.Type, hash)

	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, translate("register", err)
	}

	return u.Public(), nil
}

func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return user.User{}, translate("authenticate", err)
	}

	if err := s.hasher.CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return user.User{}, ErrInvalidCredentials
		}
		// malformed stored hash
		return user.User{}, &StorageError{Op: "authenticate.compare", Err: err}
	}

	return u.Public(), nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, ErrNotFound
	}

	if u, ok := s.cache.Get(id); ok {
		return u, nil
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, translate("find_user", err)
	}

	u = u.Public()
	s.cache.Set(id, u)
	return u, nil
}

func (s *CredentialStore) ChangePassword(ctx context.Context, id, password string) error {
	if err := s.validator.Var("password", password, passwordRules); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return &StorageError{Op: "change_password.hash", Err: err}
	}

	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return translate("change_password", err)
	}

	s.cache.Delete(id)
	return nil
}

// EnsureAdmin creates the admin account if missing. An existing student with
// the same email is promoted only when it already holds the configured
// password, so registering the admin email first does not grant grading.
func (s *CredentialStore) EnsureAdmin(ctx context.Context, email, name, password string) (user.User, error) {
	existing, err := s.users.GetByEmail(ctx, normalizeEmail(email))

	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing.Public(), nil
		}

		if err := s.hasher.CheckPassword(existing.PasswordHash, password); err != nil {
			if errors.Is(err, security.ErrPasswordMismatch) {
				return user.User{}, fmt.Errorf("ensure_admin: %s: %w", existing.Email, ErrAdminEmailInUse)
			}
			return user.User{}, &StorageError{Op: "ensure_admin.check", Err: err}
		}

		if err := s.users.UpdateType(ctx, existing.ID, user.TypeAdmin); err != nil {
			return user.User{}, translate("ensure_admin.promote", err)
		}
		existing.Type = user.TypeAdmin
		s.cache.Delete(existing.ID)
		return existing.Public(), nil

	case errors.Is(err, user.ErrNotFound):
		return s.Register(ctx, RegisterInput{
			Email:    email,
			Name:     name,
			Password: password,
			Type:     user.TypeAdmin,
		})

	default:
		return user.User{}, translate("ensure_admin", err)
	}
}

// ResetPassword sets a new password for the account registered under email.
func (s *CredentialStore) ResetPassword(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return user.User{}, translate("reset_password", err)
	}

	if err := s.ChangePassword(ctx, u.ID, password); err != nil {
		return user.User{}, err
	}

	return u.Public(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
