package service

import (
	"errors"
	"fmt"

	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/validation"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermission         = errors.New("permission denied")
	ErrAdminEmailInUse    = errors.New("admin email belongs to an account with a different password")
)

// ValidationError is the store-boundary input error.
type ValidationError = validation.Error

// StorageError wraps any backend failure that is not part of the domain.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// translate maps repo errors onto the service taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, user.ErrNotFound), errors.Is(err, assignment.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, user.ErrEmailTaken):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return &StorageError{Op: op, Err: err}
	}
}
