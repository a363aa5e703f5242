package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypeStudent = "student"
	TypeAdmin   = "admin"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Type == TypeAdmin
}

// Public returns a copy safe to hand to callers outside the credential store.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

func New(email, name, userType, passwordHash string) User {
	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Type:         userType,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
