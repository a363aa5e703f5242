package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/classroom/internal/cache"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/repo/memory"
	"github.com/geocoder89/classroom/internal/security"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/geocoder89/classroom/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users       *memory.UsersRepo
	assignments *memory.AssignmentsRepo
	sessions    *memory.SessionsRepo

	creds   *service.CredentialStore
	store   *service.AssignmentStore
	manager *service.SessionManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v := validation.New()
	f := &fixture{
		users:       memory.NewUsersRepo(),
		assignments: memory.NewAssignmentsRepo(),
		sessions:    memory.NewSessionsRepo(),
	}

	f.creds = service.NewCredentialStore(f.users, security.NewHasher(bcrypt.MinCost), v, cache.New[user.User](time.Minute))
	f.store = service.NewAssignmentStore(f.assignments, v)
	f.manager = service.NewSessionManager(f.sessions, security.NewTokenDigester("test-secret"), time.Hour)

	return f
}

func (f *fixture) register(t *testing.T, email, name, password string) user.User {
	t.Helper()

	u, err := f.creds.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Name:     name,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (f *fixture) admin(t *testing.T) user.User {
	t.Helper()

	u, err := f.creds.EnsureAdmin(context.Background(), "grader@x.com", "Grader", "gradepass")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	return u
}
