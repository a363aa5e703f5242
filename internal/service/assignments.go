package service

import (
	"context"

	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/validation"
	"github.com/google/uuid"
)

type AssignmentsRepo interface {
	Create(ctx context.Context, a assignment.Assignment) error
	List(ctx context.Context) ([]assignment.Assignment, error)
	ListByOwner(ctx context.Context, owner string) ([]assignment.Assignment, error)
	GetByID(ctx context.Context, id string) (assignment.Assignment, error)
	UpdateGrade(ctx context.Context, id, grade string) (assignment.Assignment, error)
	Delete(ctx context.Context, id string) error
}

const gradeRules = "required,max=10"

// AssignmentStore owns assignment records and grading.
type AssignmentStore struct {
	repo      AssignmentsRepo
	validator *validation.Validator
}

func NewAssignmentStore(repo AssignmentsRepo, v *validation.Validator) *AssignmentStore {
	return &AssignmentStore{repo: repo, validator: v}
}

func (s *AssignmentStore) Submit(ctx context.Context, owner string, req assignment.SubmitRequest) (assignment.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return assignment.Assignment{}, err
	}

	a := assignment.NewFromSubmitRequest(owner, req)

	if err := s.repo.Create(ctx, a); err != nil {
		return assignment.Assignment{}, &StorageError{Op: "submit", Err: err}
	}

	return a, nil
}

func (s *AssignmentStore) ListAll(ctx context.Context) ([]assignment.Assignment, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate("list_all", err)
	}
	return items, nil
}

func (s *AssignmentStore) ListByOwner(ctx context.Context, owner string) ([]assignment.Assignment, error) {
	items, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, translate("list_by_owner", err)
	}
	return items, nil
}

func (s *AssignmentStore) FindByID(ctx context.Context, id string) (assignment.Assignment, error) {
	if !isID(id) {
		return assignment.Assignment{}, ErrNotFound
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return assignment.Assignment{}, translate("find_assignment", err)
	}
	return a, nil
}

func (s *AssignmentStore) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return ErrNotFound
	}

	return translate("delete_assignment", s.repo.Delete(ctx, id))
}

// Grade sets the grade. Only admins may grade; the check runs before any I/O.
func (s *AssignmentStore) Grade(ctx context.Context, id, grade string, requester user.User) (assignment.Assignment, error) {
	if !requester.IsAdmin() {
		return assignment.Assignment{}, ErrPermission
	}

	if err := s.validator.Var("grade", grade, gradeRules); err != nil {
		return assignment.Assignment{}, err
	}

	if !isID(id) {
		return assignment.Assignment{}, ErrNotFound
	}

	a, err := s.repo.UpdateGrade(ctx, id, grade)
	if err != nil {
		return assignment.Assignment{}, translate("grade", err)
	}
	return a, nil
}

func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
