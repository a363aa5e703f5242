package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/classroom/internal/domain/assignment"
)

type AssignmentsRepo struct {
	mu    sync.RWMutex
	items map[string]assignment.Assignment
	order []string // insertion order
}

func NewAssignmentsRepo() *AssignmentsRepo {
	return &AssignmentsRepo{
		items: make(map[string]assignment.Assignment),
	}
}

func (r *AssignmentsRepo) Create(_ context.Context, a assignment.Assignment) error {
	r.mu.Lock()
	r.items[a.ID] = a
	r.order = append(r.order, a.ID)
	r.mu.Unlock()

	return nil
}

func (r *AssignmentsRepo) List(_ context.Context) ([]assignment.Assignment, error) {
	return r.filter(func(assignment.Assignment) bool { return true }), nil
}

func (r *AssignmentsRepo) ListByOwner(_ context.Context, owner string) ([]assignment.Assignment, error) {
	return r.filter(func(a assignment.Assignment) bool { return a.Owner == owner }), nil
}

func (r *AssignmentsRepo) GetByID(_ context.Context, id string) (assignment.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (r *AssignmentsRepo) UpdateGrade(_ context.Context, id, grade string) (assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}

	a.Grade = grade
	r.items[id] = a
	return a, nil
}

func (r *AssignmentsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return assignment.ErrNotFound
	}

	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *AssignmentsRepo) filter(keep func(assignment.Assignment) bool) []assignment.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]assignment.Assignment, 0, len(r.order))
	for _, id := range r.order {
		if a := r.items[id]; keep(a) {
			out = append(out, a)
		}
	}
	return out
}
