package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/google/uuid"
)

func TestSubmitSetsDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "a@x.com", "Alice", "secret1")

	a, err := f.store.Submit(ctx, u.ID, assignment.SubmitRequest{Student: "Bob", Name: "HW1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if a.Grade != assignment.Ungraded {
		t.Fatalf("got grade %q, want NA", a.Grade)
	}
	if a.Owner != u.ID {
		t.Fatalf("got owner %q, want %q", a.Owner, u.ID)
	}
	if a.Date.IsZero() {
		t.Fatalf("date should be set")
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Submit(context.Background(), uuid.NewString(), assignment.SubmitRequest{Student: "Bob"})

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGradePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.register(t, "a@x.com", "Alice", "secret1")
	admin := f.admin(t)

	a, err := f.store.Submit(ctx, student.ID, assignment.SubmitRequest{Student: "Bob", Name: "HW1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.store.Grade(ctx, a.ID, "A", student); !errors.Is(err, service.ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}

	got, _ := f.store.FindByID(ctx, a.ID)
	if got.Grade != assignment.Ungraded {
		t.Fatalf("student grading must not mutate, got %q", got.Grade)
	}

	graded, err := f.store.Grade(ctx, a.ID, "A-", admin)
	if err != nil {
		t.Fatalf("admin grade: %v", err)
	}
	if graded.Grade != "A-" {
		t.Fatalf("got %q, want A-", graded.Grade)
	}

	if _, err := f.store.Grade(ctx, uuid.NewString(), "B", admin); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing id, got %v", err)
	}
}

func TestDeleteMissingLeavesOthersAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "a@x.com", "Alice", "secret1")
	a, _ := f.store.Submit(ctx, u.ID, assignment.SubmitRequest{Student: "Bob", Name: "HW1"})

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		if err := f.store.Delete(ctx, id); !errors.Is(err, service.ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}

	all, err := f.store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ID != a.ID {
		t.Fatalf("other records changed: %+v", all)
	}

	if err := f.store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.store.FindByID(ctx, a.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected deleted record to be gone, got %v", err)
	}
}

func TestListByOwnerAndAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.register(t, "a@x.com", "Alice", "secret1")
	carol := f.register(t, "c@x.com", "Carol", "secret1")

	for _, name := range []string{"HW1", "HW2"} {
		if _, err := f.store.Submit(ctx, alice.ID, assignment.SubmitRequest{Student: "Bob", Name: name}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if _, err := f.store.Submit(ctx, carol.ID, assignment.SubmitRequest{Student: "Dan", Name: "HW1"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, _ := f.store.ListByOwner(ctx, alice.ID)
	if len(mine) != 2 || mine[0].Name != "HW1" || mine[1].Name != "HW2" {
		t.Fatalf("unexpected own list: %+v", mine)
	}

	all, _ := f.store.ListAll(ctx)
	if len(all) != 3 {
		t.Fatalf("got %d assignments, want 3", len(all))
	}
}

func TestEndToEndSubmitAndGrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a@x.com", "A", "secret1")

	submitted, err := f.store.Submit(ctx, a.ID, assignment.SubmitRequest{Student: "Bob", Name: "HW1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := f.store.ListByOwner(ctx, a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].Grade != "NA" {
		t.Fatalf("expected one ungraded assignment, got %+v", mine)
	}

	if _, err := f.store.Grade(ctx, submitted.ID, "B+", f.admin(t)); err != nil {
		t.Fatalf("grade: %v", err)
	}

	got, err := f.store.FindByID(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Grade != "B+" {
		t.Fatalf("got grade %q, want B+", got.Grade)
	}
}
