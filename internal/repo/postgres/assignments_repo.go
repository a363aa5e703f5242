package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewAssignmentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AssignmentsRepo {
	return &AssignmentsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *AssignmentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const assignmentColumns = `id, owner, student, name, comment, detail, grade, date`

func (r *AssignmentsRepo) Create(ctx context.Context, a assignment.Assignment) error {
	return r.observe("assignments.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO assignments (`+assignmentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			a.ID, a.Owner, a.Student, a.Name, a.Comment, a.Detail, a.Grade, a.Date)
		return err
	})
}

func (r *AssignmentsRepo) List(ctx context.Context) ([]assignment.Assignment, error) {
	return r.query(ctx, "assignments.list",
		`SELECT `+assignmentColumns+` FROM assignments ORDER BY date ASC, id ASC`)
}

func (r *AssignmentsRepo) ListByOwner(ctx context.Context, owner string) ([]assignment.Assignment, error) {
	return r.query(ctx, "assignments.list_by_owner",
		`SELECT `+assignmentColumns+` FROM assignments WHERE owner = $1 ORDER BY date ASC, id ASC`,
		owner)
}

func (r *AssignmentsRepo) GetByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment

	err := r.observe("assignments.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id,
		).Scan(&a.ID, &a.Owner, &a.Student, &a.Name, &a.Comment, &a.Detail, &a.Grade, &a.Date)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, err
	}

	return a, nil
}

func (r *AssignmentsRepo) UpdateGrade(ctx context.Context, id, grade string) (assignment.Assignment, error) {
	var a assignment.Assignment

	err := r.observe("assignments.update_grade", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE assignments
			SET grade = $2
			WHERE id = $1
			RETURNING `+assignmentColumns,
			id,
			grade,
		).Scan(&a.ID, &a.Owner, &a.Student, &a.Name, &a.Comment, &a.Detail, &a.Grade, &a.Date)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, err
	}

	return a, nil
}

func (r *AssignmentsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("assignments.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return assignment.ErrNotFound
	}

	return nil
}

func (r *AssignmentsRepo) query(ctx context.Context, op, sql string, args ...any) ([]assignment.Assignment, error) {
	output := make([]assignment.Assignment, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var a assignment.Assignment
			if err := rows.Scan(&a.ID, &a.Owner, &a.Student, &a.Name, &a.Comment, &a.Detail, &a.Grade, &a.Date); err != nil {
				return err
			}
			output = append(output, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
