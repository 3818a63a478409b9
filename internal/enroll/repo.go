// Package enroll persists student enrollment submissions.
package enroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Enrollment is a submitted enrollment record.
type Enrollment struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	ParentEmail string    `json:"parent_email"`
	Gender      string    `json:"gender"`
	Age         int       `json:"age"`
	Grade       string    `json:"grade"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repo persists enrollments in Postgres.
type Repo struct {
	db *pgxpool.Pool
}

// NewRepo creates a repo.
func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Insert writes a new enrollment and returns it with id and timestamp set.
func (r *Repo) Insert(ctx context.Context, e Enrollment) (Enrollment, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO enrollments (id, full_name, parent_email, gender, age, grade, branch)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, e.ID, e.FullName, e.ParentEmail, e.Gender, e.Age, e.Grade, e.Branch)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return Enrollment{}, err
	}
	return e, nil
}

// List returns all enrollments, newest first.
func (r *Repo) List(ctx context.Context) ([]Enrollment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, full_name, parent_email, gender, age, grade, branch, created_at
		FROM enrollments
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.FullName, &e.ParentEmail, &e.Gender, &e.Age, &e.Grade, &e.Branch, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
