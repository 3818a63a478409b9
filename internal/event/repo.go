// Package event persists admin-created events and their picture references.
package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PicRef is a non-owning reference into the blob store. Deleting a blob does
// not cascade here.
type PicRef struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// Event is a scheduled institutional event.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Venue       string    `json:"venue"`
	Description string    `json:"description"`
	Pic         *PicRef   `json:"pic,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrNotFound indicates no event matches the lookup key.
var ErrNotFound = errors.New("event not found")

// Repo persists events in Postgres.
type Repo struct {
	db *pgxpool.Pool
}

// NewRepo creates a repo.
func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Insert writes a new event and returns it with id and timestamp set.
func (r *Repo) Insert(ctx context.Context, evt Event) (Event, error) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	var fileID, filename *string
	if evt.Pic != nil {
		fileID = &evt.Pic.FileID
		filename = &evt.Pic.Filename
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO events (id, name, start_date, end_date, venue, description, pic_file_id, pic_filename)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, evt.ID, evt.Name, evt.StartDate, evt.EndDate, evt.Venue, evt.Description, fileID, filename)
	if err := row.Scan(&evt.CreatedAt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// GetByID returns a single event.
func (r *Repo) GetByID(ctx context.Context, id string) (Event, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, start_date, end_date, venue, description, pic_file_id, pic_filename, created_at
		FROM events WHERE id = $1
	`, id)
	evt, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return evt, nil
}

// ListRecent returns the most recently created events, newest first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, start_date, end_date, venue, description, pic_file_id, pic_filename, created_at
		FROM events
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, evt)
	}
	return res, rows.Err()
}

func scanEvent(row pgx.Row) (Event, error) {
	var evt Event
	var fileID, filename *string
	if err := row.Scan(&evt.ID, &evt.Name, &evt.StartDate, &evt.EndDate, &evt.Venue, &evt.Description, &fileID, &filename, &evt.CreatedAt); err != nil {
		return Event{}, err
	}
	if fileID != nil && filename != nil {
		evt.Pic = &PicRef{FileID: *fileID, Filename: *filename}
	}
	return evt, nil
}
