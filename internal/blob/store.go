// Package blob stores named binary objects in Postgres large objects. The
// server chunks large-object content internally, so uploads and downloads
// stream without buffering whole files in memory.
package blob

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no object carries the requested filename.
var ErrNotFound = errors.New("blob not found")

// Ref identifies a stored object.
type Ref struct {
	ID       string
	Filename string
	Size     int64
}

// Store persists binary objects. Filenames are not unique; lookups by a
// duplicated filename resolve to the most recently written object.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Put streams content into a new large object and indexes it by filename.
// The caller keeps ownership of r; the store owns the written object.
func (s *Store) Put(ctx context.Context, filename string, r io.Reader) (Ref, error) {
	if filename == "" {
		return Ref{}, errors.New("filename required")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Ref{}, err
	}
	defer tx.Rollback(ctx)

	los := tx.LargeObjects()
	oid, err := los.Create(ctx, 0)
	if err != nil {
		return Ref{}, err
	}
	obj, err := los.Open(ctx, oid, pgx.LargeObjectModeWrite)
	if err != nil {
		return Ref{}, err
	}
	size, err := io.Copy(obj, r)
	if err != nil {
		_ = obj.Close()
		return Ref{}, err
	}
	if err := obj.Close(); err != nil {
		return Ref{}, err
	}

	ref := Ref{ID: uuid.NewString(), Filename: filename, Size: size}
	if _, err := tx.Exec(ctx, `
		INSERT INTO blobs (id, filename, oid, size)
		VALUES ($1, $2, $3, $4)
	`, ref.ID, ref.Filename, int64(oid), ref.Size); err != nil {
		return Ref{}, err
	}
	return ref, tx.Commit(ctx)
}

// Stream copies the content of the named object to w as a sequential read.
// It returns ErrNotFound when no object has that filename.
func (s *Store) Stream(ctx context.Context, filename string, w io.Writer) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var oid int64
	err = tx.QueryRow(ctx, `
		SELECT oid FROM blobs
		WHERE filename = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, filename).Scan(&oid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	los := tx.LargeObjects()
	obj, err := los.Open(ctx, uint32(oid), pgx.LargeObjectModeRead)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, obj); err != nil {
		_ = obj.Close()
		return err
	}
	if err := obj.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Stat resolves the newest object with the given filename without reading its
// content.
func (s *Store) Stat(ctx context.Context, filename string) (Ref, error) {
	var ref Ref
	var createdAt time.Time
	err := s.db.QueryRow(ctx, `
		SELECT id, filename, size, created_at FROM blobs
		WHERE filename = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, filename).Scan(&ref.ID, &ref.Filename, &ref.Size, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ref{}, ErrNotFound
		}
		return Ref{}, err
	}
	return ref, nil
}
