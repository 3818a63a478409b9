package store

import "context"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id UUID PRIMARY KEY,
		full_name TEXT NOT NULL,
		parent_email TEXT NOT NULL,
		gender TEXT NOT NULL,
		age INT NOT NULL,
		grade TEXT NOT NULL,
		branch TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		venue TEXT NOT NULL,
		description TEXT NOT NULL,
		pic_file_id UUID,
		pic_filename TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS events_created_at_idx ON events (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS blobs (
		id UUID PRIMARY KEY,
		filename TEXT NOT NULL,
		oid BIGINT NOT NULL,
		size BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS blobs_filename_idx ON blobs (filename, created_at DESC)`,
}

// Migrate creates the schema. Statements are idempotent so startup can run
// this unconditionally.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range migrations {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
