package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin ensures an admin credential exists. It is a no-op when the
// username is already present or when no password is configured.
func SeedAdmin(ctx context.Context, db *DB, username, password string) error {
	if username == "" {
		return errors.New("admin username required")
	}
	if password == "" {
		return nil
	}

	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
	`, uuid.NewString(), username, string(hash))
	return err
}
