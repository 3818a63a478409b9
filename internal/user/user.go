// Package user holds credential records and the verifier used by the login
// flow.
package user

import (
	"context"
	"errors"
	"time"
)

// User is a stored admin credential.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

var (
	// ErrNotFound indicates no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrBadPassword indicates the presented password does not match.
	ErrBadPassword = errors.New("password mismatch")
)

// Verifier checks a presented username/password pair. The two failure modes
// stay distinct here; callers surface a single generic message to clients.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (User, error)
}

// Finder resolves users by id, used to re-check that a session's user still
// exists.
type Finder interface {
	FindByID(ctx context.Context, id string) (User, error)
}
