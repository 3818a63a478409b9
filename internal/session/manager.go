// Package session manages browser sessions in redis, including the one-shot
// flash messages shown on the login page.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the session id does not resolve to a live session.
var ErrNotFound = errors.New("session not found")

// Session is the server-side state associated with one browser client. An
// empty UserID means the client is anonymous (e.g. it only carries flashes).
type Session struct {
	ID     string
	UserID string
}

// Manager stores sessions and flashes in redis with a fixed TTL.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewManager creates a manager. ttl bounds both session and flash lifetime.
func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{client: client, ttl: ttl}
}

func sessKey(id string) string  { return "schoolsite:sess:" + id }
func flashKey(id string) string { return "schoolsite:flash:" + id }

// Create establishes a new anonymous session.
func (m *Manager) Create(ctx context.Context) (Session, error) {
	s := Session{ID: uuid.NewString()}
	if err := m.client.Set(ctx, sessKey(s.ID), "", m.ttl).Err(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// SetUser marks the session as authenticated for the given user.
func (m *Manager) SetUser(ctx context.Context, id, userID string) error {
	ok, err := m.client.SetXX(ctx, sessKey(id), userID, m.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Get resolves a session id. Expired or unknown ids return ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	userID, err := m.client.Get(ctx, sessKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return Session{ID: id, UserID: userID}, nil
}

// Destroy removes the session and any pending flashes.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.client.Del(ctx, sessKey(id), flashKey(id)).Err()
}

// AddFlash queues a one-shot message for the session's next rendered page.
func (m *Manager) AddFlash(ctx context.Context, id, msg string) error {
	pipe := m.client.TxPipeline()
	pipe.RPush(ctx, flashKey(id), msg)
	pipe.Expire(ctx, flashKey(id), m.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// PopFlashes returns queued messages and clears them.
func (m *Manager) PopFlashes(ctx context.Context, id string) ([]string, error) {
	pipe := m.client.TxPipeline()
	lrange := pipe.LRange(ctx, flashKey(id), 0, -1)
	pipe.Del(ctx, flashKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return lrange.Val(), nil
}
