// Package web tests drive the handlers through httptest with in-memory
// fakes for the stores and a real session manager backed by miniredis.
package web

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"schoolsite/internal/blob"
	"schoolsite/internal/config"
	"schoolsite/internal/enroll"
	"schoolsite/internal/event"
	"schoolsite/internal/session"
	"schoolsite/internal/user"
)

// memVerifier is the in-memory credential verifier fake.
type memVerifier struct {
	users map[string]user.User // username -> user, Password kept in PasswordHash
}

func (v *memVerifier) Verify(_ context.Context, username, password string) (user.User, error) {
	u, ok := v.users[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if u.PasswordHash != password {
		return user.User{}, user.ErrBadPassword
	}
	return u, nil
}

func (v *memVerifier) FindByID(_ context.Context, id string) (user.User, error) {
	for _, u := range v.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

type memEnrolls struct {
	mu      sync.Mutex
	records []enroll.Enrollment
}

func (m *memEnrolls) Insert(_ context.Context, e enroll.Enrollment) (enroll.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	m.records = append(m.records, e)
	return e, nil
}

func (m *memEnrolls) List(_ context.Context) ([]enroll.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]enroll.Enrollment, len(m.records))
	copy(out, m.records)
	return out, nil
}

type memEvents struct {
	mu      sync.Mutex
	records []event.Event
}

func (m *memEvents) Insert(_ context.Context, evt event.Event) (event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	evt.ID = uuid.NewString()
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now()
	}
	m.records = append(m.records, evt)
	return evt, nil
}

func (m *memEvents) ListRecent(_ context.Context, limit int) ([]event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event.Event, len(m.records))
	copy(out, m.records)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memBlobs struct {
	mu      sync.Mutex
	objects []blob.Ref
	content map[string][]byte // blob id -> bytes
}

func newMemBlobs() *memBlobs {
	return &memBlobs{content: make(map[string][]byte)}
}

func (m *memBlobs) Put(_ context.Context, filename string, r io.Reader) (blob.Ref, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return blob.Ref{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := blob.Ref{ID: uuid.NewString(), Filename: filename, Size: int64(len(data))}
	m.objects = append(m.objects, ref)
	m.content[ref.ID] = data
	return ref, nil
}

func (m *memBlobs) resolve(filename string) (blob.Ref, bool) {
	for i := len(m.objects) - 1; i >= 0; i-- {
		if m.objects[i].Filename == filename {
			return m.objects[i], true
		}
	}
	return blob.Ref{}, false
}

func (m *memBlobs) Stat(_ context.Context, filename string) (blob.Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.resolve(filename)
	if !ok {
		return blob.Ref{}, blob.ErrNotFound
	}
	return ref, nil
}

func (m *memBlobs) Stream(_ context.Context, filename string, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.resolve(filename)
	if !ok {
		return blob.ErrNotFound
	}
	_, err := w.Write(m.content[ref.ID])
	return err
}

type fixture struct {
	srv     *Server
	router  *gin.Engine
	enrolls *memEnrolls
	events  *memEvents
	blobs   *memBlobs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.App{
		SessionIssuer:     "schoolsite-test",
		SessionSigningKey: "test-signing-key",
		SessionTTL:        time.Hour,
		PagesDir:          "../../web/pages",
		TemplatesDir:      "../../web/templates",
		StaticDir:         "../../web/static",
	}

	verifier := &memVerifier{users: map[string]user.User{
		"admin": {ID: "u-admin", Username: "admin", PasswordHash: "s3cret"},
	}}
	f := &fixture{
		enrolls: &memEnrolls{},
		events:  &memEvents{},
		blobs:   newMemBlobs(),
	}
	f.srv = &Server{
		Cfg:      cfg,
		Verifier: verifier,
		Users:    verifier,
		Enrolls:  f.enrolls,
		Events:   f.events,
		Blobs:    f.blobs,
		Sessions: session.NewManager(client, cfg.SessionTTL),
	}

	f.router = gin.New()
	f.srv.RegisterRoutes(f.router)
	return f
}

// do performs a request, attaching any cookies, and returns the recorder.
func (f *fixture) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// login performs a form login and returns the cookies for follow-up requests.
func (f *fixture) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	form := "username=" + username + "&password=" + password
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req, nil)
	return w.Result().Cookies()
}
