// Package web translates HTTP requests into store operations and renders the
// site's pages.
package web

import (
	"context"
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"schoolsite/internal/blob"
	"schoolsite/internal/config"
	"schoolsite/internal/enroll"
	"schoolsite/internal/event"
	"schoolsite/internal/session"
	"schoolsite/internal/user"
)

// EnrollmentStore persists enrollment submissions.
type EnrollmentStore interface {
	Insert(ctx context.Context, e enroll.Enrollment) (enroll.Enrollment, error)
	List(ctx context.Context) ([]enroll.Enrollment, error)
}

// EventStore persists events.
type EventStore interface {
	Insert(ctx context.Context, evt event.Event) (event.Event, error)
	ListRecent(ctx context.Context, limit int) ([]event.Event, error)
}

// BlobStore stores and streams named binary objects.
type BlobStore interface {
	Put(ctx context.Context, filename string, r io.Reader) (blob.Ref, error)
	Stat(ctx context.Context, filename string) (blob.Ref, error)
	Stream(ctx context.Context, filename string, w io.Writer) error
}

// Sessions manages browser sessions and flash messages.
type Sessions interface {
	Create(ctx context.Context) (session.Session, error)
	SetUser(ctx context.Context, id, userID string) error
	Get(ctx context.Context, id string) (session.Session, error)
	Destroy(ctx context.Context, id string) error
	AddFlash(ctx context.Context, id, msg string) error
	PopFlashes(ctx context.Context, id string) ([]string, error)
}

// Server holds every dependency the handlers need. It is constructed once at
// startup and passed into route registration; nothing here is global.
type Server struct {
	Cfg      config.App
	Verifier user.Verifier
	Users    user.Finder
	Enrolls  EnrollmentStore
	Events   EventStore
	Blobs    BlobStore
	Sessions Sessions
}

// eventsPageSize is the fixed number of events shown on the listing.
const eventsPageSize = 5

// RegisterRoutes wires all handlers onto the engine, including the HTML
// templates and static marketing pages.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.SetFuncMap(template.FuncMap{
		"longDate": formatLong,
	})
	r.LoadHTMLGlob(filepath.Join(s.Cfg.TemplatesDir, "*.tmpl"))

	r.GET("/login", s.handleLoginPage)
	r.POST("/login", s.handleLogin)
	r.GET("/logout", s.handleLogout)

	r.POST("/data", s.handleEnroll)
	r.GET("/events", s.handleListEvents)
	r.GET("/files/:filename", s.handleServeFile)

	protected := r.Group("/", s.requireAuth())
	protected.GET("/admin", s.pageHandler("AdminDashboard.html"))
	protected.POST("/create-event", s.handleCreateEvent)
	protected.GET("/enrolls", s.handleListEnrollments)

	s.registerPages(r)
}

// registerPages serves the static marketing pages.
func (s *Server) registerPages(r *gin.Engine) {
	pages := map[string]string{
		"/":             "index.html",
		"/home":         "index.html",
		"/about":        "AboutUs.html",
		"/history":      "OurHistory.html",
		"/ourTeam":      "OurTeam.html",
		"/tour":         "Tour.html",
		"/enrollment":   "Enrollment.html",
		"/mainBranch":   "MainBranch.html",
		"/townBranch":   "TownBranch.html",
		"/kayoleBranch": "KayoleBranch.html",
		"/create-event": "Create-event.html",
	}
	for route, file := range pages {
		r.GET(route, s.pageHandler(file))
	}
	r.StaticFile("/style.css", filepath.Join(s.Cfg.StaticDir, "style.css"))
	r.Static("/static", s.Cfg.StaticDir)
}

func (s *Server) pageHandler(file string) gin.HandlerFunc {
	path := filepath.Join(s.Cfg.PagesDir, file)
	return func(c *gin.Context) {
		c.File(path)
	}
}

// internalError logs the real error and returns a generic 500 so no store
// detail leaks to the client.
func internalError(c *gin.Context, err error) {
	log.Printf("internal error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
