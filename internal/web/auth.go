package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolsite/internal/session"
	"schoolsite/internal/user"
)

const sessionCookie = "ss_session"

// failedLoginFlash deliberately does not say whether the username or the
// password was wrong.
const failedLoginFlash = "Incorrect username or password."

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentSession resolves the session cookie to a live session. A missing
// cookie, a bad signature, or an expired session all mean anonymous.
func (s *Server) currentSession(c *gin.Context) (session.Session, bool) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie == "" {
		return session.Session{}, false
	}
	id, err := session.ParseToken(cookie, s.Cfg.SessionSigningKey, s.Cfg.SessionIssuer)
	if err != nil {
		return session.Session{}, false
	}
	sess, err := s.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

// ensureSession returns the client's session, creating an anonymous one (and
// issuing its cookie) when none exists. Flash messages need a session even
// before login succeeds.
func (s *Server) ensureSession(c *gin.Context) (session.Session, error) {
	if sess, ok := s.currentSession(c); ok {
		return sess, nil
	}
	sess, err := s.Sessions.Create(c.Request.Context())
	if err != nil {
		return session.Session{}, err
	}
	token, err := session.SignToken(sess.ID, s.Cfg.SessionIssuer, s.Cfg.SessionSigningKey, s.Cfg.SessionTTL)
	if err != nil {
		return session.Session{}, err
	}
	s.setSessionCookie(c, token)
	return sess, nil
}

// requireAuth gates protected routes. Anonymous clients are redirected to the
// login page; this is control flow, not an error. The session's user must
// still resolve in the user store, otherwise the client is treated as
// anonymous.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.currentSession(c)
		if !ok || sess.UserID == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		u, err := s.Users.FindByID(c.Request.Context(), sess.UserID)
		if err != nil {
			clearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user", u)
		c.Next()
	}
}

func (s *Server) handleLoginPage(c *gin.Context) {
	var flashes []string
	if sess, ok := s.currentSession(c); ok {
		msgs, err := s.Sessions.PopFlashes(c.Request.Context(), sess.ID)
		if err != nil {
			log.Printf("pop flashes: %v", err)
		} else {
			flashes = msgs
		}
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"Flashes": flashes})
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	u, err := s.Verifier.Verify(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrBadPassword) {
			loginFailures.Inc()
			sess, serr := s.ensureSession(c)
			if serr == nil {
				if ferr := s.Sessions.AddFlash(c.Request.Context(), sess.ID, failedLoginFlash); ferr != nil {
					log.Printf("add flash: %v", ferr)
				}
			}
			c.Redirect(http.StatusFound, "/login")
			return
		}
		internalError(c, err)
		return
	}

	// Fresh session id on privilege change; any pre-login session is dropped.
	if old, ok := s.currentSession(c); ok {
		if err := s.Sessions.Destroy(c.Request.Context(), old.ID); err != nil {
			log.Printf("destroy session: %v", err)
		}
	}
	sess, err := s.Sessions.Create(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	if err := s.Sessions.SetUser(c.Request.Context(), sess.ID, u.ID); err != nil {
		internalError(c, err)
		return
	}
	token, err := session.SignToken(sess.ID, s.Cfg.SessionIssuer, s.Cfg.SessionSigningKey, s.Cfg.SessionTTL)
	if err != nil {
		internalError(c, err)
		return
	}
	s.setSessionCookie(c, token)
	loginSuccesses.Inc()
	c.Redirect(http.StatusFound, "/admin")
}

func (s *Server) handleLogout(c *gin.Context) {
	if sess, ok := s.currentSession(c); ok {
		if err := s.Sessions.Destroy(c.Request.Context(), sess.ID); err != nil {
			log.Printf("destroy session: %v", err)
		}
	}
	clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}
