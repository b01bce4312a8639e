package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/sangkips/invoiceau-api/internal/config"
	"go.uber.org/zap"
)

// Context keys shared with handlers
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	SessionIDKey = "session_id"
	RequestIDKey = "request_id"
	sessionKey   = "session"
)

// Values kept in the session cookie
const (
	sessionValueID     = "sid"
	sessionValueUserID = "user_id"
	sessionValueState  = "oauth_state"
)

// NewCookieStore creates the signed cookie store backing browser sessions
func NewCookieStore(cfg *config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionMiddleware loads the browser session and gives every client a
// stable session id
func SessionMiddleware(store sessions.Store, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// a tampered or stale cookie yields a fresh session alongside the error
		session, err := store.Get(c.Request, cookieName)
		if err != nil {
			logger.Debug("discarding unreadable session cookie", zap.Error(err))
		}

		sid, _ := session.Values[sessionValueID].(string)
		if sid == "" {
			sid = uuid.NewString()
			session.Values[sessionValueID] = sid
			if err := session.Save(c.Request, c.Writer); err != nil {
				logger.Warn("failed to save session", zap.Error(err))
			}
		}

		c.Set(SessionIDKey, sid)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session loaded by SessionMiddleware
func CurrentSession(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*sessions.Session)
	return session
}

// SessionUserID returns the user signed in through the browser session
func SessionUserID(c *gin.Context) (uuid.UUID, bool) {
	session := CurrentSession(c)
	if session == nil {
		return uuid.Nil, false
	}
	raw, _ := session.Values[sessionValueUserID].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SetSessionUser records the signed in user. It must run before the response
// body is written.
func SetSessionUser(c *gin.Context, userID uuid.UUID) error {
	return updateSession(c, func(s *sessions.Session) {
		s.Values[sessionValueUserID] = userID.String()
	})
}

// ClearSessionUser signs the browser session out but keeps its session id
func ClearSessionUser(c *gin.Context) error {
	return updateSession(c, func(s *sessions.Session) {
		delete(s.Values, sessionValueUserID)
	})
}

// SetOAuthState remembers the state sent to the OAuth provider
func SetOAuthState(c *gin.Context, state string) error {
	return updateSession(c, func(s *sessions.Session) {
		s.Values[sessionValueState] = state
	})
}

// PopOAuthState returns and forgets the remembered OAuth state
func PopOAuthState(c *gin.Context) (string, error) {
	session := CurrentSession(c)
	if session == nil {
		return "", nil
	}
	state, _ := session.Values[sessionValueState].(string)
	delete(session.Values, sessionValueState)
	return state, session.Save(c.Request, c.Writer)
}

func updateSession(c *gin.Context, fn func(*sessions.Session)) error {
	session := CurrentSession(c)
	if session == nil {
		return nil
	}
	fn(session)
	return session.Save(c.Request, c.Writer)
}
