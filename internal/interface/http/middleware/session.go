package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/internal/domain/editor"
	"github.com/xiebiao/booknotes/pkg/response"
)

const sessionTokenKey = "session_token"

// SessionMiddleware resolves the session token of each request.
// The token comes from the session cookie or an Authorization: Bearer header.
type SessionMiddleware struct {
	gate       editor.Gate
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionMiddleware creates the session middleware
func NewSessionMiddleware(gate editor.Gate, cookieName string, ttl time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		gate:       gate,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Resolve stores the request's token (possibly empty) in the context
func (m *SessionMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionTokenKey, m.extract(c))
		c.Next()
	}
}

// RequireEditor aborts with Forbidden unless the session is an editor
func (m *SessionMiddleware) RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.gate.Authorize(c.Request.Context(), SessionToken(c)); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

// SetCookie hands token to the client (HttpOnly, SameSite=Lax)
func (m *SessionMiddleware) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	c.Set(sessionTokenKey, token)
}

// ClearCookie expires the session cookie
func (m *SessionMiddleware) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

func (m *SessionMiddleware) extract(c *gin.Context) string {
	// Authorization: Bearer <token>
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if token, err := c.Cookie(m.cookieName); err == nil {
		return token
	}
	return ""
}

// SessionToken returns the token resolved by Resolve, "" when none
func SessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
