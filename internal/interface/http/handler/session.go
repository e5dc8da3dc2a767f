package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/interface/http/dto"
	"github.com/xiebiao/booknotes/internal/interface/http/middleware"
	"github.com/xiebiao/booknotes/pkg/response"
)

// SessionHandler session endpoints
type SessionHandler struct {
	sessions *library.SessionUseCase
	cookies  *middleware.SessionMiddleware
}

// NewSessionHandler creates the session handler
func NewSessionHandler(sessions *library.SessionUseCase, cookies *middleware.SessionMiddleware) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies}
}

// CreateSession starts a guest session
// @Summary      Start a session
// @Tags         session
// @Produce      json
// @Success      200 {object} response.Response{data=library.SessionResponse}
// @Router       /api/v1/session [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	s, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cookies.SetCookie(c, s.Token)
	response.Success(c, s)
}

// GetSession returns the role of the current session
// @Summary      Current session role
// @Tags         session
// @Produce      json
// @Success      200 {object} response.Response{data=library.SessionResponse}
// @Router       /api/v1/session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	response.Success(c, h.sessions.Role(c.Request.Context(), middleware.SessionToken(c)))
}

// SignIn checks the editor credentials on the current session.
// A rejected attempt leaves the session as a guest.
// @Summary      Editor sign-in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body dto.SignInRequest true "credentials"
// @Success      200 {object} response.Response{data=library.SessionResponse}
// @Failure      200 {object} response.Response "40103 invalid username or password"
// @Failure      200 {object} response.Response "42900 too many attempts"
// @Router       /api/v1/session/sign-in [post]
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s, err := h.sessions.SignIn(c.Request.Context(), middleware.SessionToken(c), req.Username, req.Password)
	if s != nil {
		h.cookies.SetCookie(c, s.Token)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s)
}

// SignOut ends the current session
// @Summary      Sign out
// @Tags         session
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/session [delete]
func (h *SessionHandler) SignOut(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	h.cookies.ClearCookie(c)
	response.Success(c, nil)
}
