// handlers_session.go - Session lifecycle and login gate handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/electroride/configurator/internal/models"
	"github.com/electroride/configurator/internal/session"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessions SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionManager) SessionHandler {
	return &SessionHandlerImpl{sessions: sessions}
}

// HandleCreateSession starts a locked session at the default configuration
func (h *SessionHandlerImpl) HandleCreateSession(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.sessions.Create())
}

// HandleGetSession returns session status without extending its lifetime
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, sess)
}

// HandleLogin unlocks the configurator for the session
func (h *SessionHandlerImpl) HandleLogin(c echo.Context) error {
	return h.unlock(c, h.sessions.Login)
}

// HandleSignup unlocks the configurator for the session, requiring a username
func (h *SessionHandlerImpl) HandleSignup(c echo.Context) error {
	return h.unlock(c, h.sessions.Signup)
}

func (h *SessionHandlerImpl) unlock(c echo.Context, fn func(string, models.Credentials) (models.Session, error)) error {
	id := c.Param("id")
	var creds models.Credentials
	if err := c.Bind(&creds); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	sess, err := fn(id, creds)
	if err != nil {
		return toAPIError(err, id)
	}
	return c.JSON(http.StatusOK, sess)
}

// HandleKeepAlive extends session lifetime while the viewer is open
func (h *SessionHandlerImpl) HandleKeepAlive(c echo.Context) error {
	id := c.Param("id")
	if !h.sessions.Touch(id) {
		return toAPIError(session.ErrSessionNotFound, id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleDeleteSession ends the session and closes its live connections
func (h *SessionHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("id")
	if !h.sessions.Delete(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}
