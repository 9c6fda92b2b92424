// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/electroride/configurator/internal/models"
	"github.com/electroride/configurator/internal/session"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// CatalogHandler serves the option catalog
type CatalogHandler interface {
	HandleGetCatalog(c echo.Context) error
}

// SessionHandler handles session lifecycle and the auth gate
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleLogin(c echo.Context) error
	HandleSignup(c echo.Context) error
	HandleKeepAlive(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
}

// ConfigurationHandler reads and updates a session's configuration
type ConfigurationHandler interface {
	HandleGetConfiguration(c echo.Context) error
	HandlePatchConfiguration(c echo.Context) error
	HandleResetConfiguration(c echo.Context) error
	HandleCameraPreset(c echo.Context) error
}

// SceneHandler serves what the renderer derives from a configuration
type SceneHandler interface {
	HandleGetGeometry(c echo.Context) error
	HandleGetScene(c echo.Context) error
	HandleGetSceneMsgpack(c echo.Context) error
}

// DesignHandler exports and imports YAML design documents
type DesignHandler interface {
	HandleGetDesign(c echo.Context) error
	HandlePutDesign(c echo.Context) error
}

// LiveHandler pushes configuration updates over a WebSocket
type LiveHandler interface {
	HandleWebSocket(c echo.Context) error
}

// SessionManager defines the interface for session management
// This allows mocking in tests
type SessionManager interface {
	Create() models.Session
	Get(id string) (models.Session, bool)
	Login(id string, creds models.Credentials) (models.Session, error)
	Signup(id string, creds models.Credentials) (models.Session, error)
	Configurator(id string) (*session.State, error)
	Touch(id string) bool
	Delete(id string) bool
	Count() int
}
