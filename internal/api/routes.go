// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Sessions SessionManager
	Logger   *zap.Logger
	Version  string
	// RejectUnknownOptions answers 400 for option values outside the catalog
	RejectUnknownOptions bool
	// WebSocketMaxMessageSize limits client messages, in bytes
	WebSocketMaxMessageSize int64
}

// Handlers holds all handler instances
type Handlers struct {
	Health        HealthHandler
	Catalog       CatalogHandler
	Session       SessionHandler
	Configuration ConfigurationHandler
	Scene         SceneHandler
	Design        DesignHandler
	Live          LiveHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	strict := deps.RejectUnknownOptions
	return &Handlers{
		Health:        NewHealthHandler(deps.Version, deps.Sessions),
		Catalog:       NewCatalogHandler(),
		Session:       NewSessionHandler(deps.Sessions),
		Configuration: NewConfigurationHandler(deps.Sessions, strict),
		Scene:         NewSceneHandler(deps.Sessions),
		Design:        NewDesignHandler(deps.Sessions, strict, deps.Logger),
		Live:          NewWebSocketHandler(deps.Sessions, strict, deps.WebSocketMaxMessageSize, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Option catalog
	apiGroup.GET("/catalog", handlers.Catalog.HandleGetCatalog)

	// Session lifecycle and login gate
	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.POST("", handlers.Session.HandleCreateSession)
	sessionGroup.GET("/:id", handlers.Session.HandleGetSession)
	sessionGroup.DELETE("/:id", handlers.Session.HandleDeleteSession)
	sessionGroup.POST("/:id/login", handlers.Session.HandleLogin)
	sessionGroup.POST("/:id/signup", handlers.Session.HandleSignup)
	sessionGroup.POST("/:id/keepalive", handlers.Session.HandleKeepAlive)

	// Configuration store
	sessionGroup.GET("/:id/configuration", handlers.Configuration.HandleGetConfiguration)
	sessionGroup.PATCH("/:id/configuration", handlers.Configuration.HandlePatchConfiguration)
	sessionGroup.POST("/:id/configuration/reset", handlers.Configuration.HandleResetConfiguration)
	sessionGroup.PUT("/:id/camera/:preset", handlers.Configuration.HandleCameraPreset)

	// Derived geometry and scene
	sessionGroup.GET("/:id/geometry", handlers.Scene.HandleGetGeometry)
	sessionGroup.GET("/:id/scene", handlers.Scene.HandleGetScene)
	sessionGroup.GET("/:id/scene/msgpack", handlers.Scene.HandleGetSceneMsgpack)

	// Design documents
	sessionGroup.GET("/:id/design", handlers.Design.HandleGetDesign)
	sessionGroup.PUT("/:id/design", handlers.Design.HandlePutDesign)

	// Live updates
	sessionGroup.GET("/:id/ws", handlers.Live.HandleWebSocket)
}

// IsQuietPath reports requests that are too frequent to be worth a log line
func IsQuietPath(c echo.Context) bool {
	path := c.Path()
	return path == "/api/health" || path == "/api/sessions/:id/keepalive"
}
