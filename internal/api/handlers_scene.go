// handlers_scene.go - Derived geometry and scene handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/electroride/configurator/internal/geometry"
	"github.com/electroride/configurator/internal/scene"
)

// SceneHandlerImpl implements the SceneHandler interface
type SceneHandlerImpl struct {
	sessions SessionManager
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(sessions SessionManager) SceneHandler {
	return &SceneHandlerImpl{sessions: sessions}
}

// HandleGetGeometry returns the placement values derived from the configuration
func (h *SceneHandlerImpl) HandleGetGeometry(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, geometry.Derive(state.Store().Get()))
}

// HandleGetScene returns the full scene description as JSON
func (h *SceneHandlerImpl) HandleGetScene(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scene.Compose(state.Store().Get()))
}

// HandleGetSceneMsgpack returns the scene in MessagePack format.
func (h *SceneHandlerImpl) HandleGetSceneMsgpack(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(scene.Compose(state.Store().Get()))
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}
