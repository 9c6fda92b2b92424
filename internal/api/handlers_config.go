// handlers_config.go - Configuration read/update handlers
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/electroride/configurator/internal/configstore"
	"github.com/electroride/configurator/internal/models"
	"github.com/electroride/configurator/internal/session"
)

// configurationResponse is a configuration with the store revision it was read at.
type configurationResponse struct {
	Revision      uint64               `json:"revision"`
	Configuration models.Configuration `json:"configuration"`
}

func newConfigurationResponse(cfg models.Configuration, revision uint64) configurationResponse {
	return configurationResponse{Revision: revision, Configuration: cfg}
}

func snapshotResponse(store *configstore.Store) configurationResponse {
	return newConfigurationResponse(store.Snapshot())
}

var errEmptyPatch = errors.New("patch names no field")

// checkPatch resolves colors by name and, when strict, rejects values outside
// the catalog. It fails on a patch that changes nothing.
func checkPatch(p *models.Patch, strict bool) error {
	if p.Empty() {
		return NewValidationError("configuration", errEmptyPatch)
	}
	if err := p.ResolveColors(); err != nil {
		return err
	}
	if strict {
		return p.Validate()
	}
	return nil
}

// openConfigurator resolves the unlocked session named by the :id path param.
func openConfigurator(c echo.Context, sessions SessionManager) (*session.State, error) {
	id := c.Param("id")
	state, err := sessions.Configurator(id)
	if err != nil {
		return nil, toAPIError(err, id)
	}
	return state, nil
}

// ConfigurationHandlerImpl implements the ConfigurationHandler interface
type ConfigurationHandlerImpl struct {
	sessions SessionManager
	strict   bool
}

// NewConfigurationHandler creates a new configuration handler. strict
// rejects option values that are not in the catalog.
func NewConfigurationHandler(sessions SessionManager, strict bool) ConfigurationHandler {
	return &ConfigurationHandlerImpl{sessions: sessions, strict: strict}
}

// HandleGetConfiguration returns the current configuration snapshot
func (h *ConfigurationHandlerImpl) HandleGetConfiguration(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshotResponse(state.Store()))
}

// HandlePatchConfiguration merges a partial update in a single store write
func (h *ConfigurationHandlerImpl) HandlePatchConfiguration(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}

	var patch models.Patch
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return NewBadRequestError("invalid configuration patch", err)
	}
	if err := checkPatch(&patch, h.strict); err != nil {
		return toAPIError(err, c.Param("id"))
	}

	return c.JSON(http.StatusOK, newConfigurationResponse(state.Store().Apply(patch)))
}

// HandleResetConfiguration restores the default configuration
func (h *ConfigurationHandlerImpl) HandleResetConfiguration(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newConfigurationResponse(state.Store().Restore()))
}

// HandleCameraPreset moves the camera to a named preset (front, side or top)
func (h *ConfigurationHandlerImpl) HandleCameraPreset(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	name := c.Param("preset")
	preset, ok := models.CameraPresetByName(name)
	if !ok {
		return NewNotFoundError("camera preset", name)
	}
	pos := preset.Position
	return c.JSON(http.StatusOK, newConfigurationResponse(state.Store().Apply(models.Patch{CameraPosition: &pos})))
}
