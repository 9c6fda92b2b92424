// handlers_catalog.go - Option catalog handler
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/models"
)

// catalogResponse is the catalog plus the camera presets offered by the viewer.
type catalogResponse struct {
	catalog.Listing
	CameraPresets []models.CameraPreset `json:"cameraPresets"`
	Defaults      models.Configuration  `json:"defaults"`
}

// CatalogHandlerImpl implements the CatalogHandler interface
type CatalogHandlerImpl struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() CatalogHandler {
	return &CatalogHandlerImpl{}
}

// HandleGetCatalog lists every option family in display order
func (h *CatalogHandlerImpl) HandleGetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, catalogResponse{
		Listing:       catalog.All(),
		CameraPresets: models.CameraPresets(),
		Defaults:      models.DefaultConfiguration(),
	})
}
