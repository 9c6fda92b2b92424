// handlers_design.go - YAML design export/import handlers
package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/electroride/configurator/internal/design"
)

const (
	defaultDesignName = "My E-Bike"
	mimeYAML          = "application/yaml"
)

// designResponse reports the outcome of loading a design document.
type designResponse struct {
	Name string `json:"name"`
	configurationResponse
}

// DesignHandlerImpl implements the DesignHandler interface
type DesignHandlerImpl struct {
	sessions SessionManager
	strict   bool
	logger   *zap.Logger
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(sessions SessionManager, strict bool, logger *zap.Logger) DesignHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DesignHandlerImpl{sessions: sessions, strict: strict, logger: logger}
}

// HandleGetDesign downloads the current configuration as a YAML design.
// The optional ?name= query names the design.
func (h *DesignHandlerImpl) HandleGetDesign(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		name = defaultDesignName
	}

	data, err := design.Encode(name, state.Store().Get())
	if err != nil {
		return NewInternalError("failed to encode design", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", designFileName(name)))
	return c.Blob(http.StatusOK, mimeYAML, data)
}

// HandlePutDesign replaces every part selection with the uploaded design in
// a single store write.
func (h *DesignHandlerImpl) HandlePutDesign(c echo.Context) error {
	state, err := openConfigurator(c, h.sessions)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("failed to read design", err)
	}
	patch, name, err := design.Decode(data)
	if err != nil {
		if apiErr := toAPIError(err, c.Param("id")); apiErr.Status != http.StatusInternalServerError {
			return apiErr
		}
		return NewBadRequestError("invalid design document", err)
	}
	if err := checkPatch(&patch, h.strict); err != nil {
		return toAPIError(err, c.Param("id"))
	}

	cfg, revision := state.Store().Apply(patch)
	h.logger.Info("design loaded",
		zap.String("session_id", c.Param("id")),
		zap.String("design", name),
		zap.Strings("fields", patch.Fields()))

	return c.JSON(http.StatusOK, designResponse{
		Name:                  name,
		configurationResponse: newConfigurationResponse(cfg, revision),
	})
}

func designFileName(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, name)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "design"
	}
	return slug + ".yaml"
}
