// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/design"
	"github.com/electroride/configurator/internal/session"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewUnauthorizedError creates a 401 error for a session that is still locked
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// toAPIError maps domain errors onto API errors. Unknown errors become 500s.
func toAPIError(err error, sessionID string) *APIError {
	var (
		apiErr    *APIError
		optionErr *catalog.OptionError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, session.ErrSessionNotFound):
		return NewNotFoundError("session", sessionID)
	case errors.Is(err, session.ErrLocked):
		return NewUnauthorizedError(err.Error())
	case errors.Is(err, session.ErrMissingCredentials):
		return NewValidationError("credentials", err)
	case errors.As(err, &optionErr):
		return NewValidationError(optionErr.Field, err)
	case errors.Is(err, design.ErrUnsupportedVersion), errors.Is(err, design.ErrInvalidCamera):
		return NewValidationError("design", err)
	default:
		return NewInternalError("unexpected error", err)
	}
}

// NewErrorHandler returns an echo error handler that renders every error as
// an APIError. Server errors are logged.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(logger)
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			apiErr  *APIError
			httpErr *echo.HTTPError
		)
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request error",
				zap.String("uri", c.Request().RequestURI),
				zap.String("code", apiErr.Code),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}
