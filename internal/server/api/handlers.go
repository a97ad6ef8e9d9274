package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"filemeta/internal/server/service"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains the HTTP handlers for the file metadata API.
type Handler struct {
	files *service.FileService
	users *service.UserService
	db    HealthChecker
}

// NewHandler creates a new handler with the given service dependencies.
func NewHandler(files *service.FileService, users *service.UserService, db HealthChecker) *Handler {
	return &Handler{files: files, users: users, db: db}
}

// HandleHealthz handles GET /healthz. It is a fixed liveness answer.
func (h *Handler) HandleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// HandleReadyz handles GET /readyz.
// Reports 503 when the database does not answer a ping.
func (h *Handler) HandleReadyz(c echo.Context) error {
	if err := h.db.HealthCheck(c.Request().Context()); err != nil {
		slog.Warn("readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":   "degraded",
			"database": fmt.Sprintf("error: %v", err),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ready",
		"database": "connected",
	})
}

// HandleCreateUser handles POST /users.
// Echoes the validated payload with a generated id; nothing is stored.
func (h *Handler) HandleCreateUser(c echo.Context) error {
	var req service.CreateUserInput
	if err := bindAndValidate(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	user, err := h.users.Create(c.Request().Context(), req)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// HandleCreateFile handles POST /files.
func (h *Handler) HandleCreateFile(c echo.Context) error {
	var req service.CreateFileInput
	if err := bindAndValidate(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	file, err := h.files.Create(c.Request().Context(), req)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, file)
}

// HandleGetFile handles GET /files/:id.
func (h *Handler) HandleGetFile(c echo.Context) error {
	file, err := h.files.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, file)
}

// bindAndValidate decodes the request body into req and runs the registered
// validator. Decoding failures are reported as malformed requests.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			// An oversized chunked body is only detected while decoding.
			if he.Code == http.StatusRequestEntityTooLarge {
				return he
			}
			return fmt.Errorf("%w: %v", service.ErrMalformedRequest, he.Message)
		}
		return fmt.Errorf("%w: %v", service.ErrMalformedRequest, err)
	}
	return c.Validate(req)
}

// mapServiceError translates service-layer errors into appropriate HTTP responses.
func mapServiceError(c echo.Context, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.String(http.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrMalformedRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &he):
		return c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message)})
	default:
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
