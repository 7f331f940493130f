package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gotodo/core/internal/application/services"
	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// actorContextKey is where the auth middleware stores the caller identity.
const actorContextKey = "actor"

// SetActor stores the authenticated caller on the request context.
func SetActor(c echo.Context, actor entities.Actor) {
	c.Set(actorContextKey, actor)
}

// GetActor returns the authenticated caller stored by the auth middleware.
func GetActor(c echo.Context) (entities.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(entities.Actor)
	return actor, ok
}

func getActor(c echo.Context) (entities.Actor, error) {
	actor, ok := GetActor(c)
	if !ok {
		return entities.Actor{}, entities.ErrUnauthorized
	}
	return actor, nil
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// MessageResponse is a simple message envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles token issuance requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Token handles credential exchange for an access/refresh pair
func (h *AuthHandler) Token(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Token request failed", "error", err, "username", req.Username)
		return entities.ErrUnauthorized
	}

	return c.JSON(http.StatusOK, pair)
}

// RefreshToken handles access token renewal
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req ports.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		h.logger.Warnw("Token refresh failed", "error", err)
		return entities.ErrUnauthorized
	}

	return c.JSON(http.StatusOK, pair)
}
