package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	httpHandlers "github.com/gotodo/core/internal/adapters/http"
	"github.com/gotodo/core/internal/application/services"
	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
)

// authMiddleware validates bearer tokens and stores the caller identity on
// the request context.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateAccessToken(parts[1])
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
					"path":  c.Request().URL.Path,
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			actor, err := claims.Actor()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			httpHandlers.SetActor(c, actor)

			return next(c)
		}
	}
}

// customErrorHandler maps domain errors onto the HTTP error taxonomy:
// 401 unauthorized, 403 forbidden, 404 not found, 400 with field-level
// details for validation and reference failures, 409 for constraint breaches.
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code, body := errorResponse(err)

		if code == http.StatusInternalServerError {
			logger.WithError(err).Errorw("Internal server error", "path", c.Request().URL.Path)
		}

		if code == http.StatusForbidden {
			actorID := ""
			if actor, ok := httpHandlers.GetActor(c); ok {
				actorID = actor.ID.String()
			}
			logger.LogSecurityEvent("permission_denied", actorID, c.RealIP(), map[string]interface{}{
				"path": c.Request().URL.Path,
			})
		}

		if !c.Response().Committed {
			var writeErr error
			if c.Request().Method == echo.HEAD {
				writeErr = c.NoContent(code)
			} else {
				writeErr = c.JSON(code, body)
			}
			if writeErr != nil {
				logger.Errorw("Error sending response", "error", writeErr)
			}
		}
	}
}

func errorResponse(err error) (int, interface{}) {
	var (
		httpErr       *echo.HTTPError
		validationErr entities.ValidationError
		referenceErr  *entities.ReferenceError
		constraintErr *entities.ConstraintError
		fieldErrs     validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, map[string]interface{}{"errors": validationErr}

	case errors.As(err, &referenceErr):
		reasons := make([]string, 0, len(referenceErr.IDs))
		for _, id := range referenceErr.IDs {
			reasons = append(reasons, fmt.Sprintf("related record %d does not exist", id))
		}
		return http.StatusBadRequest, map[string]interface{}{
			"errors": map[string][]string{referenceErr.Field: reasons},
		}

	case errors.As(err, &constraintErr):
		return http.StatusConflict, map[string]interface{}{
			"error":    "constraint violation",
			"relation": constraintErr.Relation,
			"field":    constraintErr.Field,
			"reason":   constraintErr.Reason,
		}

	case errors.As(err, &fieldErrs):
		fields := make(map[string][]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = append(fields[fe.Field()], violationReason(fe))
		}
		return http.StatusBadRequest, map[string]interface{}{"errors": fields}

	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrTagNotFound),
		errors.Is(err, entities.ErrCategoryNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return http.StatusNotFound, map[string]string{"message": err.Error()}

	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden, map[string]string{"message": "forbidden"}

	case errors.Is(err, entities.ErrUnauthorized), errors.Is(err, entities.ErrInvalidToken):
		return http.StatusUnauthorized, map[string]string{"message": "unauthorized"}

	case errors.As(err, &httpErr):
		msg := httpErr.Message
		if s, ok := msg.(string); ok {
			return httpErr.Code, map[string]string{"message": s}
		}
		return httpErr.Code, msg
	}

	return http.StatusInternalServerError, map[string]string{"message": http.StatusText(http.StatusInternalServerError)}
}

func violationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
