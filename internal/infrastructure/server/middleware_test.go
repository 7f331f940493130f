package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	httpHandlers "github.com/gotodo/core/internal/adapters/http"
	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
)

func TestErrorResponseValidation(t *testing.T) {
	verr := entities.ValidationError{}
	verr.Add("creator_id", "field is read-only")

	code, body := errorResponse(verr)
	assert.Equal(t, http.StatusBadRequest, code)

	payload, ok := body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, verr, payload["errors"])
}

func TestErrorResponseReference(t *testing.T) {
	refErr := &entities.ReferenceError{Field: "tag_ids", IDs: []int64{99, 100}}

	code, body := errorResponse(fmt.Errorf("create task: %w", refErr))
	assert.Equal(t, http.StatusBadRequest, code)

	payload, ok := body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string][]string{
		"tag_ids": {
			"related record 99 does not exist",
			"related record 100 does not exist",
		},
	}, payload["errors"])
}

func TestErrorResponseConstraint(t *testing.T) {
	constraintErr := &entities.ConstraintError{
		Relation: "category",
		Field:    "tasks_category_id_fkey",
		Reason:   "protected reference has dependents",
	}

	code, body := errorResponse(fmt.Errorf("delete category: %w", constraintErr))
	assert.Equal(t, http.StatusConflict, code)

	payload, ok := body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "category", payload["relation"])
	assert.Equal(t, "protected reference has dependents", payload["reason"])
}

func TestErrorResponseSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{entities.ErrTaskNotFound, http.StatusNotFound},
		{entities.ErrTagNotFound, http.StatusNotFound},
		{entities.ErrCategoryNotFound, http.StatusNotFound},
		{entities.ErrForbidden, http.StatusForbidden},
		{entities.ErrUnauthorized, http.StatusUnauthorized},
		{entities.ErrInvalidToken, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		code, _ := errorResponse(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}

	// Wrapped sentinels map the same way.
	code, _ := errorResponse(fmt.Errorf("get task: %w", entities.ErrTaskNotFound))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestErrorResponseEchoHTTPError(t *testing.T) {
	code, body := errorResponse(echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]string{"message": "Invalid limit parameter"}, body)
}

func TestErrorResponseUnknownIsInternal(t *testing.T) {
	code, _ := errorResponse(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestErrorHandlerLogsPermissionDenials(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	observed := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	req := httptest.NewRequest(http.MethodDelete, "/todo/tasks/1", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	actorID := uuid.New()
	httpHandlers.SetActor(c, entities.Actor{ID: actorID, Username: "bob"})

	customErrorHandler(observed)(entities.ErrForbidden, c)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	entries := logs.FilterMessage("Security event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "permission_denied", fields["security_event"])
	assert.Equal(t, actorID.String(), fields["user_id"])
}
