package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
)

func newCreateTaskContext(t *testing.T, body string) echo.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/todo/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	SetActor(c, entities.Actor{ID: uuid.New(), Username: "alice"})
	return c
}

func TestCreateTaskRejectsCreatorField(t *testing.T) {
	handler := NewTaskHandler(nil, logger.NewNop())

	for _, field := range []string{"creator", "creator_id"} {
		body := `{"title": "Sneaky", "tag_ids": [1], "category_id": 3, "` + field + `": "someone-else"}`
		err := handler.CreateTask(newCreateTaskContext(t, body))

		var verr entities.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"field is read-only"}, verr[field])
	}
}

func TestCreateTaskRejectsMalformedBody(t *testing.T) {
	handler := NewTaskHandler(nil, logger.NewNop())

	err := handler.CreateTask(newCreateTaskContext(t, "{not json"))

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetTaskRequiresActor(t *testing.T) {
	handler := NewTaskHandler(nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/todo/tasks/1", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	err := handler.GetTask(c)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestParseIDRejectsNonNumeric(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	_, err := parseID(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
