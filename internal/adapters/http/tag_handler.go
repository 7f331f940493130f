package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gotodo/core/internal/application/services"
	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// TagHandler handles tag-related requests
type TagHandler struct {
	tagService *services.TagService
	logger     *logger.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *services.TagService, logger *logger.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// ListTags handles listing tags
func (h *TagHandler) ListTags(c echo.Context) error {
	filter, err := parseTagFilter(c)
	if err != nil {
		return err
	}

	tags, total, err := h.tagService.ListTags(c.Request().Context(), filter)
	if err != nil {
		h.logger.Errorw("List tags failed", "error", err)
		return err
	}

	if tags == nil {
		tags = []*entities.Tag{}
	}

	return c.JSON(http.StatusOK, ports.NewPaginated(tags, total, filter.Limit, filter.Offset))
}

// GetTag handles retrieving a tag by ID
func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	tag, err := h.tagService.GetTag(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tag)
}

// CreateTag handles tag creation
func (h *TagHandler) CreateTag(c echo.Context) error {
	var req ports.CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	tag, err := h.tagService.CreateTag(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create tag failed", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, tag)
}

// UpdateTag handles full and partial tag updates
func (h *TagHandler) UpdateTag(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	tag, err := h.tagService.UpdateTag(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tag)
}

// DeleteTag handles tag deletion
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.tagService.DeleteTag(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
