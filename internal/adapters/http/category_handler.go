package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gotodo/core/internal/application/services"
	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *services.CategoryService, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// ListCategories handles listing categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	filter, err := parseCategoryFilter(c)
	if err != nil {
		return err
	}

	categories, total, err := h.categoryService.ListCategories(c.Request().Context(), filter)
	if err != nil {
		h.logger.Errorw("List categories failed", "error", err)
		return err
	}

	if categories == nil {
		categories = []*entities.Category{}
	}

	return c.JSON(http.StatusOK, ports.NewPaginated(categories, total, filter.Limit, filter.Offset))
}

// GetCategory handles retrieving a category by ID
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles category creation
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req ports.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create category failed", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles full and partial category updates
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles category deletion. The delete is rejected while any
// task still references the category.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
