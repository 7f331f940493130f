package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gotodo/core/internal/ports"
)

// Query-parameter grammar follows the field__op convention of the API:
// id__gt=3, title__icontains=ship, plus bare keys for exact matches.

const (
	defaultLimit = 20
	maxLimit     = 100
)

func parseTaskFilter(c echo.Context) (ports.TaskFilter, error) {
	var filter ports.TaskFilter
	var err error

	if filter.ID, err = parseIDRange(c, "id"); err != nil {
		return filter, err
	}

	filter.Title = parseTextMatch(c, "title")

	if filter.IsFinish, err = parseBoolParam(c, "is_finish"); err != nil {
		return filter, err
	}

	if name := c.QueryParam("tags__name"); name != "" {
		filter.TagName = &name
	}

	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid category_id parameter")
		}
		filter.CategoryID = &id
	}

	filter.Search = parseSearch(c)
	filter.Ordering = c.QueryParam("ordering")

	if filter.Limit, filter.Offset, err = parsePagination(c); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseTagFilter(c echo.Context) (ports.TagFilter, error) {
	var filter ports.TagFilter
	var err error

	if filter.ID, err = parseIDRange(c, "id"); err != nil {
		return filter, err
	}

	filter.Name = parseTextMatch(c, "name")

	if filter.HasTask, err = parseBoolParam(c, "has_task"); err != nil {
		return filter, err
	}

	if raw := c.QueryParam("task_count"); raw != "" {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || count < 0 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid task_count parameter")
		}
		filter.TaskCount = &count
	}

	filter.Search = parseSearch(c)
	filter.Ordering = c.QueryParam("ordering")

	if filter.Limit, filter.Offset, err = parsePagination(c); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseCategoryFilter(c echo.Context) (ports.CategoryFilter, error) {
	var filter ports.CategoryFilter
	var err error

	if filter.ID, err = parseIDRange(c, "id"); err != nil {
		return filter, err
	}

	filter.Name = parseTextMatch(c, "name")
	filter.Search = parseSearch(c)
	filter.Ordering = c.QueryParam("ordering")

	if filter.Limit, filter.Offset, err = parsePagination(c); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseIDRange(c echo.Context, field string) (ports.IDRange, error) {
	var r ports.IDRange

	for suffix, target := range map[string]**int64{
		"__gt":  &r.GT,
		"__gte": &r.GTE,
		"__lt":  &r.LT,
		"__lte": &r.LTE,
	} {
		raw := c.QueryParam(field + suffix)
		if raw == "" {
			continue
		}

		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return r, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+field+suffix+" parameter")
		}
		*target = &value
	}

	return r, nil
}

func parseTextMatch(c echo.Context, field string) ports.TextMatch {
	var m ports.TextMatch

	if raw := c.QueryParam(field); raw != "" {
		m.Exact = &raw
	}
	if raw := c.QueryParam(field + "__contains"); raw != "" {
		m.Contains = &raw
	}
	if raw := c.QueryParam(field + "__icontains"); raw != "" {
		m.IContains = &raw
	}

	return m
}

func parseBoolParam(c echo.Context, key string) (*bool, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+key+" parameter")
	}

	return &value, nil
}

func parseSearch(c echo.Context) *string {
	raw := c.QueryParam("search")
	if raw == "" {
		return nil
	}
	return &raw
}

func parsePagination(c echo.Context) (int, int, error) {
	limit := defaultLimit
	offset := 0

	if raw := c.QueryParam("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		if value > maxLimit {
			value = maxLimit
		}
		limit = value
	}

	if raw := c.QueryParam("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
		offset = value
	}

	return limit, offset, nil
}
