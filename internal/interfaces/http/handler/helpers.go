package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopdesk/backend/internal/domain/shared"
)

const maxPageSize = 100

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// parseFilter builds a list filter from common query parameters
func parseFilter(c *gin.Context) shared.Filter {
	filter := shared.NewFilter()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		if size > maxPageSize {
			size = maxPageSize
		}
		filter.PageSize = size
	}
	if orderBy := c.Query("order_by"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if dir := c.Query("order_dir"); dir == "asc" || dir == "desc" {
		filter.OrderDir = dir
	}
	filter.Search = c.Query("search")

	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	return filter
}
