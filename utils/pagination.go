package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination carries the parsed page/limit query parameters.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page/limit from the query string. Page is 1-based;
// limit is clamped to [1, 100].
func ParsePagination(c *gin.Context) Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return Pagination{Page: page, Limit: limit}
}

// PaginationBlock builds the envelope pagination object.
func PaginationBlock(p Pagination, total int64) gin.H {
	totalPages := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return gin.H{
		"page":       p.Page,
		"limit":      p.Limit,
		"total":      total,
		"totalPages": totalPages,
		"hasNext":    int64(p.Page*p.Limit) < total,
		"hasPrev":    p.Page > 1,
	}
}
