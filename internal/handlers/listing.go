package handlers

import (
	"strconv"

	"github.com/celtec/pos-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// listQuery reads the list parameters every index endpoint shares: q for
// search, page and limit for pagination.
func listQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	// Garbage or non-positive values fall back to the defaults so the
	// offset math never goes negative.
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = 20
	}
	query.Search = c.Query("q")
	return query
}

// listEnvelope is the common list response shape.
func listEnvelope(data any, total int64, query *repository.ListQuery) gin.H {
	var totalPages int64
	if query.PerPage > 0 {
		totalPages = (total + int64(query.PerPage) - 1) / int64(query.PerPage)
	}
	return gin.H{
		"data":       data,
		"total":      total,
		"page":       query.Page,
		"limit":      query.PerPage,
		"totalPages": totalPages,
	}
}
