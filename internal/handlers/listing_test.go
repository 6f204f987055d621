package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/celtec/pos-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestListQuery_ReadsSharedParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/customers?q=juan&page=3&limit=10", nil)

	query := listQuery(c)
	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 10, query.PerPage)
	assert.Equal(t, "juan", query.Search)
}

func TestListQuery_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/customers", nil)

	query := listQuery(c)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 20, query.PerPage)
	assert.Equal(t, "", query.Search)
}

func TestListQuery_ClampsBadPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		url     string
		page    int
		perPage int
	}{
		{"non-numeric", "/customers?page=abc&limit=xyz", 1, 20},
		{"zero", "/customers?page=0&limit=0", 1, 20},
		{"negative", "/customers?page=-2&limit=-5", 1, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest("GET", tc.url, nil)

			query := listQuery(c)
			assert.Equal(t, tc.page, query.Page)
			assert.Equal(t, tc.perPage, query.PerPage)
		})
	}
}

func TestListEnvelope(t *testing.T) {
	query := repository.NewListQuery()
	query.Page = 2
	query.PerPage = 20

	envelope := listEnvelope([]string{"a", "b"}, 41, query)
	assert.Equal(t, int64(41), envelope["total"])
	assert.Equal(t, 2, envelope["page"])
	assert.Equal(t, 20, envelope["limit"])
	assert.Equal(t, int64(3), envelope["totalPages"])
}
