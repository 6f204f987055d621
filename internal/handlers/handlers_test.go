package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/celtec/pos-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound, "registro no encontrado"},
		{"duplicate", services.ErrDuplicate, http.StatusConflict, "registro duplicado"},
		{"out of stock", services.ErrOutOfStock, http.StatusConflict, "stock insuficiente"},
		{"invalid state", services.ErrInvalidState, http.StatusBadRequest, "transición de estado inválida"},
		{"unauthorized", services.ErrUnauthorized, http.StatusForbidden, "no autorizado"},
		{"rejected input", services.NewValidationError("tipo de garantía inválido: promo"), http.StatusBadRequest, "tipo de garantía inválido: promo"},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Error interno del servidor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}
