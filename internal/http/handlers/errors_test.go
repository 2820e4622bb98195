package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"intima-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ValidationError{Field: "date", Msg: "required"}, http.StatusBadRequest},
		{"not found", domain.NotFoundError{Resource: "booking"}, http.StatusNotFound},
		{"conflict", domain.ConflictError{Msg: "No available resources for this time slot"}, http.StatusConflict},
		{"internal", domain.InternalError{Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unwrapped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondDomainError(c, tt.err)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
