package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	serviceErrors "social-backend/internal/service/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", serviceErrors.New(serviceErrors.ErrNotFound, "Post not found"), http.StatusNotFound, "Post not found"},
		{"forbidden", serviceErrors.New(serviceErrors.ErrForbidden, "Not allowed"), http.StatusForbidden, "Not allowed"},
		{"invalid", serviceErrors.New(serviceErrors.ErrInvalidInput, "Content is required"), http.StatusBadRequest, "Content is required"},
		{"database hides detail", serviceErrors.Wrap(serviceErrors.ErrDatabase, "failed to save", stderrors.New("dial tcp")), http.StatusInternalServerError, "Internal server error"},
		{"app error", New(ErrTooManyRequests, "Too many requests"), http.StatusTooManyRequests, "Too many requests"},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := StatusOf(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, serviceErrors.New(serviceErrors.ErrNotFound, "Comment not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Comment not found"}`, w.Body.String())
	assert.Len(t, c.Errors, 1)
}
