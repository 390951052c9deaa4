package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	domainerrors "hive-economy.backend/internal/domain/errors"
)

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, gin.H{"id": "abc"})

	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"id":"abc"}`, w.Body.String())
}

func TestErrorWithAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, domainerrors.NotFound("pool not found"))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"code":"NOT_FOUND","message":"pool not found"}`, w.Body.String())
}

func TestErrorWithPlainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("db exploded"))

	// Plain errors become opaque internal errors; no detail leaks.
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"code":"INTERNAL","message":"internal server error"}`, w.Body.String())
}
