package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, "BAD_REQUEST", "bad", ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrInvalidInput.Error(), err.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, "NOT_FOUND", notFound.Code)

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.True(t, stderrors.Is(badReq, ErrInvalidInput))

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, "UNAUTHORIZED", unauth.Code)

	forbidden := Forbidden("forbidden")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
	assert.True(t, stderrors.Is(forbidden, ErrForbidden))

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, "CONFLICT", conflict.Code)

	unprocessable := UnprocessableEntity("not enough honey", ErrInsufficientFunds)
	assert.Equal(t, http.StatusUnprocessableEntity, unprocessable.Status)
	assert.True(t, stderrors.Is(unprocessable, ErrInsufficientFunds))

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "INTERNAL", internal.Code)
	assert.Equal(t, "internal server error", internal.Message)
}

func TestAppError_MessageFallback(t *testing.T) {
	err := &AppError{Status: http.StatusTeapot, Code: "TEAPOT", Message: "short and stout"}
	assert.Equal(t, "short and stout", err.Error())
	assert.Nil(t, err.Unwrap())
}
