package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/interfaces/http/response"
)

// respondError maps domain sentinels onto HTTP statuses. Anything
// unmapped falls through as an internal error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidAmount),
		errors.Is(err, domainerrors.ErrInvalidInput):
		response.Error(c, domainerrors.BadRequest(err.Error()))
	case errors.Is(err, domainerrors.ErrNotFound),
		errors.Is(err, domainerrors.ErrAccountNotFound),
		errors.Is(err, domainerrors.ErrWalletNotFound):
		response.Error(c, domainerrors.NotFound(err.Error()))
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		response.Error(c, domainerrors.Conflict(err.Error()))
	case errors.Is(err, domainerrors.ErrForbidden),
		errors.Is(err, domainerrors.ErrAccountBanned):
		response.Error(c, domainerrors.Forbidden(err.Error()))
	case errors.Is(err, domainerrors.ErrInsufficientFunds),
		errors.Is(err, domainerrors.ErrPoolNotActive),
		errors.Is(err, domainerrors.ErrNoEntries),
		errors.Is(err, domainerrors.ErrListingNotActive),
		errors.Is(err, domainerrors.ErrListingExpired),
		errors.Is(err, domainerrors.ErrSelfTradeRejected),
		errors.Is(err, domainerrors.ErrTransactionAborted):
		response.Error(c, domainerrors.UnprocessableEntity(err.Error(), err))
	default:
		response.Error(c, err)
	}
}
