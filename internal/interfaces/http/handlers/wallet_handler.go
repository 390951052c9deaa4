package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/interfaces/http/middleware"
	"hive-economy.backend/internal/interfaces/http/response"
	"hive-economy.backend/internal/usecases"
)

type walletService interface {
	CreateWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	DecryptPrivateKey(ctx context.Context, userID uuid.UUID) (string, error)
}

// WalletHandler handles custodial wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// CreateWallet generates the caller's custodial wallet
// POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.CreateWallet(c.Request.Context(), userID)
	if err != nil {
		if err == domainerrors.ErrAlreadyExists {
			response.Error(c, domainerrors.Conflict("Wallet already exists"))
			return
		}
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"wallet": wallet})
}

// GetWallet returns the caller's wallet without key material
// GET /api/v1/wallets/me
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// GetBalance returns the caller's cash balance, creating the wallet on
// first read
// GET /api/v1/wallets/me/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	balance, err := h.walletUsecase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

// ExportPrivateKey decrypts and returns the caller's private key. The
// response is never cached and the key is never logged.
// POST /api/v1/wallets/me/export
func (h *WalletHandler) ExportPrivateKey(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	privateKey, err := h.walletUsecase.DecryptPrivateKey(c.Request.Context(), userID)
	if err != nil {
		if err == domainerrors.ErrDecryptionFailed {
			response.Error(c, domainerrors.UnprocessableEntity("Wallet could not be decrypted", err))
			return
		}
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	response.Success(c, http.StatusOK, gin.H{"privateKey": privateKey})
}
