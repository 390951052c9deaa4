package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
)

type walletServiceStub struct {
	wallet     *entities.Wallet
	createErr  error
	getErr     error
	balance    int64
	privateKey string
	decryptErr error
}

func (s *walletServiceStub) CreateWallet(context.Context, uuid.UUID) (*entities.Wallet, error) {
	return s.wallet, s.createErr
}

func (s *walletServiceStub) GetWallet(context.Context, uuid.UUID) (*entities.Wallet, error) {
	return s.wallet, s.getErr
}

func (s *walletServiceStub) GetBalance(context.Context, uuid.UUID) (int64, error) {
	return s.balance, s.getErr
}

func (s *walletServiceStub) DecryptPrivateKey(context.Context, uuid.UUID) (string, error) {
	return s.privateKey, s.decryptErr
}

func walletTestRouter(userID uuid.UUID, h *WalletHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := withTestUser(userID)
	r.POST("/wallets", auth, h.CreateWallet)
	r.GET("/wallets/me", auth, h.GetWallet)
	r.GET("/wallets/me/balance", auth, h.GetBalance)
	r.POST("/wallets/me/export", auth, h.ExportPrivateKey)
	return r
}

func TestWalletHandler_CreateWallet(t *testing.T) {
	stub := &walletServiceStub{wallet: &entities.Wallet{
		UserID:        uuid.New(),
		PublicAddress: "0xabc",
	}}
	r := walletTestRouter(uuid.New(), &WalletHandler{walletUsecase: stub})

	w := doJSON(r, http.MethodPost, "/wallets", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	stub.createErr = domainerrors.ErrAlreadyExists
	w = doJSON(r, http.MethodPost, "/wallets", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	stub.createErr = domainerrors.ErrAccountNotFound
	w = doJSON(r, http.MethodPost, "/wallets", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWalletHandler_GetWalletAndBalance(t *testing.T) {
	stub := &walletServiceStub{
		wallet:  &entities.Wallet{PublicAddress: "0xabc"},
		balance: 4200,
	}
	r := walletTestRouter(uuid.New(), &WalletHandler{walletUsecase: stub})

	w := doJSON(r, http.MethodGet, "/wallets/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/wallets/me/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(4200), resp.Balance)

	stub.getErr = domainerrors.ErrWalletNotFound
	w = doJSON(r, http.MethodGet, "/wallets/me", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWalletHandler_ExportPrivateKey(t *testing.T) {
	stub := &walletServiceStub{privateKey: "00deadbeef"}
	r := walletTestRouter(uuid.New(), &WalletHandler{walletUsecase: stub})

	w := doJSON(r, http.MethodPost, "/wallets/me/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Key material must never land in a cache.
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp struct {
		PrivateKey string `json:"privateKey"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "00deadbeef", resp.PrivateKey)

	stub.decryptErr = domainerrors.ErrDecryptionFailed
	w = doJSON(r, http.MethodPost, "/wallets/me/export", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWalletHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &WalletHandler{walletUsecase: &walletServiceStub{}}
	r := gin.New()
	r.POST("/wallets", h.CreateWallet)

	w := doJSON(r, http.MethodPost, "/wallets", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
