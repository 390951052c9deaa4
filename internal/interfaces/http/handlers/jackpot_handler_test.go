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
	"hive-economy.backend/internal/usecases"
)

type jackpotServiceStub struct {
	status     *entities.JackpotStatus
	statusErr  error
	pool       *entities.JackpotPool
	createErr  error
	cancelErr  error
	winner     *entities.JackpotWinner
	drawErr    error
	payout     *entities.LedgerEntry
	payoutErr  error
	verifyOK   bool
	verifyErr  error
	lastCreate usecases.CreatePoolInput
}

func (s *jackpotServiceStub) Status(context.Context) (*entities.JackpotStatus, error) {
	return s.status, s.statusErr
}

func (s *jackpotServiceStub) CreatePool(_ context.Context, input usecases.CreatePoolInput) (*entities.JackpotPool, error) {
	s.lastCreate = input
	return s.pool, s.createErr
}

func (s *jackpotServiceStub) CancelPool(context.Context, uuid.UUID) error { return s.cancelErr }

func (s *jackpotServiceStub) CheckTriggerConditions(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func (s *jackpotServiceStub) DrawWinner(context.Context, uuid.UUID) (*entities.JackpotWinner, error) {
	return s.winner, s.drawErr
}

func (s *jackpotServiceStub) Payout(context.Context, uuid.UUID) (*entities.LedgerEntry, error) {
	return s.payout, s.payoutErr
}

func (s *jackpotServiceStub) VerifyDraw(context.Context, uuid.UUID) (bool, error) {
	return s.verifyOK, s.verifyErr
}

func jackpotTestRouter(h *JackpotHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/status", h.GetStatus)
	r.POST("/pools", h.CreatePool)
	r.POST("/pools/:id/cancel", h.CancelPool)
	r.POST("/pools/:id/draw", h.Draw)
	r.GET("/pools/:id/verify", h.VerifyDraw)
	return r
}

func TestJackpotHandler_GetStatus(t *testing.T) {
	stub := &jackpotServiceStub{status: &entities.JackpotStatus{
		Pool:               &entities.JackpotPool{ID: uuid.New(), CurrentAmount: 2500, TargetAmount: 10000},
		Entries:            12,
		TotalContributions: 2500,
		Progress:           0.25,
	}}
	r := jackpotTestRouter(&JackpotHandler{jackpotUsecase: stub})

	w := doJSON(r, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp entities.JackpotStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(12), resp.Entries)
	require.InDelta(t, 0.25, resp.Progress, 1e-9)

	stub.status = nil
	stub.statusErr = domainerrors.ErrNotFound
	w = doJSON(r, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestJackpotHandler_CreatePool(t *testing.T) {
	stub := &jackpotServiceStub{pool: &entities.JackpotPool{ID: uuid.New(), Name: "pot"}}
	r := jackpotTestRouter(&JackpotHandler{jackpotUsecase: stub})

	w := doJSON(r, http.MethodPost, "/pools",
		[]byte(`{"name":"pot","targetAmount":10000,"minContribution":50}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, "pot", stub.lastCreate.Name)
	require.Equal(t, int64(50), stub.lastCreate.MinContribution)

	// Name is mandatory.
	w = doJSON(r, http.MethodPost, "/pools", []byte(`{"targetAmount":10000}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	stub.createErr = domainerrors.ErrAlreadyExists
	w = doJSON(r, http.MethodPost, "/pools", []byte(`{"name":"pot"}`))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestJackpotHandler_Draw(t *testing.T) {
	winnerID := uuid.New()
	stub := &jackpotServiceStub{
		winner: &entities.JackpotWinner{WinnerID: winnerID, PrizeAmount: 600},
		payout: &entities.LedgerEntry{ReceiverID: &winnerID, Amount: 600},
	}
	r := jackpotTestRouter(&JackpotHandler{jackpotUsecase: stub})

	poolID := uuid.NewString()
	w := doJSON(r, http.MethodPost, "/pools/"+poolID+"/draw", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/pools/not-a-uuid/draw", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	stub.drawErr = domainerrors.ErrNoEntries
	w = doJSON(r, http.MethodPost, "/pools/"+poolID+"/draw", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	stub.drawErr = nil
	stub.payoutErr = domainerrors.ErrAccountBanned
	w = doJSON(r, http.MethodPost, "/pools/"+poolID+"/draw", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestJackpotHandler_CancelAndVerify(t *testing.T) {
	stub := &jackpotServiceStub{verifyOK: true}
	r := jackpotTestRouter(&JackpotHandler{jackpotUsecase: stub})

	poolID := uuid.NewString()
	w := doJSON(r, http.MethodPost, "/pools/"+poolID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stub.cancelErr = domainerrors.ErrPoolNotActive
	w = doJSON(r, http.MethodPost, "/pools/"+poolID+"/cancel", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(r, http.MethodGet, "/pools/"+poolID+"/verify", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Valid)

	stub.verifyErr = domainerrors.ErrNotFound
	w = doJSON(r, http.MethodGet, "/pools/"+poolID+"/verify", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
