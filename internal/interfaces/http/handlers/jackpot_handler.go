package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/interfaces/http/response"
	"hive-economy.backend/internal/usecases"
)

type jackpotService interface {
	Status(ctx context.Context) (*entities.JackpotStatus, error)
	CreatePool(ctx context.Context, input usecases.CreatePoolInput) (*entities.JackpotPool, error)
	CancelPool(ctx context.Context, poolID uuid.UUID) error
	CheckTriggerConditions(ctx context.Context, poolID uuid.UUID) (bool, error)
	DrawWinner(ctx context.Context, poolID uuid.UUID) (*entities.JackpotWinner, error)
	Payout(ctx context.Context, poolID uuid.UUID) (*entities.LedgerEntry, error)
	VerifyDraw(ctx context.Context, poolID uuid.UUID) (bool, error)
}

// JackpotHandler handles jackpot endpoints
type JackpotHandler struct {
	jackpotUsecase jackpotService
}

// NewJackpotHandler creates a new jackpot handler
func NewJackpotHandler(jackpotUsecase *usecases.JackpotUsecase) *JackpotHandler {
	return &JackpotHandler{jackpotUsecase: jackpotUsecase}
}

// GetStatus returns the public snapshot of the active pool
// GET /api/v1/jackpot/status
func (h *JackpotHandler) GetStatus(c *gin.Context) {
	status, err := h.jackpotUsecase.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}

type createPoolRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	TargetAmount    int64  `json:"targetAmount"`
	MinContribution int64  `json:"minContribution"`
	MinActiveUsers  int    `json:"minActiveUsers"`
	MinTransactions int    `json:"minTransactions"`
}

// CreatePool opens a new pool (admin only)
// POST /api/v1/jackpot/pools
func (h *JackpotHandler) CreatePool(c *gin.Context) {
	var req createPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	pool, err := h.jackpotUsecase.CreatePool(c.Request.Context(), usecases.CreatePoolInput{
		Name:            req.Name,
		Description:     req.Description,
		TargetAmount:    req.TargetAmount,
		MinContribution: req.MinContribution,
		MinActiveUsers:  req.MinActiveUsers,
		MinTransactions: req.MinTransactions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"pool": pool})
}

// CancelPool cancels an active pool (admin only)
// POST /api/v1/jackpot/pools/:id/cancel
func (h *JackpotHandler) CancelPool(c *gin.Context) {
	poolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pool ID"))
		return
	}

	if err := h.jackpotUsecase.CancelPool(c.Request.Context(), poolID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Pool cancelled"})
}

// Draw forces a draw on a pool (admin only). The background job normally
// does this once trigger conditions fire.
// POST /api/v1/jackpot/pools/:id/draw
func (h *JackpotHandler) Draw(c *gin.Context) {
	poolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pool ID"))
		return
	}

	winner, err := h.jackpotUsecase.DrawWinner(c.Request.Context(), poolID)
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := h.jackpotUsecase.Payout(c.Request.Context(), poolID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"winner": winner, "payout": entry})
}

// VerifyDraw recomputes the fairness proof for a drawn pool
// GET /api/v1/jackpot/pools/:id/verify
func (h *JackpotHandler) VerifyDraw(c *gin.Context) {
	poolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pool ID"))
		return
	}

	valid, err := h.jackpotUsecase.VerifyDraw(c.Request.Context(), poolID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"valid": valid})
}
