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
	"hive-economy.backend/pkg/utils"
)

type ledgerService interface {
	Transfer(ctx context.Context, input usecases.TransferInput) (*entities.LedgerEntry, error)
	RecordGift(ctx context.Context, senderID, receiverID uuid.UUID, amount int64, giftID string) (*entities.LedgerEntry, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.LedgerEntry, int64, error)
	Reverse(ctx context.Context, entryID uuid.UUID, reason string) (*entities.LedgerEntry, error)
}

type accountService interface {
	CreateAccount(ctx context.Context, userID uuid.UUID) (*entities.Account, error)
	GetAccount(ctx context.Context, userID uuid.UUID) (*entities.Account, error)
}

// EconomyHandler handles ledger and account endpoints
type EconomyHandler struct {
	ledgerUsecase  ledgerService
	accountUsecase accountService
}

// NewEconomyHandler creates a new economy handler
func NewEconomyHandler(ledgerUsecase *usecases.LedgerUsecase, accountUsecase *usecases.AccountUsecase) *EconomyHandler {
	return &EconomyHandler{
		ledgerUsecase:  ledgerUsecase,
		accountUsecase: accountUsecase,
	}
}

type transferRequest struct {
	ReceiverID string                 `json:"receiverId" binding:"required,uuid"`
	Amount     int64                  `json:"amount" binding:"required"`
	CreditType string                 `json:"creditType" binding:"required,oneof=cash legendary"`
	Type       string                 `json:"type" binding:"required,oneof=gift purchase bond tournament_entry"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// Transfer moves credits to another user
// POST /api/v1/economy/transfers
func (h *EconomyHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	senderID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid receiver ID"))
		return
	}

	entry, err := h.ledgerUsecase.Transfer(c.Request.Context(), usecases.TransferInput{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     req.Amount,
		CreditType: entities.CreditType(req.CreditType),
		Type:       entities.EntryType(req.Type),
		Metadata:   req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

type giftRequest struct {
	ReceiverID string `json:"receiverId" binding:"required,uuid"`
	GiftID     string `json:"giftId" binding:"required"`
}

// SendGift sends a catalog gift to another user
// POST /api/v1/economy/gifts
func (h *EconomyHandler) SendGift(c *gin.Context) {
	var req giftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	senderID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid receiver ID"))
		return
	}

	gift, err := usecases.GiftByID(req.GiftID)
	if err != nil {
		response.Error(c, domainerrors.NotFound("Unknown gift"))
		return
	}

	entry, err := h.ledgerUsecase.RecordGift(c.Request.Context(), senderID, receiverID, gift.Price, gift.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry, "gift": gift})
}

// GiftCatalog returns the fixed gift lineup
// GET /api/v1/economy/gifts/catalog
func (h *EconomyHandler) GiftCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"gifts": usecases.GiftCatalog()})
}

// GetHistory returns the caller's ledger history
// GET /api/v1/economy/history
func (h *EconomyHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	limit, offset := utils.ParsePagination(c.Query("limit"), c.Query("offset"))

	entries, total, err := h.ledgerUsecase.GetHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*entities.LedgerEntry{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetBalance returns the caller's cached balances
// GET /api/v1/economy/balance
func (h *EconomyHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	account, err := h.accountUsecase.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"karmaBalance": account.KarmaBalance,
		"cashBalance":  account.CashBalance,
		"status":       account.Status,
	})
}

// CreateAccount opens an account for the caller
// POST /api/v1/economy/accounts
func (h *EconomyHandler) CreateAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	account, err := h.accountUsecase.CreateAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"account": account})
}

// GetFeePreview returns the fee breakdown for an amount and entry type
// GET /api/v1/economy/fees
func (h *EconomyHandler) GetFeePreview(c *gin.Context) {
	amount, err := parseInt64(c.Query("amount"))
	if err != nil || amount <= 0 {
		response.Error(c, domainerrors.BadRequest("Invalid amount"))
		return
	}
	entryType := entities.EntryType(c.Query("type"))

	fees := usecases.ComputeFees(amount, entryType)
	response.Success(c, http.StatusOK, gin.H{
		"amount":    amount,
		"feeAmount": fees.FeeAmount,
		"taxAmount": fees.TaxAmount,
		"netAmount": amount - fees.FeeAmount,
	})
}

type reverseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseEntry compensates a completed entry (admin only)
// POST /api/v1/economy/entries/:id/reverse
func (h *EconomyHandler) ReverseEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid entry ID"))
		return
	}

	var req reverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	compensation, err := h.ledgerUsecase.Reverse(c.Request.Context(), entryID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": compensation})
}
