package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/interfaces/http/middleware"
	"hive-economy.backend/internal/interfaces/http/response"
	"hive-economy.backend/internal/usecases"
)

type marketplaceService interface {
	RegisterAsset(ctx context.Context, input usecases.RegisterAssetInput) (*entities.MarketplaceAsset, error)
	List(ctx context.Context, input usecases.ListInput) (*entities.Listing, error)
	Purchase(ctx context.Context, listingID, buyerID uuid.UUID) (*entities.Trade, error)
	Cancel(ctx context.Context, listingID, sellerID uuid.UUID) error
	ActiveListings(ctx context.Context, beeType entities.BeeType) ([]*entities.Listing, error)
	OwnedAssets(ctx context.Context, ownerID uuid.UUID) ([]*entities.MarketplaceAsset, error)
	TradeHistory(ctx context.Context, userID uuid.UUID) ([]*entities.Trade, error)
}

// MarketplaceHandler handles marketplace endpoints
type MarketplaceHandler struct {
	marketplaceUsecase marketplaceService
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(marketplaceUsecase *usecases.MarketplaceUsecase) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceUsecase: marketplaceUsecase}
}

type registerAssetRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Type      string                 `json:"type" binding:"required,oneof=cinema content moderation translation analytics creative custom"`
	BasePrice int64                  `json:"basePrice"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// RegisterAsset mints a new bee under the caller
// POST /api/v1/marketplace/assets
func (h *MarketplaceHandler) RegisterAsset(c *gin.Context) {
	var req registerAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	asset, err := h.marketplaceUsecase.RegisterAsset(c.Request.Context(), usecases.RegisterAssetInput{
		Name:      req.Name,
		Type:      entities.BeeType(req.Type),
		OwnerID:   userID,
		BasePrice: req.BasePrice,
		Metadata:  req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"asset": asset})
}

type listRequest struct {
	AssetID     string     `json:"assetId" binding:"required,uuid"`
	Price       int64      `json:"price" binding:"required"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// CreateListing puts an owned asset up for sale
// POST /api/v1/marketplace/listings
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid asset ID"))
		return
	}

	listing, err := h.marketplaceUsecase.List(c.Request.Context(), usecases.ListInput{
		AssetID:     assetID,
		SellerID:    userID,
		Price:       req.Price,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"listing": listing})
}

// Browse returns active listings, optionally filtered by bee type
// GET /api/v1/marketplace/listings
func (h *MarketplaceHandler) Browse(c *gin.Context) {
	listings, err := h.marketplaceUsecase.ActiveListings(c.Request.Context(), entities.BeeType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	if listings == nil {
		listings = []*entities.Listing{}
	}
	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

// Purchase buys a listed asset
// POST /api/v1/marketplace/listings/:id/purchase
func (h *MarketplaceHandler) Purchase(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid listing ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	trade, err := h.marketplaceUsecase.Purchase(c.Request.Context(), listingID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"trade": trade})
}

// CancelListing withdraws the caller's own listing
// POST /api/v1/marketplace/listings/:id/cancel
func (h *MarketplaceHandler) CancelListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid listing ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.marketplaceUsecase.Cancel(c.Request.Context(), listingID, userID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Listing cancelled"})
}

// MyAssets returns the caller's bees
// GET /api/v1/marketplace/assets
func (h *MarketplaceHandler) MyAssets(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	assets, err := h.marketplaceUsecase.OwnedAssets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if assets == nil {
		assets = []*entities.MarketplaceAsset{}
	}
	response.Success(c, http.StatusOK, gin.H{"assets": assets})
}

// MyTrades returns the caller's trade history
// GET /api/v1/marketplace/trades
func (h *MarketplaceHandler) MyTrades(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	trades, err := h.marketplaceUsecase.TradeHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if trades == nil {
		trades = []*entities.Trade{}
	}
	response.Success(c, http.StatusOK, gin.H{"trades": trades})
}
