package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/infrastructure/models"
)

// MarketplaceRepository implements asset, listing and trade persistence
type MarketplaceRepository struct {
	db *gorm.DB
}

// NewMarketplaceRepository creates a new marketplace repository
func NewMarketplaceRepository(db *gorm.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

// CreateAsset creates a marketplace asset
func (r *MarketplaceRepository) CreateAsset(ctx context.Context, asset *entities.MarketplaceAsset) error {
	meta := "{}"
	if len(asset.Metadata) > 0 {
		raw, err := json.Marshal(asset.Metadata)
		if err != nil {
			return err
		}
		meta = string(raw)
	}

	m := &models.MarketplaceAsset{
		ID:        asset.ID,
		Name:      asset.Name,
		BeeType:   string(asset.Type),
		OwnerID:   asset.OwnerID,
		Metadata:  meta,
		BasePrice: asset.BasePrice,
		Status:    string(asset.Status),
		HiveID:    asset.HiveID,
		CreatedAt: asset.CreatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = string(entities.ListingStatusActive)
	}
	if m.HiveID == "" {
		m.HiveID = "quebec"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	asset.ID = m.ID
	asset.Status = entities.ListingStatus(m.Status)
	asset.HiveID = m.HiveID
	asset.CreatedAt = m.CreatedAt
	return nil
}

// GetAssetByID gets an asset by ID
func (r *MarketplaceRepository) GetAssetByID(ctx context.Context, id uuid.UUID) (*entities.MarketplaceAsset, error) {
	var m models.MarketplaceAsset
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.assetToEntity(&m), nil
}

// GetAssetsByOwner returns a user's bees, newest first
func (r *MarketplaceRepository) GetAssetsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.MarketplaceAsset, error) {
	var ms []models.MarketplaceAsset
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	var assets []*entities.MarketplaceAsset
	for _, m := range ms {
		model := m
		assets = append(assets, r.assetToEntity(&model))
	}
	return assets, nil
}

// TransferAsset flips an active asset to the buyer and marks it sold. The
// status guard means an asset can be sold at most once.
func (r *MarketplaceRepository) TransferAsset(ctx context.Context, assetID, newOwnerID uuid.UUID, soldAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.MarketplaceAsset{}).
		Where("id = ? AND status = ?", assetID, string(entities.ListingStatusActive)).
		Updates(map[string]interface{}{
			"owner_id": newOwnerID,
			"status":   string(entities.ListingStatusSold),
			"sold_at":  soldAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotActive
	}
	return nil
}

// CreateListing creates a sale offer
func (r *MarketplaceRepository) CreateListing(ctx context.Context, listing *entities.Listing) error {
	m := &models.Listing{
		ID:          listing.ID,
		AssetID:     listing.AssetID,
		SellerID:    listing.SellerID,
		Price:       listing.Price,
		Description: listing.Description,
		Status:      string(listing.Status),
		CreatedAt:   listing.CreatedAt,
	}
	if listing.ExpiresAt.Valid {
		t := listing.ExpiresAt.Time
		m.ExpiresAt = &t
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = string(entities.ListingStatusActive)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	listing.ID = m.ID
	listing.Status = entities.ListingStatus(m.Status)
	listing.CreatedAt = m.CreatedAt
	return nil
}

// GetListingByID loads a listing with its asset
func (r *MarketplaceRepository) GetListingByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	var m models.Listing
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Preload("Asset").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.listingToEntity(&m), nil
}

// GetActiveListings returns active listings whose asset is still active,
// optionally filtered by bee type and hive
func (r *MarketplaceRepository) GetActiveListings(ctx context.Context, beeType entities.BeeType, hiveID string) ([]*entities.Listing, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Preload("Asset").
		Joins("JOIN marketplace_assets ON marketplace_assets.id = listings.asset_id").
		Where("listings.status = ? AND marketplace_assets.status = ?",
			string(entities.ListingStatusActive), string(entities.ListingStatusActive))

	if beeType != "" {
		q = q.Where("marketplace_assets.bee_type = ?", string(beeType))
	}
	if hiveID != "" {
		q = q.Where("marketplace_assets.hive_id = ?", hiveID)
	}

	var ms []models.Listing
	if err := q.Order("listings.created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	var listings []*entities.Listing
	for _, m := range ms {
		model := m
		listings = append(listings, r.listingToEntity(&model))
	}
	return listings, nil
}

// GetActiveListingByAsset returns the active listing for an asset
func (r *MarketplaceRepository) GetActiveListingByAsset(ctx context.Context, assetID uuid.UUID) (*entities.Listing, error) {
	var m models.Listing
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("asset_id = ? AND status = ?", assetID, string(entities.ListingStatusActive)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.listingToEntity(&m), nil
}

// CloseListing moves an active listing to sold or cancelled
func (r *MarketplaceRepository) CloseListing(ctx context.Context, listingID uuid.UUID, to entities.ListingStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND status = ?", listingID, string(entities.ListingStatusActive)).
		Update("status", string(to))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotActive
	}
	return nil
}

// CreateTrade records a completed purchase
func (r *MarketplaceRepository) CreateTrade(ctx context.Context, trade *entities.Trade) error {
	m := &models.Trade{
		ID:            trade.ID,
		ListingID:     trade.ListingID,
		SellerID:      trade.SellerID,
		BuyerID:       trade.BuyerID,
		AssetID:       trade.AssetID,
		TradeAmount:   trade.TradeAmount,
		PlatformFee:   trade.PlatformFee,
		LedgerEntryID: trade.LedgerEntryID,
		CreatedAt:     trade.CreatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	trade.ID = m.ID
	trade.CreatedAt = m.CreatedAt
	return nil
}

// GetTradesByUser returns trades where the user bought or sold, newest first
func (r *MarketplaceRepository) GetTradesByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Trade, error) {
	var ms []models.Trade
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("seller_id = ? OR buyer_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	var trades []*entities.Trade
	for _, m := range ms {
		trades = append(trades, &entities.Trade{
			ID:            m.ID,
			ListingID:     m.ListingID,
			SellerID:      m.SellerID,
			BuyerID:       m.BuyerID,
			AssetID:       m.AssetID,
			TradeAmount:   m.TradeAmount,
			PlatformFee:   m.PlatformFee,
			LedgerEntryID: m.LedgerEntryID,
			CreatedAt:     m.CreatedAt,
		})
	}
	return trades, nil
}

func (r *MarketplaceRepository) assetToEntity(m *models.MarketplaceAsset) *entities.MarketplaceAsset {
	var meta map[string]interface{}
	if m.Metadata != "" && m.Metadata != "{}" {
		_ = json.Unmarshal([]byte(m.Metadata), &meta)
	}
	a := &entities.MarketplaceAsset{
		ID:        m.ID,
		Name:      m.Name,
		Type:      entities.BeeType(m.BeeType),
		OwnerID:   m.OwnerID,
		Metadata:  meta,
		BasePrice: m.BasePrice,
		Status:    entities.ListingStatus(m.Status),
		HiveID:    m.HiveID,
		CreatedAt: m.CreatedAt,
	}
	if m.SoldAt != nil {
		a.SoldAt.SetValid(*m.SoldAt)
	}
	return a
}

func (r *MarketplaceRepository) listingToEntity(m *models.Listing) *entities.Listing {
	l := &entities.Listing{
		ID:          m.ID,
		AssetID:     m.AssetID,
		SellerID:    m.SellerID,
		Price:       m.Price,
		Description: m.Description,
		Status:      entities.ListingStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
	if m.ExpiresAt != nil {
		l.ExpiresAt.SetValid(*m.ExpiresAt)
	}
	if m.Asset.ID != uuid.Nil {
		l.Asset = r.assetToEntity(&m.Asset)
	}
	return l
}
