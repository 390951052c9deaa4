package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// BeeType categorizes marketplace assets
type BeeType string

const (
	BeeTypeCinema      BeeType = "cinema"
	BeeTypeContent     BeeType = "content"
	BeeTypeModeration  BeeType = "moderation"
	BeeTypeTranslation BeeType = "translation"
	BeeTypeAnalytics   BeeType = "analytics"
	BeeTypeCreative    BeeType = "creative"
	BeeTypeCustom      BeeType = "custom"
)

// ListingStatus is shared by assets and listings
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// MarketplaceAsset is a tradable bee agent. Ownership is a single foreign
// key; an asset transitions active -> sold at most once.
type MarketplaceAsset struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Type      BeeType                `json:"type"`
	OwnerID   uuid.UUID              `json:"ownerId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	BasePrice int64                  `json:"basePrice"`
	Status    ListingStatus          `json:"status"`
	HiveID    string                 `json:"hiveId"`
	CreatedAt time.Time              `json:"createdAt"`
	SoldAt    null.Time              `json:"soldAt,omitempty"`
}

// Listing is an active sale offer against exactly one asset. Its price may
// differ from the asset's base price.
type Listing struct {
	ID          uuid.UUID     `json:"id"`
	AssetID     uuid.UUID     `json:"assetId"`
	SellerID    uuid.UUID     `json:"sellerId"`
	Price       int64         `json:"price"`
	Description string        `json:"description,omitempty"`
	Status      ListingStatus `json:"status"`
	ExpiresAt   null.Time     `json:"expiresAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`

	Asset *MarketplaceAsset `json:"asset,omitempty"`
}

// Expired reports whether the listing's expiry has passed at the given time
func (l *Listing) Expired(now time.Time) bool {
	return l.ExpiresAt.Valid && l.ExpiresAt.Time.Before(now)
}

// Trade is the immutable record of one completed listing purchase
type Trade struct {
	ID            uuid.UUID  `json:"id"`
	ListingID     uuid.UUID  `json:"listingId"`
	SellerID      uuid.UUID  `json:"sellerId"`
	BuyerID       uuid.UUID  `json:"buyerId"`
	AssetID       uuid.UUID  `json:"assetId"`
	TradeAmount   int64      `json:"tradeAmount"`
	PlatformFee   int64      `json:"platformFee"`
	LedgerEntryID *uuid.UUID `json:"ledgerEntryId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
