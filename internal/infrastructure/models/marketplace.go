package models

import (
	"time"

	"github.com/google/uuid"
)

type MarketplaceAsset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	BeeType   string    `gorm:"type:varchar(20);not null;index"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Metadata  string    `gorm:"type:jsonb;default:'{}'"`
	BasePrice int64     `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active';index"`
	HiveID    string    `gorm:"type:varchar(20);not null;default:'quebec';index"`
	CreatedAt time.Time
	SoldAt    *time.Time
}

type Listing struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AssetID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Price       int64     `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active';index"`
	ExpiresAt   *time.Time
	CreatedAt   time.Time

	Asset MarketplaceAsset `gorm:"foreignKey:AssetID;references:ID"`
}

type Trade struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ListingID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	SellerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	BuyerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssetID       uuid.UUID  `gorm:"type:uuid;not null"`
	TradeAmount   int64      `gorm:"not null"`
	PlatformFee   int64      `gorm:"not null;default:0"`
	LedgerEntryID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}
