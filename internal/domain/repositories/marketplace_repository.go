package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
)

// MarketplaceRepository persists bee assets, listings and trades. Ownership
// and status flips are compare-and-swap updates keyed on the active status,
// so a listing can be sold at most once.
type MarketplaceRepository interface {
	CreateAsset(ctx context.Context, asset *entities.MarketplaceAsset) error
	GetAssetByID(ctx context.Context, id uuid.UUID) (*entities.MarketplaceAsset, error)
	GetAssetsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.MarketplaceAsset, error)
	// TransferAsset flips an active asset to the buyer and marks it sold;
	// matches no row if the asset is no longer active.
	TransferAsset(ctx context.Context, assetID, newOwnerID uuid.UUID, soldAt time.Time) error

	CreateListing(ctx context.Context, listing *entities.Listing) error
	// GetListingByID loads the listing with its asset joined.
	GetListingByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error)
	GetActiveListings(ctx context.Context, beeType entities.BeeType, hiveID string) ([]*entities.Listing, error)
	// GetActiveListingByAsset returns the active listing for an asset, or
	// ErrNotFound when the asset is not listed.
	GetActiveListingByAsset(ctx context.Context, assetID uuid.UUID) (*entities.Listing, error)
	// CloseListing moves an active listing to sold or cancelled; matches no
	// row (ErrListingNotActive) if it is no longer active.
	CloseListing(ctx context.Context, listingID uuid.UUID, to entities.ListingStatus) error

	CreateTrade(ctx context.Context, trade *entities.Trade) error
	GetTradesByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Trade, error)
}
