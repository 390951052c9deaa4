package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/domain/repositories"
	"hive-economy.backend/pkg/logger"
	"hive-economy.backend/pkg/metrics"
)

// MarketplaceUsecase handles bee asset listings, purchases and trades
type MarketplaceUsecase struct {
	uow             repositories.UnitOfWork
	marketplaceRepo repositories.MarketplaceRepository
	accountRepo     repositories.AccountRepository
	ledgerRepo      repositories.LedgerRepository
	jackpot         jackpotContributor
	hiveID          string
}

// NewMarketplaceUsecase creates a new marketplace usecase
func NewMarketplaceUsecase(
	uow repositories.UnitOfWork,
	marketplaceRepo repositories.MarketplaceRepository,
	accountRepo repositories.AccountRepository,
	ledgerRepo repositories.LedgerRepository,
	hiveID string,
) *MarketplaceUsecase {
	return &MarketplaceUsecase{
		uow:             uow,
		marketplaceRepo: marketplaceRepo,
		accountRepo:     accountRepo,
		ledgerRepo:      ledgerRepo,
		hiveID:          hiveID,
	}
}

// SetJackpotContributor wires the jackpot engine in after construction
func (u *MarketplaceUsecase) SetJackpotContributor(c jackpotContributor) {
	u.jackpot = c
}

// RegisterAssetInput describes a new bee asset
type RegisterAssetInput struct {
	Name      string
	Type      entities.BeeType
	OwnerID   uuid.UUID
	BasePrice int64
	Metadata  map[string]interface{}
}

// RegisterAsset mints a new bee under the given owner
func (u *MarketplaceUsecase) RegisterAsset(ctx context.Context, input RegisterAssetInput) (*entities.MarketplaceAsset, error) {
	if input.Name == "" || input.Type == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.BasePrice < 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	if _, err := u.accountRepo.GetByUserID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	asset := &entities.MarketplaceAsset{
		Name:      input.Name,
		Type:      input.Type,
		OwnerID:   input.OwnerID,
		Metadata:  input.Metadata,
		BasePrice: input.BasePrice,
		Status:    entities.ListingStatusActive,
		HiveID:    u.hiveID,
	}
	if err := u.marketplaceRepo.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// ListInput describes a sale offer
type ListInput struct {
	AssetID     uuid.UUID
	SellerID    uuid.UUID
	Price       int64
	Description string
	ExpiresAt   *time.Time
}

// List puts an owned asset up for sale. An asset can carry at most one
// active listing.
func (u *MarketplaceUsecase) List(ctx context.Context, input ListInput) (*entities.Listing, error) {
	if input.Price <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	asset, err := u.marketplaceRepo.GetAssetByID(ctx, input.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.OwnerID != input.SellerID {
		return nil, domainerrors.ErrForbidden
	}
	if asset.Status != entities.ListingStatusActive {
		return nil, domainerrors.ErrListingNotActive
	}

	if _, err := u.marketplaceRepo.GetActiveListingByAsset(ctx, input.AssetID); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	listing := &entities.Listing{
		AssetID:     input.AssetID,
		SellerID:    input.SellerID,
		Price:       input.Price,
		Description: input.Description,
		Status:      entities.ListingStatusActive,
	}
	if input.ExpiresAt != nil {
		listing.ExpiresAt = null.TimeFrom(*input.ExpiresAt)
	}

	if err := u.marketplaceRepo.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset listed",
		zap.String("listing_id", listing.ID.String()),
		zap.String("asset_id", input.AssetID.String()),
		zap.Int64("price", input.Price))
	return listing, nil
}

// Purchase buys a listed asset. Inside one transaction the listing closes,
// the buyer is debited exactly the listing price, the seller is credited
// the price minus the platform fee, ownership flips, and the trade and
// ledger records are appended. The
// compare-and-swap guards on listing and asset status mean two concurrent
// purchases of the same listing produce exactly one sale.
func (u *MarketplaceUsecase) Purchase(ctx context.Context, listingID, buyerID uuid.UUID) (*entities.Trade, error) {
	listing, err := u.marketplaceRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != entities.ListingStatusActive {
		return nil, domainerrors.ErrListingNotActive
	}
	if listing.Expired(time.Now()) {
		// Lazily retire the expired offer.
		_ = u.marketplaceRepo.CloseListing(ctx, listingID, entities.ListingStatusCancelled)
		return nil, domainerrors.ErrListingExpired
	}
	if listing.SellerID == buyerID {
		return nil, domainerrors.ErrSelfTradeRejected
	}

	buyer, err := u.accountRepo.GetByUserID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.Status == entities.AccountStatusBanned {
		return nil, domainerrors.ErrAccountBanned
	}

	fees := ComputeFees(listing.Price, entities.EntryTypePurchase)
	sellerNet := listing.Price - fees.FeeAmount
	now := time.Now()

	entry := &entities.LedgerEntry{
		SenderID:   &buyerID,
		ReceiverID: &listing.SellerID,
		Amount:     listing.Price,
		CreditType: entities.CreditTypeCash,
		Type:       entities.EntryTypePurchase,
		Status:     entities.EntryStatusCompleted,
		FeeAmount:  fees.FeeAmount,
		TaxAmount:  fees.TaxAmount,
		Metadata: map[string]interface{}{
			"listing_id": listingID.String(),
			"asset_id":   listing.AssetID.String(),
		},
		HiveID: u.hiveID,
	}
	trade := &entities.Trade{
		ListingID:   listingID,
		SellerID:    listing.SellerID,
		BuyerID:     buyerID,
		AssetID:     listing.AssetID,
		TradeAmount: listing.Price,
		PlatformFee: fees.FeeAmount,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.marketplaceRepo.CloseListing(ctx, listingID, entities.ListingStatusSold); err != nil {
			return err
		}
		if err := u.marketplaceRepo.TransferAsset(ctx, listing.AssetID, buyerID, now); err != nil {
			return err
		}
		if err := u.accountRepo.Debit(ctx, buyerID, entities.CreditTypeCash, listing.Price); err != nil {
			return err
		}
		if err := u.accountRepo.Credit(ctx, listing.SellerID, entities.CreditTypeCash, sellerNet); err != nil {
			return err
		}
		if err := u.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}
		trade.LedgerEntryID = &entry.ID
		if err := u.marketplaceRepo.CreateTrade(ctx, trade); err != nil {
			return err
		}

		if u.jackpot != nil {
			if share := JackpotShare(fees.FeeAmount); share > 0 {
				if err := u.jackpot.Contribute(ctx, buyerID, share, entry.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TradesTotal.Inc()
	metrics.FeesCollectedTotal.Add(float64(fees.FeeAmount))

	logger.Info(ctx, "asset purchased",
		zap.String("trade_id", trade.ID.String()),
		zap.String("asset_id", listing.AssetID.String()),
		zap.Int64("amount", listing.Price),
		zap.Int64("fee", fees.FeeAmount))
	return trade, nil
}

// Cancel withdraws a seller's own active listing
func (u *MarketplaceUsecase) Cancel(ctx context.Context, listingID, sellerID uuid.UUID) error {
	listing, err := u.marketplaceRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return domainerrors.ErrForbidden
	}
	return u.marketplaceRepo.CloseListing(ctx, listingID, entities.ListingStatusCancelled)
}

// ActiveListings returns the browsable market, optionally filtered by bee
// type
func (u *MarketplaceUsecase) ActiveListings(ctx context.Context, beeType entities.BeeType) ([]*entities.Listing, error) {
	return u.marketplaceRepo.GetActiveListings(ctx, beeType, u.hiveID)
}

// OwnedAssets returns a user's bees
func (u *MarketplaceUsecase) OwnedAssets(ctx context.Context, ownerID uuid.UUID) ([]*entities.MarketplaceAsset, error) {
	return u.marketplaceRepo.GetAssetsByOwner(ctx, ownerID)
}

// TradeHistory returns trades the user took part in, newest first
func (u *MarketplaceUsecase) TradeHistory(ctx context.Context, userID uuid.UUID) ([]*entities.Trade, error) {
	return u.marketplaceRepo.GetTradesByUser(ctx, userID)
}
