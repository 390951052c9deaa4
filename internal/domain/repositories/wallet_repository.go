package repositories

import (
	"context"

	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
)

// WalletRepository persists encrypted wallets
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error
}
