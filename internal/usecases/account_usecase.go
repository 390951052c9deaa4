package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/domain/repositories"
	"hive-economy.backend/pkg/logger"
)

// AccountUsecase manages the cached-balance account store
type AccountUsecase struct {
	accountRepo repositories.AccountRepository
	hiveID      string
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(accountRepo repositories.AccountRepository, hiveID string) *AccountUsecase {
	return &AccountUsecase{accountRepo: accountRepo, hiveID: hiveID}
}

// CreateAccount opens a zero-balance account for a user
func (u *AccountUsecase) CreateAccount(ctx context.Context, userID uuid.UUID) (*entities.Account, error) {
	if userID == uuid.Nil {
		return nil, domainerrors.ErrInvalidInput
	}

	if existing, err := u.accountRepo.GetByUserID(ctx, userID); err == nil {
		return existing, nil
	}

	account := &entities.Account{
		UserID: userID,
		Status: entities.AccountStatusActive,
		HiveID: u.hiveID,
	}
	if err := u.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	logger.Info(ctx, "account created", zap.String("user_id", userID.String()))
	return account, nil
}

// GetAccount returns a user's account with its cached balances
func (u *AccountUsecase) GetAccount(ctx context.Context, userID uuid.UUID) (*entities.Account, error) {
	return u.accountRepo.GetByUserID(ctx, userID)
}
