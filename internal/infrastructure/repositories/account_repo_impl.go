package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/infrastructure/models"
)

// AccountRepository implements account store operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func balanceColumn(creditType entities.CreditType) string {
	if creditType == entities.CreditTypeKarma {
		return "karma_balance"
	}
	return "cash_balance"
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	m := &models.Account{
		ID:           account.ID,
		UserID:       account.UserID,
		KarmaBalance: account.KarmaBalance,
		CashBalance:  account.CashBalance,
		Status:       string(account.Status),
		HiveID:       account.HiveID,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = string(entities.AccountStatusActive)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
		m.UpdatedAt = m.CreatedAt
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	account.ID = m.ID
	account.Status = entities.AccountStatus(m.Status)
	account.CreatedAt = m.CreatedAt
	return nil
}

// GetByUserID gets the account for a user
func (r *AccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Account, error) {
	var m models.Account
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Debit subtracts amount with a balance guard in the same statement. The
// guard is what serializes concurrent spends: two debits against the same
// row cannot both pass once the balance no longer covers them.
func (r *AccountRepository) Debit(ctx context.Context, userID uuid.UUID, creditType entities.CreditType, amount int64) error {
	col := balanceColumn(creditType)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ? AND "+col+" >= ?", userID, amount).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" - ?", amount),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing account from a short balance.
		var count int64
		if err := db.WithContext(ctx).Model(&models.Account{}).
			Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrAccountNotFound
		}
		return domainerrors.ErrInsufficientFunds
	}
	return nil
}

// Credit adds amount to the user's balance
func (r *AccountRepository) Credit(ctx context.Context, userID uuid.UUID, creditType entities.CreditType, amount int64) error {
	col := balanceColumn(creditType)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" + ?", amount),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

// ListIDs pages over account user IDs, oldest first
func (r *AccountRepository) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Account{}).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *AccountRepository) toEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:           m.ID,
		UserID:       m.UserID,
		KarmaBalance: m.KarmaBalance,
		CashBalance:  m.CashBalance,
		Status:       entities.AccountStatus(m.Status),
		HiveID:       m.HiveID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
