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

// WalletRepository implements encrypted wallet persistence
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

type walletMetaBlob struct {
	Algorithm     string `json:"algorithm"`
	KeyDerivation string `json:"keyDerivation"`
	Iterations    int    `json:"iterations"`
	Version       string `json:"version"`
}

// Create persists a new wallet; the user_id unique index rejects a second
// wallet for the same user.
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	metaRaw, err := json.Marshal(walletMetaBlob{
		Algorithm:     wallet.Encryption.Algorithm,
		KeyDerivation: wallet.Encryption.KeyDerivation,
		Iterations:    wallet.Encryption.Iterations,
		Version:       wallet.Encryption.Version,
	})
	if err != nil {
		return err
	}

	m := &models.Wallet{
		ID:                  wallet.ID,
		UserID:              wallet.UserID,
		PublicAddress:       wallet.PublicAddress,
		EncryptedPrivateKey: wallet.EncryptedPrivateKey,
		EncryptionIV:        wallet.Encryption.IV,
		EncryptionSalt:      wallet.Encryption.Salt,
		EncryptionAuthTag:   wallet.Encryption.AuthTag,
		EncryptionMeta:      string(metaRaw),
		Balance:             wallet.Balance,
		CreatedAt:           wallet.CreatedAt,
		UpdatedAt:           wallet.UpdatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
		m.UpdatedAt = m.CreatedAt
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	wallet.ID = m.ID
	wallet.CreatedAt = m.CreatedAt
	return nil
}

// GetByUserID gets the wallet for a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// UpdateBalance refreshes the cached balance
func (r *WalletRepository) UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	var blob walletMetaBlob
	_ = json.Unmarshal([]byte(m.EncryptionMeta), &blob)

	return &entities.Wallet{
		ID:                  m.ID,
		UserID:              m.UserID,
		PublicAddress:       m.PublicAddress,
		EncryptedPrivateKey: m.EncryptedPrivateKey,
		Encryption: entities.EncryptionMeta{
			IV:            m.EncryptionIV,
			Salt:          m.EncryptionSalt,
			AuthTag:       m.EncryptionAuthTag,
			Algorithm:     blob.Algorithm,
			KeyDerivation: blob.KeyDerivation,
			Iterations:    blob.Iterations,
			Version:       blob.Version,
		},
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
