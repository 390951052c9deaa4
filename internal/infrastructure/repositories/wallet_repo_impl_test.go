package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
)

func testWallet(userID uuid.UUID) *entities.Wallet {
	return &entities.Wallet{
		UserID:              userID,
		PublicAddress:       "0x" + uuid.NewString()[:8],
		EncryptedPrivateKey: "636970686572",
		Encryption: entities.EncryptionMeta{
			IV:            "697620686578",
			Salt:          "73616c74",
			AuthTag:       "746167",
			Algorithm:     "aes-256-gcm",
			KeyDerivation: "pbkdf2",
			Iterations:    100000,
			Version:       "1",
		},
	}
}

func TestWalletCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	wallet := testWallet(userID)
	require.NoError(t, repo.Create(ctx, wallet))
	require.NotEqual(t, uuid.Nil, wallet.ID)

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, wallet.PublicAddress, got.PublicAddress)
	require.Equal(t, wallet.EncryptedPrivateKey, got.EncryptedPrivateKey)

	// The envelope round-trips intact, meta blob included.
	require.Equal(t, wallet.Encryption, got.Encryption)
}

func TestWalletGetNotFound(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	repo := NewWalletRepository(db)

	_, err := repo.GetByUserID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
}

func TestWalletUpdateBalance(t *testing.T) {
	db := newTestDB(t)
	createWalletTable(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, testWallet(userID)))

	require.NoError(t, repo.UpdateBalance(ctx, userID, 4200))

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(4200), got.Balance)

	err = repo.UpdateBalance(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
}
