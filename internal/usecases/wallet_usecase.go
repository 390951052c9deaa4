package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/domain/repositories"
	"hive-economy.backend/pkg/crypto"
	"hive-economy.backend/pkg/logger"
	"hive-economy.backend/pkg/metrics"
)

// WalletUsecase manages custodial wallets. Private keys only ever exist in
// plaintext inside CreateWallet and DecryptPrivateKey; everywhere else they
// are sealed envelopes.
type WalletUsecase struct {
	walletRepo  repositories.WalletRepository
	accountRepo repositories.AccountRepository
	masterKey   string
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(walletRepo repositories.WalletRepository, accountRepo repositories.AccountRepository, masterKey string) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:  walletRepo,
		accountRepo: accountRepo,
		masterKey:   masterKey,
	}
}

// CreateWallet generates a keypair for the user and stores the private key
// encrypted under the vault master key. Each user gets at most one wallet.
func (u *WalletUsecase) CreateWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	if _, err := u.accountRepo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := u.walletRepo.GetByUserID(ctx, userID); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrWalletNotFound) {
		return nil, err
	}

	keyPair, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	env, err := crypto.Encrypt(keyPair.PrivateKeyHex, u.masterKey)
	if err != nil {
		return nil, err
	}

	wallet := &entities.Wallet{
		UserID:              userID,
		PublicAddress:       keyPair.PublicAddress,
		EncryptedPrivateKey: env.Ciphertext,
		Encryption: entities.EncryptionMeta{
			IV:            env.IV,
			Salt:          env.Salt,
			AuthTag:       env.AuthTag,
			Algorithm:     crypto.VaultAlgorithm,
			KeyDerivation: crypto.VaultKDF,
			Iterations:    crypto.VaultIterations,
			Version:       "1",
		},
	}

	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	metrics.WalletsCreatedTotal.Inc()
	logger.Info(ctx, "wallet created",
		zap.String("user_id", userID.String()),
		zap.String("address", wallet.PublicAddress))
	return wallet, nil
}

// GetWallet returns the user's wallet without key material
func (u *WalletUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByUserID(ctx, userID)
}

// GetBalance returns the user's cash balance, lazily creating the wallet on
// first read and refreshing its cached balance from the account store
func (u *WalletUsecase) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	account, err := u.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if _, err := u.walletRepo.GetByUserID(ctx, userID); err != nil {
		if !errors.Is(err, domainerrors.ErrWalletNotFound) {
			return 0, err
		}
		// A concurrent first read may have created it already.
		if _, err := u.CreateWallet(ctx, userID); err != nil && !errors.Is(err, domainerrors.ErrAlreadyExists) {
			return 0, err
		}
	}

	if err := u.walletRepo.UpdateBalance(ctx, userID, account.CashBalance); err != nil {
		return 0, err
	}
	return account.CashBalance, nil
}

// DecryptPrivateKey opens the user's sealed private key. Any corruption of
// the envelope or a wrong master key yields ErrDecryptionFailed; the
// plaintext is returned to the caller and never logged.
func (u *WalletUsecase) DecryptPrivateKey(ctx context.Context, userID uuid.UUID) (string, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	plaintext, err := crypto.Decrypt(&crypto.Envelope{
		Ciphertext: wallet.EncryptedPrivateKey,
		IV:         wallet.Encryption.IV,
		Salt:       wallet.Encryption.Salt,
		AuthTag:    wallet.Encryption.AuthTag,
	}, u.masterKey)
	if err != nil {
		logger.Warn(ctx, "wallet decryption failed", zap.String("user_id", userID.String()))
		return "", domainerrors.ErrDecryptionFailed
	}

	// Key access is rare enough that every open is worth a trace.
	logger.Info(ctx, "wallet private key decrypted", zap.String("user_id", userID.String()))
	return plaintext, nil
}

// SyncBalance refreshes the wallet's cached balance from the account's
// cash balance
func (u *WalletUsecase) SyncBalance(ctx context.Context, userID uuid.UUID) error {
	account, err := u.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return u.walletRepo.UpdateBalance(ctx, userID, account.CashBalance)
}
