package entities

import (
	"time"

	"github.com/google/uuid"
)

// EncryptionMeta describes how a wallet's private key was sealed. The four
// hex fields (ciphertext on the wallet, IV, salt, auth tag here) are one
// inseparable unit; losing any of them makes the ciphertext unrecoverable.
type EncryptionMeta struct {
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
	AuthTag       string `json:"authTag"`
	Algorithm     string `json:"algorithm"`
	KeyDerivation string `json:"keyDerivation"`
	Iterations    int    `json:"iterations"`
	Version       string `json:"version"`
}

// Wallet is the per-user encrypted keypair anchoring ledger identity.
// Balance is a read-optimized cache of the account's cash balance; the
// ledger remains the source of truth.
type Wallet struct {
	ID                  uuid.UUID      `json:"id"`
	UserID              uuid.UUID      `json:"userId"`
	PublicAddress       string         `json:"publicAddress"`
	EncryptedPrivateKey string         `json:"-"`
	Encryption          EncryptionMeta `json:"-"`
	Balance             int64          `json:"balance"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}
