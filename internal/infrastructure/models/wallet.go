package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PublicAddress       string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	EncryptedPrivateKey string    `gorm:"type:text;not null"`
	EncryptionIV        string    `gorm:"type:varchar(64);not null"`
	EncryptionSalt      string    `gorm:"type:varchar(128);not null"`
	EncryptionAuthTag   string    `gorm:"type:varchar(64);not null"`
	// algorithm / kdf / iterations / version as a jsonb blob
	EncryptionMeta string `gorm:"type:jsonb;not null;default:'{}'"`
	Balance        int64  `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
