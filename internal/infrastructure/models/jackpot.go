package models

import (
	"time"

	"github.com/google/uuid"
)

// JackpotPool enforces the single-active-pool rule per hive through the
// status CAS updates in the repository; deployments add a partial unique
// index on (hive_id) WHERE status = 'active' in the migration.
type JackpotPool struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name            string    `gorm:"type:varchar(100);not null"`
	Description     string    `gorm:"type:text"`
	TargetAmount    int64     `gorm:"not null"`
	CurrentAmount   int64     `gorm:"not null;default:0"`
	MinContribution int64     `gorm:"not null;default:100"`
	Status          string    `gorm:"type:varchar(20);not null;default:'active';index"`
	MinActiveUsers  int       `gorm:"not null;default:100"`
	MinTransactions int       `gorm:"not null;default:1000"`
	WinnerSeed      *string   `gorm:"type:text"`
	DrawnAt         *time.Time
	HiveID          string    `gorm:"type:varchar(20);not null;default:'quebec';index"`
	CreatedAt       time.Time
}

type JackpotEntry struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PoolID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	ContributionAmount int64      `gorm:"not null"`
	EntryTransactionID *uuid.UUID `gorm:"type:uuid"`
	EntryWeight        int64      `gorm:"not null;default:1"`
	CreatedAt          time.Time
}

type JackpotWinner struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PoolID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	WinnerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	PrizeAmount   int64      `gorm:"not null"`
	PayoutEntryID *uuid.UUID `gorm:"type:uuid"`
	FairnessProof string     `gorm:"type:text;not null"`
	AlgoVersion   string     `gorm:"type:varchar(10);not null;default:'v1'"`
	DrawnAt       time.Time
	CreatedAt     time.Time
}
