package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry rows are append-only: completed entries are never updated
// except for the single completed -> reversed flip.
type LedgerEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SenderID   *uuid.UUID `gorm:"type:uuid;index"`
	ReceiverID *uuid.UUID `gorm:"type:uuid;index"`
	Amount     int64      `gorm:"not null"`
	CreditType string     `gorm:"type:varchar(20);not null;default:'cash'"`
	EntryType  string     `gorm:"type:varchar(30);not null"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	FeeAmount  int64      `gorm:"not null;default:0"`
	TaxAmount  int64      `gorm:"not null;default:0"`
	Metadata   string     `gorm:"type:jsonb;default:'{}'"`
	HiveID     string     `gorm:"type:varchar(20);not null;default:'quebec';index"`
	CreatedAt  time.Time  `gorm:"index:idx_ledger_entries_created_id,priority:1"`
}
