package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	KarmaBalance int64     `gorm:"not null;default:0"`
	CashBalance  int64     `gorm:"not null;default:0"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"`
	HiveID       string    `gorm:"type:varchar(20);not null;default:'quebec';index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
