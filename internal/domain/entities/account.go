package entities

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents account standing
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusBanned AccountStatus = "banned"
)

// CreditType represents the kind of credit a balance or entry moves
type CreditType string

const (
	CreditTypeKarma     CreditType = "karma"
	CreditTypeCash      CreditType = "cash"
	CreditTypeLegendary CreditType = "legendary"
)

// Account holds a user's cached balances. Balances are a projection of the
// ledger and are only mutated through ledger operations, never directly.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"userId"`
	KarmaBalance int64         `json:"karmaBalance"`
	CashBalance  int64         `json:"cashBalance"`
	Status       AccountStatus `json:"status"`
	HiveID       string        `json:"hiveId"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CanReceivePayout reports whether the account is eligible for
// system-originated credits such as jackpot prizes.
func (a *Account) CanReceivePayout() bool {
	return a.Status == AccountStatusActive
}
