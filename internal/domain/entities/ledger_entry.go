package entities

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus represents ledger entry status
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusFailed    EntryStatus = "failed"
	EntryStatusReversed  EntryStatus = "reversed"
)

// EntryType is the fixed transaction taxonomy
type EntryType string

const (
	EntryTypeGift            EntryType = "gift"
	EntryTypePurchase        EntryType = "purchase"
	EntryTypePayout          EntryType = "payout"
	EntryTypeBond            EntryType = "bond"
	EntryTypeReward          EntryType = "reward"
	EntryTypeTournamentEntry EntryType = "tournament_entry"
	EntryTypeTournamentWin   EntryType = "tournament_win"
)

// LedgerEntry is one immutable record of a value movement. A nil SenderID
// denotes a system-originated credit. Amount is the net amount received in
// minor units; FeeAmount and TaxAmount were charged on top of it to the
// sender. Once completed, an entry is never updated; corrections append a
// reversing entry.
type LedgerEntry struct {
	ID         uuid.UUID              `json:"id"`
	SenderID   *uuid.UUID             `json:"senderId,omitempty"`
	ReceiverID *uuid.UUID             `json:"receiverId,omitempty"`
	Amount     int64                  `json:"amount"`
	CreditType CreditType             `json:"creditType"`
	Type       EntryType              `json:"type"`
	Status     EntryStatus            `json:"status"`
	FeeAmount  int64                  `json:"feeAmount"`
	TaxAmount  int64                  `json:"taxAmount"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	HiveID     string                 `json:"hiveId"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// NetAmount is what the receiver was credited: the face amount minus the
// platform fee. The sender is always debited the face amount.
func (e *LedgerEntry) NetAmount() int64 {
	return e.Amount - e.FeeAmount
}

// FeeBreakdown is the deterministic fee/tax split for one amount
type FeeBreakdown struct {
	FeeAmount int64 `json:"feeAmount"`
	TaxAmount int64 `json:"taxAmount"`
}
