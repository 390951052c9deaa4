package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PoolStatus represents the jackpot pool state machine. Transitions are
// one-directional: active -> locked -> calculating -> completed, with
// cancelled reachable from active or locked.
type PoolStatus string

const (
	PoolStatusActive      PoolStatus = "active"
	PoolStatusLocked      PoolStatus = "locked"
	PoolStatusCalculating PoolStatus = "calculating"
	PoolStatusCompleted   PoolStatus = "completed"
	PoolStatusCancelled   PoolStatus = "cancelled"
)

// JackpotPool accumulates a slice of platform fees until trigger conditions
// fire. TargetAmount is a display goal, not a draw gate.
type JackpotPool struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	TargetAmount    int64       `json:"targetAmount"`
	CurrentAmount   int64       `json:"currentAmount"`
	MinContribution int64       `json:"minContribution"`
	Status          PoolStatus  `json:"status"`
	MinActiveUsers  int         `json:"minActiveUsers"`
	MinTransactions int         `json:"minTransactions"`
	WinnerSeed      null.String `json:"winnerSeed,omitempty"`
	DrawnAt         null.Time   `json:"drawnAt,omitempty"`
	HiveID          string      `json:"hiveId"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// JackpotEntry ties one contribution to a pool. Entries for the same user
// are never merged; each keeps its own weight.
type JackpotEntry struct {
	ID                 uuid.UUID  `json:"id"`
	PoolID             uuid.UUID  `json:"poolId"`
	UserID             uuid.UUID  `json:"userId"`
	ContributionAmount int64      `json:"contributionAmount"`
	EntryTransactionID *uuid.UUID `json:"entryTransactionId,omitempty"`
	EntryWeight        int64      `json:"entryWeight"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// JackpotWinner is the permanent record of one draw. FairnessProof binds
// pool, seed, prize and timestamp so any third party can recompute it;
// AlgoVersion pins the formula the proof was produced under.
type JackpotWinner struct {
	ID            uuid.UUID  `json:"id"`
	PoolID        uuid.UUID  `json:"poolId"`
	WinnerID      uuid.UUID  `json:"winnerId"`
	PrizeAmount   int64      `json:"prizeAmount"`
	PayoutEntryID *uuid.UUID `json:"payoutEntryId,omitempty"`
	FairnessProof string     `json:"fairnessProof"`
	AlgoVersion   string     `json:"algoVersion"`
	DrawnAt       time.Time  `json:"drawnAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// JackpotStatus is the public snapshot of the current pot
type JackpotStatus struct {
	Pool               *JackpotPool `json:"pool"`
	Entries            int64        `json:"entries"`
	TotalContributions int64        `json:"totalContributions"`
	Progress           float64      `json:"progress"`
}
