package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
)

// JackpotRepository persists pools, entries and winners. Status moves are
// compare-and-swap updates keyed on the expected current status so that
// concurrent draws cannot race past each other.
type JackpotRepository interface {
	CreatePool(ctx context.Context, pool *entities.JackpotPool) error
	GetPoolByID(ctx context.Context, id uuid.UUID) (*entities.JackpotPool, error)
	// GetActivePool returns the newest active pool for the hive, or
	// ErrNotFound when none exists.
	GetActivePool(ctx context.Context, hiveID string) (*entities.JackpotPool, error)
	ListPoolsByStatus(ctx context.Context, status entities.PoolStatus, limit int) ([]*entities.JackpotPool, error)
	// TransitionStatus moves a pool from one status to another; matches no
	// row (ErrPoolNotActive) if the pool is no longer in the from status.
	TransitionStatus(ctx context.Context, poolID uuid.UUID, from, to entities.PoolStatus) error
	// SetWinnerSeed persists the draw seed and timestamp while moving the
	// pool from locked to calculating.
	SetWinnerSeed(ctx context.Context, poolID uuid.UUID, seed string, drawnAt time.Time) error
	IncrementPoolAmount(ctx context.Context, poolID uuid.UUID, amount int64) error

	CreateEntry(ctx context.Context, entry *entities.JackpotEntry) error
	// GetEntriesByPool returns entries in creation order (created_at, id),
	// the fixed sequence the weighted draw walks.
	GetEntriesByPool(ctx context.Context, poolID uuid.UUID) ([]*entities.JackpotEntry, error)
	CountEntries(ctx context.Context, poolID uuid.UUID) (int64, error)

	CreateWinner(ctx context.Context, winner *entities.JackpotWinner) error
	GetWinnerByPool(ctx context.Context, poolID uuid.UUID) (*entities.JackpotWinner, error)
	// SetWinnerPayoutEntry links the payout ledger entry once the prize has
	// been credited.
	SetWinnerPayoutEntry(ctx context.Context, winnerID, entryID uuid.UUID) error
}
