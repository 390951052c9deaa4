package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
)

// LedgerRepository persists immutable ledger entries
type LedgerRepository interface {
	Create(ctx context.Context, entry *entities.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerEntry, error)
	// GetHistory returns entries where the user is sender or receiver,
	// newest first, ordered by (created_at, id) for stable pagination.
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.LedgerEntry, int64, error)
	// MarkReversed flips a completed entry to reversed; matches no row if
	// the entry is not completed.
	MarkReversed(ctx context.Context, id uuid.UUID) error
	// CountCompletedSince counts completed entries created after the cutoff.
	CountCompletedSince(ctx context.Context, hiveID string, since time.Time) (int64, error)
	// CountActiveUsersSince counts distinct senders/receivers on completed
	// entries created after the cutoff.
	CountActiveUsersSince(ctx context.Context, hiveID string, since time.Time) (int64, error)
	// SumCompletedForUser recomputes a user's balance from entry history:
	// net inflow as receiver minus face-amount outflow as sender.
	SumCompletedForUser(ctx context.Context, userID uuid.UUID, creditType entities.CreditType) (int64, error)
}
