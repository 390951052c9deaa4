package repositories

import (
	"context"

	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
)

// AccountRepository is the account store. Debit is a conditional update
// evaluated inside the surrounding unit of work: it only succeeds if the
// balance still covers the amount at mutation time.
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Account, error)
	// Debit subtracts amount from the user's balance for the credit type.
	// Returns ErrInsufficientFunds when the guarded update matches no row.
	Debit(ctx context.Context, userID uuid.UUID, creditType entities.CreditType, amount int64) error
	// Credit adds amount to the user's balance for the credit type.
	Credit(ctx context.Context, userID uuid.UUID, creditType entities.CreditType, amount int64) error
	// ListIDs pages over account user IDs for background reconciliation.
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}
