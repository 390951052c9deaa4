package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/domain/repositories"
	"hive-economy.backend/pkg/logger"
	"hive-economy.backend/pkg/metrics"
)

// jackpotContributor receives the jackpot slice of platform fees. It runs
// inside the transfer's unit of work so a failed contribution rolls the
// whole transfer back.
type jackpotContributor interface {
	Contribute(ctx context.Context, userID uuid.UUID, feeAmount int64, entryTxID uuid.UUID) error
}

// LedgerUsecase handles value movements between accounts
type LedgerUsecase struct {
	uow         repositories.UnitOfWork
	accountRepo repositories.AccountRepository
	ledgerRepo  repositories.LedgerRepository
	jackpot     jackpotContributor
	hiveID      string
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	ledgerRepo repositories.LedgerRepository,
	hiveID string,
) *LedgerUsecase {
	return &LedgerUsecase{
		uow:         uow,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		hiveID:      hiveID,
	}
}

// SetJackpotContributor wires the jackpot engine in after construction,
// breaking the ledger/jackpot construction cycle
func (u *LedgerUsecase) SetJackpotContributor(c jackpotContributor) {
	u.jackpot = c
}

// TransferInput describes one user-to-user transfer
type TransferInput struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Amount     int64
	CreditType entities.CreditType
	Type       entities.EntryType
	Metadata   map[string]interface{}
}

// Transfer atomically moves value between two users. The sender is debited
// exactly the face amount, the receiver is credited the amount minus the
// platform fee, and the jackpot slice of the fee is forwarded to the active
// pool. Any failure rolls back every effect.
func (u *LedgerUsecase) Transfer(ctx context.Context, input TransferInput) (*entities.LedgerEntry, error) {
	if input.Amount <= 0 {
		metrics.TransferFailuresTotal.WithLabelValues("invalid_amount").Inc()
		return nil, domainerrors.ErrInvalidAmount
	}
	if input.SenderID == input.ReceiverID {
		metrics.TransferFailuresTotal.WithLabelValues("self_transfer").Inc()
		return nil, domainerrors.ErrInvalidInput
	}
	// Karma is reputation, not money; it only moves via system credits.
	if input.CreditType == entities.CreditTypeKarma {
		metrics.TransferFailuresTotal.WithLabelValues("karma_transfer").Inc()
		return nil, domainerrors.ErrInvalidInput
	}

	sender, err := u.accountRepo.GetByUserID(ctx, input.SenderID)
	if err != nil {
		return nil, err
	}
	if sender.Status == entities.AccountStatusBanned {
		metrics.TransferFailuresTotal.WithLabelValues("banned").Inc()
		return nil, domainerrors.ErrAccountBanned
	}
	if _, err := u.accountRepo.GetByUserID(ctx, input.ReceiverID); err != nil {
		return nil, err
	}

	fees := ComputeFees(input.Amount, input.Type)
	net := input.Amount - fees.FeeAmount

	entry := &entities.LedgerEntry{
		SenderID:   &input.SenderID,
		ReceiverID: &input.ReceiverID,
		Amount:     input.Amount,
		CreditType: input.CreditType,
		Type:       input.Type,
		Status:     entities.EntryStatusCompleted,
		FeeAmount:  fees.FeeAmount,
		TaxAmount:  fees.TaxAmount,
		Metadata:   input.Metadata,
		HiveID:     u.hiveID,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.accountRepo.Debit(ctx, input.SenderID, input.CreditType, input.Amount); err != nil {
			return err
		}
		if err := u.accountRepo.Credit(ctx, input.ReceiverID, input.CreditType, net); err != nil {
			return err
		}
		if err := u.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}

		if u.jackpot != nil {
			if share := JackpotShare(fees.FeeAmount); share > 0 {
				if err := u.jackpot.Contribute(ctx, input.SenderID, share, entry.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientFunds) {
			metrics.TransferFailuresTotal.WithLabelValues("insufficient_funds").Inc()
		}
		return nil, err
	}

	metrics.TransfersTotal.WithLabelValues(string(input.Type)).Inc()
	metrics.FeesCollectedTotal.Add(float64(fees.FeeAmount))

	logger.Info(ctx, "transfer completed",
		zap.String("entry_id", entry.ID.String()),
		zap.String("type", string(input.Type)),
		zap.Int64("amount", input.Amount),
		zap.Int64("fee", fees.FeeAmount))
	return entry, nil
}

// CreditSystem credits a user from the system with no counterparty and no
// fee. Used for payouts, rewards and tournament winnings.
func (u *LedgerUsecase) CreditSystem(ctx context.Context, receiverID uuid.UUID, amount int64, creditType entities.CreditType, entryType entities.EntryType, metadata map[string]interface{}) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	receiver, err := u.accountRepo.GetByUserID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !receiver.CanReceivePayout() {
		return nil, domainerrors.ErrAccountBanned
	}

	entry := &entities.LedgerEntry{
		ReceiverID: &receiverID,
		Amount:     amount,
		CreditType: creditType,
		Type:       entryType,
		Status:     entities.EntryStatusCompleted,
		Metadata:   metadata,
		HiveID:     u.hiveID,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.accountRepo.Credit(ctx, receiverID, creditType, amount); err != nil {
			return err
		}
		return u.ledgerRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	metrics.TransfersTotal.WithLabelValues(string(entryType)).Inc()
	return entry, nil
}

// GetHistory returns a user's ledger entries, newest first
func (u *LedgerUsecase) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	return u.ledgerRepo.GetHistory(ctx, userID, limit, offset)
}

// GetEntry returns one ledger entry by ID
func (u *LedgerUsecase) GetEntry(ctx context.Context, id uuid.UUID) (*entities.LedgerEntry, error) {
	return u.ledgerRepo.GetByID(ctx, id)
}

// Reverse compensates a completed transfer. The original entry keeps its
// historical effect and flips to reversed so it cannot be compensated
// twice; a new entry moves the net amount back to the sender. The fee is
// not refunded.
func (u *LedgerUsecase) Reverse(ctx context.Context, entryID uuid.UUID, reason string) (*entities.LedgerEntry, error) {
	original, err := u.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != entities.EntryStatusCompleted {
		return nil, domainerrors.ErrTransactionAborted
	}
	if original.SenderID == nil || original.ReceiverID == nil {
		return nil, domainerrors.ErrInvalidInput
	}

	// The receiver only ever held the net amount, so that is what moves
	// back. The fee stays collected.
	net := original.Amount - original.FeeAmount

	compensation := &entities.LedgerEntry{
		SenderID:   original.ReceiverID,
		ReceiverID: original.SenderID,
		Amount:     net,
		CreditType: original.CreditType,
		Type:       original.Type,
		Status:     entities.EntryStatusCompleted,
		Metadata: map[string]interface{}{
			"reversal_of": original.ID.String(),
			"reason":      reason,
		},
		HiveID: original.HiveID,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.ledgerRepo.MarkReversed(ctx, original.ID); err != nil {
			return err
		}
		if err := u.accountRepo.Debit(ctx, *original.ReceiverID, original.CreditType, net); err != nil {
			return err
		}
		if err := u.accountRepo.Credit(ctx, *original.SenderID, original.CreditType, net); err != nil {
			return err
		}
		return u.ledgerRepo.Create(ctx, compensation)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "entry reversed",
		zap.String("entry_id", original.ID.String()),
		zap.String("compensation_id", compensation.ID.String()))
	return compensation, nil
}

// RecordGift transfers cash as a gift between users
func (u *LedgerUsecase) RecordGift(ctx context.Context, senderID, receiverID uuid.UUID, amount int64, giftID string) (*entities.LedgerEntry, error) {
	meta := map[string]interface{}{}
	if giftID != "" {
		meta["gift_id"] = giftID
	}
	return u.Transfer(ctx, TransferInput{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		CreditType: entities.CreditTypeCash,
		Type:       entities.EntryTypeGift,
		Metadata:   meta,
	})
}

// RecordVerifiedPayment credits cash for an externally verified payment.
// The provider reference lands in metadata so the credit can be traced
// back to the payment processor.
func (u *LedgerUsecase) RecordVerifiedPayment(ctx context.Context, receiverID uuid.UUID, amount int64, provider, reference string) (*entities.LedgerEntry, error) {
	return u.CreditSystem(ctx, receiverID, amount, entities.CreditTypeCash, entities.EntryTypeReward, map[string]interface{}{
		"provider":  provider,
		"reference": reference,
	})
}

// ChargeTournamentEntry debits a tournament entry stake from a player
func (u *LedgerUsecase) ChargeTournamentEntry(ctx context.Context, playerID, organizerID uuid.UUID, stake int64, tournamentID string) (*entities.LedgerEntry, error) {
	return u.Transfer(ctx, TransferInput{
		SenderID:   playerID,
		ReceiverID: organizerID,
		Amount:     stake,
		CreditType: entities.CreditTypeCash,
		Type:       entities.EntryTypeTournamentEntry,
		Metadata:   map[string]interface{}{"tournament_id": tournamentID},
	})
}

// AwardTournamentWin credits a tournament prize to the winner
func (u *LedgerUsecase) AwardTournamentWin(ctx context.Context, winnerID uuid.UUID, prize int64, tournamentID string) (*entities.LedgerEntry, error) {
	return u.CreditSystem(ctx, winnerID, prize, entities.CreditTypeCash, entities.EntryTypeTournamentWin, map[string]interface{}{
		"tournament_id": tournamentID,
	})
}

// RecomputeBalance rebuilds a user's balance for a credit type from the
// full entry history. Used by reconciliation to detect cache drift.
func (u *LedgerUsecase) RecomputeBalance(ctx context.Context, userID uuid.UUID, creditType entities.CreditType) (int64, error) {
	return u.ledgerRepo.SumCompletedForUser(ctx, userID, creditType)
}
