package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/domain/repositories"
	"hive-economy.backend/pkg/logger"
	"hive-economy.backend/pkg/metrics"
)

const (
	// Trailing window the trigger conditions are evaluated over.
	triggerWindow = 24 * time.Hour

	statusCacheTTL = 30 * time.Second
)

// JackpotUsecase runs the fee-funded jackpot pools: contributions, trigger
// evaluation, the provably fair draw and the prize payout
type JackpotUsecase struct {
	uow         repositories.UnitOfWork
	jackpotRepo repositories.JackpotRepository
	ledgerRepo  repositories.LedgerRepository
	accountRepo repositories.AccountRepository
	cache       *goredis.Client
	hiveID      string
}

// NewJackpotUsecase creates a new jackpot usecase. cache may be nil, in
// which case status reads always hit the database.
func NewJackpotUsecase(
	uow repositories.UnitOfWork,
	jackpotRepo repositories.JackpotRepository,
	ledgerRepo repositories.LedgerRepository,
	accountRepo repositories.AccountRepository,
	cache *goredis.Client,
	hiveID string,
) *JackpotUsecase {
	return &JackpotUsecase{
		uow:         uow,
		jackpotRepo: jackpotRepo,
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		cache:       cache,
		hiveID:      hiveID,
	}
}

// CreatePoolInput describes a new pool
type CreatePoolInput struct {
	Name            string
	Description     string
	TargetAmount    int64
	MinContribution int64
	MinActiveUsers  int
	MinTransactions int
}

// CreatePool opens a new pool for the hive. Only one pool may be active
// per hive at a time.
func (u *JackpotUsecase) CreatePool(ctx context.Context, input CreatePoolInput) (*entities.JackpotPool, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.TargetAmount < 0 || input.MinContribution < 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	if _, err := u.jackpotRepo.GetActivePool(ctx, u.hiveID); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	pool := &entities.JackpotPool{
		Name:            input.Name,
		Description:     input.Description,
		TargetAmount:    input.TargetAmount,
		MinContribution: input.MinContribution,
		Status:          entities.PoolStatusActive,
		MinActiveUsers:  input.MinActiveUsers,
		MinTransactions: input.MinTransactions,
		HiveID:          u.hiveID,
	}
	if pool.MinContribution == 0 {
		pool.MinContribution = 100
	}

	if err := u.jackpotRepo.CreatePool(ctx, pool); err != nil {
		return nil, err
	}
	u.invalidateStatus(ctx)

	logger.Info(ctx, "jackpot pool created",
		zap.String("pool_id", pool.ID.String()),
		zap.String("name", pool.Name))
	return pool, nil
}

// CancelPool cancels an active pool. Contributions already in the pool are
// platform fees and are not refunded.
func (u *JackpotUsecase) CancelPool(ctx context.Context, poolID uuid.UUID) error {
	err := u.jackpotRepo.TransitionStatus(ctx, poolID, entities.PoolStatusActive, entities.PoolStatusCancelled)
	if err != nil {
		return err
	}
	u.invalidateStatus(ctx)
	return nil
}

// Contribute adds a fee slice to the active pool. Contributions below the
// pool's minimum are dropped, and a missing active pool is not an error:
// transfers must not fail because no pot is open.
func (u *JackpotUsecase) Contribute(ctx context.Context, userID uuid.UUID, feeAmount int64, entryTxID uuid.UUID) error {
	if feeAmount <= 0 {
		return nil
	}

	pool, err := u.jackpotRepo.GetActivePool(ctx, u.hiveID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if feeAmount < pool.MinContribution {
		return nil
	}

	// One weight unit per multiple of the minimum, floored.
	minContribution := pool.MinContribution
	if minContribution < 1 {
		minContribution = 1
	}

	entry := &entities.JackpotEntry{
		PoolID:             pool.ID,
		UserID:             userID,
		ContributionAmount: feeAmount,
		EntryTransactionID: &entryTxID,
		EntryWeight:        feeAmount / minContribution,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.jackpotRepo.CreateEntry(ctx, entry); err != nil {
			return err
		}
		return u.jackpotRepo.IncrementPoolAmount(ctx, pool.ID, feeAmount)
	})
	if err != nil {
		return err
	}

	metrics.JackpotContributionsTotal.Add(float64(feeAmount))
	u.invalidateStatus(ctx)
	return nil
}

// CheckTriggerConditions reports whether the pool's draw conditions are
// met over the trailing activity window
func (u *JackpotUsecase) CheckTriggerConditions(ctx context.Context, poolID uuid.UUID) (bool, error) {
	pool, err := u.jackpotRepo.GetPoolByID(ctx, poolID)
	if err != nil {
		return false, err
	}
	if pool.Status != entities.PoolStatusActive {
		return false, domainerrors.ErrPoolNotActive
	}
	if pool.CurrentAmount <= 0 {
		return false, nil
	}

	since := time.Now().Add(-triggerWindow)

	activeUsers, err := u.ledgerRepo.CountActiveUsersSince(ctx, pool.HiveID, since)
	if err != nil {
		return false, err
	}
	if activeUsers < int64(pool.MinActiveUsers) {
		return false, nil
	}

	txCount, err := u.ledgerRepo.CountCompletedSince(ctx, pool.HiveID, since)
	if err != nil {
		return false, err
	}
	return txCount >= int64(pool.MinTransactions), nil
}

// DrawWinner runs the fair draw for a pool. The pool is first locked so no
// new entries join, then the seed is committed, then the winner is selected
// as a pure function of pool, seed and the fixed entry sequence. The
// winner record with its fairness proof is written before any payout.
func (u *JackpotUsecase) DrawWinner(ctx context.Context, poolID uuid.UUID) (*entities.JackpotWinner, error) {
	if err := u.jackpotRepo.TransitionStatus(ctx, poolID, entities.PoolStatusActive, entities.PoolStatusLocked); err != nil {
		return nil, err
	}

	pool, err := u.jackpotRepo.GetPoolByID(ctx, poolID)
	if err != nil {
		return nil, err
	}

	entries, err := u.jackpotRepo.GetEntriesByPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		// Nothing to draw; release the pool back to active.
		if err := u.jackpotRepo.TransitionStatus(ctx, poolID, entities.PoolStatusLocked, entities.PoolStatusActive); err != nil {
			return nil, err
		}
		return nil, domainerrors.ErrNoEntries
	}

	seed, err := NewDrawSeed()
	if err != nil {
		return nil, err
	}
	drawnAt := time.Now().UTC()

	if err := u.jackpotRepo.SetWinnerSeed(ctx, poolID, seed, drawnAt); err != nil {
		return nil, err
	}

	selected, err := SelectWinner(poolID, seed, entries)
	if err != nil {
		return nil, err
	}

	winner := &entities.JackpotWinner{
		PoolID:        poolID,
		WinnerID:      selected.UserID,
		PrizeAmount:   pool.CurrentAmount,
		FairnessProof: FairnessProof(poolID, seed, pool.CurrentAmount, drawnAt),
		AlgoVersion:   DrawAlgoVersion,
		DrawnAt:       drawnAt,
	}
	if err := u.jackpotRepo.CreateWinner(ctx, winner); err != nil {
		return nil, err
	}

	metrics.JackpotDrawsTotal.Inc()
	u.invalidateStatus(ctx)

	logger.Info(ctx, "jackpot drawn",
		zap.String("pool_id", poolID.String()),
		zap.String("winner_id", winner.WinnerID.String()),
		zap.Int64("prize", winner.PrizeAmount))
	return winner, nil
}

// Payout credits the prize to the drawn winner and completes the pool. A
// banned winner blocks the payout and leaves the pool in calculating so an
// operator can resolve it; the draw outcome itself is never rewritten.
func (u *JackpotUsecase) Payout(ctx context.Context, poolID uuid.UUID) (*entities.LedgerEntry, error) {
	pool, err := u.jackpotRepo.GetPoolByID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if pool.Status != entities.PoolStatusCalculating {
		return nil, domainerrors.ErrPoolNotActive
	}

	winner, err := u.jackpotRepo.GetWinnerByPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if winner.PayoutEntryID != nil {
		return u.ledgerRepo.GetByID(ctx, *winner.PayoutEntryID)
	}

	account, err := u.accountRepo.GetByUserID(ctx, winner.WinnerID)
	if err != nil {
		return nil, err
	}
	if !account.CanReceivePayout() {
		return nil, domainerrors.ErrAccountBanned
	}

	entry := &entities.LedgerEntry{
		ReceiverID: &winner.WinnerID,
		Amount:     winner.PrizeAmount,
		CreditType: entities.CreditTypeCash,
		Type:       entities.EntryTypePayout,
		Status:     entities.EntryStatusCompleted,
		Metadata: map[string]interface{}{
			"pool_id":        poolID.String(),
			"fairness_proof": winner.FairnessProof,
		},
		HiveID: pool.HiveID,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.accountRepo.Credit(ctx, winner.WinnerID, entities.CreditTypeCash, winner.PrizeAmount); err != nil {
			return err
		}
		if err := u.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}
		if err := u.jackpotRepo.SetWinnerPayoutEntry(ctx, winner.ID, entry.ID); err != nil {
			return err
		}
		return u.jackpotRepo.TransitionStatus(ctx, poolID, entities.PoolStatusCalculating, entities.PoolStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	u.invalidateStatus(ctx)

	logger.Info(ctx, "jackpot paid out",
		zap.String("pool_id", poolID.String()),
		zap.String("winner_id", winner.WinnerID.String()),
		zap.Int64("prize", winner.PrizeAmount))
	return entry, nil
}

// RecoverStuckDraw resumes a pool stuck in calculating. The stored seed
// makes the selection deterministic, so recomputing it lands on the same
// winner the interrupted draw would have produced.
func (u *JackpotUsecase) RecoverStuckDraw(ctx context.Context, poolID uuid.UUID) error {
	pool, err := u.jackpotRepo.GetPoolByID(ctx, poolID)
	if err != nil {
		return err
	}
	if pool.Status != entities.PoolStatusCalculating {
		return domainerrors.ErrPoolNotActive
	}
	if !pool.WinnerSeed.Valid || !pool.DrawnAt.Valid {
		return domainerrors.ErrTransactionAborted
	}

	_, err = u.jackpotRepo.GetWinnerByPool(ctx, poolID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		entries, err := u.jackpotRepo.GetEntriesByPool(ctx, poolID)
		if err != nil {
			return err
		}
		selected, err := SelectWinner(poolID, pool.WinnerSeed.String, entries)
		if err != nil {
			return err
		}
		drawnAt := pool.DrawnAt.Time.UTC()
		winner := &entities.JackpotWinner{
			PoolID:        poolID,
			WinnerID:      selected.UserID,
			PrizeAmount:   pool.CurrentAmount,
			FairnessProof: FairnessProof(poolID, pool.WinnerSeed.String, pool.CurrentAmount, drawnAt),
			AlgoVersion:   DrawAlgoVersion,
			DrawnAt:       drawnAt,
		}
		if err := u.jackpotRepo.CreateWinner(ctx, winner); err != nil {
			return err
		}
		logger.Warn(ctx, "recovered interrupted draw",
			zap.String("pool_id", poolID.String()),
			zap.String("winner_id", winner.WinnerID.String()))
	} else if err != nil {
		return err
	}

	_, err = u.Payout(ctx, poolID)
	return err
}

// Status returns the public snapshot of the active pool, cached briefly to
// keep the hot read path off the database
func (u *JackpotUsecase) Status(ctx context.Context) (*entities.JackpotStatus, error) {
	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, u.statusCacheKey()).Result(); err == nil {
			var status entities.JackpotStatus
			if json.Unmarshal([]byte(raw), &status) == nil {
				return &status, nil
			}
		}
	}

	pool, err := u.jackpotRepo.GetActivePool(ctx, u.hiveID)
	if err != nil {
		return nil, err
	}
	count, err := u.jackpotRepo.CountEntries(ctx, pool.ID)
	if err != nil {
		return nil, err
	}

	status := &entities.JackpotStatus{
		Pool:               pool,
		Entries:            count,
		TotalContributions: pool.CurrentAmount,
	}
	if pool.TargetAmount > 0 {
		status.Progress = float64(pool.CurrentAmount) / float64(pool.TargetAmount)
	}

	if u.cache != nil {
		if raw, err := json.Marshal(status); err == nil {
			u.cache.Set(ctx, u.statusCacheKey(), raw, statusCacheTTL)
		}
	}
	return status, nil
}

// VerifyDraw recomputes the fairness proof for a completed pool
func (u *JackpotUsecase) VerifyDraw(ctx context.Context, poolID uuid.UUID) (bool, error) {
	pool, err := u.jackpotRepo.GetPoolByID(ctx, poolID)
	if err != nil {
		return false, err
	}
	if !pool.WinnerSeed.Valid {
		return false, domainerrors.ErrNotFound
	}
	winner, err := u.jackpotRepo.GetWinnerByPool(ctx, poolID)
	if err != nil {
		return false, err
	}
	return VerifyFairnessProof(winner, pool.WinnerSeed.String), nil
}

func (u *JackpotUsecase) statusCacheKey() string {
	return "jackpot:status:" + u.hiveID
}

func (u *JackpotUsecase) invalidateStatus(ctx context.Context) {
	if u.cache != nil {
		u.cache.Del(ctx, u.statusCacheKey())
	}
}
