package jobs

import (
	"context"
	"log"
	"time"

	"hive-economy.backend/internal/domain/entities"
	"hive-economy.backend/internal/domain/repositories"
)

// ReconciliationJob sweeps accounts and recomputes each cached balance
// from the full ledger history. Drift is logged, never silently patched:
// a mismatch means a bug upstream, and the ledger is the source of truth.
type ReconciliationJob struct {
	accountRepo repositories.AccountRepository
	ledgerRepo  repositories.LedgerRepository
	interval    time.Duration
	batchSize   int
	stop        chan struct{}
}

func NewReconciliationJob(accountRepo repositories.AccountRepository, ledgerRepo repositories.LedgerRepository) *ReconciliationJob {
	return &ReconciliationJob{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		interval:    15 * time.Minute,
		batchSize:   200,
		stop:        make(chan struct{}),
	}
}

func (j *ReconciliationJob) Start(ctx context.Context) {
	log.Println("🧮 Starting balance reconciliation job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Reconciliation job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Reconciliation job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ReconciliationJob) Stop() {
	close(j.stop)
}

func (j *ReconciliationJob) sweep(ctx context.Context) {
	offset := 0
	drift := 0

	for {
		ids, err := j.accountRepo.ListIDs(ctx, j.batchSize, offset)
		if err != nil {
			log.Printf("❌ Error listing accounts: %v", err)
			return
		}
		if len(ids) == 0 {
			break
		}

		for _, userID := range ids {
			account, err := j.accountRepo.GetByUserID(ctx, userID)
			if err != nil {
				continue
			}

			karma, err := j.ledgerRepo.SumCompletedForUser(ctx, userID, entities.CreditTypeKarma)
			if err != nil {
				log.Printf("❌ Error recomputing karma for %s: %v", userID, err)
				continue
			}
			if karma != account.KarmaBalance {
				drift++
				log.Printf("⚠️ Balance drift for %s: cached karma %d, ledger %d", userID, account.KarmaBalance, karma)
			}

			cash, err := j.ledgerRepo.SumCompletedForUser(ctx, userID, entities.CreditTypeCash)
			if err != nil {
				log.Printf("❌ Error recomputing cash for %s: %v", userID, err)
				continue
			}
			if cash != account.CashBalance {
				drift++
				log.Printf("⚠️ Balance drift for %s: cached cash %d, ledger %d", userID, account.CashBalance, cash)
			}
		}

		offset += len(ids)
	}

	if drift > 0 {
		log.Printf("⚠️ Reconciliation found %d drifted balances", drift)
	}
}
