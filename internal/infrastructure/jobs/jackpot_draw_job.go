package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/domain/repositories"
	"hive-economy.backend/internal/usecases"
)

// JackpotDrawJob watches the active pool and runs the draw once trigger
// conditions are met. It also resumes pools left in calculating by an
// interrupted draw.
type JackpotDrawJob struct {
	jackpot     *usecases.JackpotUsecase
	jackpotRepo repositories.JackpotRepository
	hiveID      string
	interval    time.Duration
	stop        chan struct{}
}

func NewJackpotDrawJob(jackpot *usecases.JackpotUsecase, jackpotRepo repositories.JackpotRepository, hiveID string) *JackpotDrawJob {
	return &JackpotDrawJob{
		jackpot:     jackpot,
		jackpotRepo: jackpotRepo,
		hiveID:      hiveID,
		interval:    1 * time.Minute,
		stop:        make(chan struct{}),
	}
}

func (j *JackpotDrawJob) Start(ctx context.Context) {
	log.Println("🎰 Starting jackpot draw job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Jackpot draw job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Jackpot draw job stopped")
			return
		case <-ticker.C:
			j.recoverStuckPools(ctx)
			j.runDraw(ctx)
		}
	}
}

func (j *JackpotDrawJob) Stop() {
	close(j.stop)
}

func (j *JackpotDrawJob) runDraw(ctx context.Context) {
	pool, err := j.jackpotRepo.GetActivePool(ctx, j.hiveID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			log.Printf("❌ Error fetching active pool: %v", err)
		}
		return
	}

	ready, err := j.jackpot.CheckTriggerConditions(ctx, pool.ID)
	if err != nil {
		log.Printf("❌ Error checking trigger conditions: %v", err)
		return
	}
	if !ready {
		return
	}

	log.Printf("🎰 Trigger conditions met for pool %s, drawing...", pool.ID)

	winner, err := j.jackpot.DrawWinner(ctx, pool.ID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNoEntries) || errors.Is(err, domainerrors.ErrPoolNotActive) {
			return
		}
		log.Printf("❌ Error drawing winner for pool %s: %v", pool.ID, err)
		return
	}

	if _, err := j.jackpot.Payout(ctx, pool.ID); err != nil {
		// The winner is recorded; the payout retries on the next tick via
		// stuck pool recovery.
		log.Printf("⚠️ Payout failed for pool %s: %v", pool.ID, err)
		return
	}

	log.Printf("✅ Jackpot pool %s paid %d to %s", pool.ID, winner.PrizeAmount, winner.WinnerID)
}

func (j *JackpotDrawJob) recoverStuckPools(ctx context.Context) {
	stuck, err := j.jackpotRepo.ListPoolsByStatus(ctx, entities.PoolStatusCalculating, 10)
	if err != nil {
		log.Printf("❌ Error listing calculating pools: %v", err)
		return
	}

	for _, pool := range stuck {
		if err := j.jackpot.RecoverStuckDraw(ctx, pool.ID); err != nil {
			if errors.Is(err, domainerrors.ErrAccountBanned) {
				continue
			}
			log.Printf("⚠️ Could not recover pool %s: %v", pool.ID, err)
			continue
		}
		log.Printf("✅ Recovered stuck draw for pool %s", pool.ID)
	}
}
