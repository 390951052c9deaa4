package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
)

func TestJackpotPoolCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)
	ctx := context.Background()

	pool := &entities.JackpotPool{
		Name:            "Ruche d'or",
		TargetAmount:    100000,
		MinContribution: 50,
		MinActiveUsers:  10,
		MinTransactions: 100,
	}
	require.NoError(t, repo.CreatePool(ctx, pool))
	require.NotEqual(t, uuid.Nil, pool.ID)
	require.Equal(t, entities.PoolStatusActive, pool.Status)
	require.Equal(t, "quebec", pool.HiveID)

	got, err := repo.GetPoolByID(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, pool.Name, got.Name)
	require.False(t, got.WinnerSeed.Valid)

	active, err := repo.GetActivePool(ctx, "quebec")
	require.NoError(t, err)
	require.Equal(t, pool.ID, active.ID)
}

func TestJackpotGetActivePoolNone(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)

	_, err := repo.GetActivePool(context.Background(), "quebec")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestJackpotTransitionStatusCAS(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)
	ctx := context.Background()

	pool := &entities.JackpotPool{Name: "pot"}
	require.NoError(t, repo.CreatePool(ctx, pool))

	require.NoError(t, repo.TransitionStatus(ctx, pool.ID, entities.PoolStatusActive, entities.PoolStatusLocked))

	// Second lock attempt loses the race.
	err := repo.TransitionStatus(ctx, pool.ID, entities.PoolStatusActive, entities.PoolStatusLocked)
	require.ErrorIs(t, err, domainerrors.ErrPoolNotActive)

	got, err := repo.GetPoolByID(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PoolStatusLocked, got.Status)
}

func TestJackpotSetWinnerSeed(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)
	ctx := context.Background()

	pool := &entities.JackpotPool{Name: "pot"}
	require.NoError(t, repo.CreatePool(ctx, pool))

	// Seed can only be committed on a locked pool.
	err := repo.SetWinnerSeed(ctx, pool.ID, "abc123", time.Now())
	require.ErrorIs(t, err, domainerrors.ErrPoolNotActive)

	require.NoError(t, repo.TransitionStatus(ctx, pool.ID, entities.PoolStatusActive, entities.PoolStatusLocked))
	drawnAt := time.Now()
	require.NoError(t, repo.SetWinnerSeed(ctx, pool.ID, "abc123", drawnAt))

	got, err := repo.GetPoolByID(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PoolStatusCalculating, got.Status)
	require.True(t, got.WinnerSeed.Valid)
	require.Equal(t, "abc123", got.WinnerSeed.String)
	require.True(t, got.DrawnAt.Valid)
}

func TestJackpotEntriesAndAmounts(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)
	ctx := context.Background()

	pool := &entities.JackpotPool{Name: "pot"}
	require.NoError(t, repo.CreatePool(ctx, pool))

	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, u := range users {
		entry := &entities.JackpotEntry{
			PoolID:             pool.ID,
			UserID:             u,
			ContributionAmount: int64(100 * (i + 1)),
			EntryWeight:        int64(100 * (i + 1)),
			CreatedAt:          time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.CreateEntry(ctx, entry))
		require.NoError(t, repo.IncrementPoolAmount(ctx, pool.ID, entry.ContributionAmount))
	}

	entries, err := repo.GetEntriesByPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Creation order is the fixed draw sequence.
	for i, e := range entries {
		require.Equal(t, users[i], e.UserID)
	}

	count, err := repo.CountEntries(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	got, err := repo.GetPoolByID(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, int64(600), got.CurrentAmount)
}

func TestJackpotWinnerLifecycle(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)
	ctx := context.Background()

	pool := &entities.JackpotPool{Name: "pot"}
	require.NoError(t, repo.CreatePool(ctx, pool))

	winner := &entities.JackpotWinner{
		PoolID:        pool.ID,
		WinnerID:      uuid.New(),
		PrizeAmount:   5000,
		FairnessProof: "deadbeef",
		DrawnAt:       time.Now(),
	}
	require.NoError(t, repo.CreateWinner(ctx, winner))
	require.Equal(t, "v1", winner.AlgoVersion)

	got, err := repo.GetWinnerByPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, winner.WinnerID, got.WinnerID)
	require.Nil(t, got.PayoutEntryID)

	entryID := uuid.New()
	require.NoError(t, repo.SetWinnerPayoutEntry(ctx, winner.ID, entryID))

	// Payout entry can only be linked once.
	err = repo.SetWinnerPayoutEntry(ctx, winner.ID, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	got, err = repo.GetWinnerByPool(ctx, pool.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PayoutEntryID)
	require.Equal(t, entryID, *got.PayoutEntryID)
}

func TestJackpotListPoolsByStatus(t *testing.T) {
	db := newTestDB(t)
	createJackpotTables(t, db)
	repo := NewJackpotRepository(db)
	ctx := context.Background()

	a := &entities.JackpotPool{Name: "a"}
	require.NoError(t, repo.CreatePool(ctx, a))
	require.NoError(t, repo.TransitionStatus(ctx, a.ID, entities.PoolStatusActive, entities.PoolStatusLocked))
	require.NoError(t, repo.SetWinnerSeed(ctx, a.ID, "seed", time.Now()))

	b := &entities.JackpotPool{Name: "b"}
	require.NoError(t, repo.CreatePool(ctx, b))

	stuck, err := repo.ListPoolsByStatus(ctx, entities.PoolStatusCalculating, 10)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	require.Equal(t, a.ID, stuck[0].ID)
}
