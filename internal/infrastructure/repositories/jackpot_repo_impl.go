package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/infrastructure/models"
)

// JackpotRepository implements pool, entry and winner persistence
type JackpotRepository struct {
	db *gorm.DB
}

// NewJackpotRepository creates a new jackpot repository
func NewJackpotRepository(db *gorm.DB) *JackpotRepository {
	return &JackpotRepository{db: db}
}

// CreatePool creates a new pool
func (r *JackpotRepository) CreatePool(ctx context.Context, pool *entities.JackpotPool) error {
	m := &models.JackpotPool{
		ID:              pool.ID,
		Name:            pool.Name,
		Description:     pool.Description,
		TargetAmount:    pool.TargetAmount,
		CurrentAmount:   pool.CurrentAmount,
		MinContribution: pool.MinContribution,
		Status:          string(pool.Status),
		MinActiveUsers:  pool.MinActiveUsers,
		MinTransactions: pool.MinTransactions,
		HiveID:          pool.HiveID,
		CreatedAt:       pool.CreatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = string(entities.PoolStatusActive)
	}
	if m.HiveID == "" {
		m.HiveID = "quebec"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	pool.ID = m.ID
	pool.Status = entities.PoolStatus(m.Status)
	pool.HiveID = m.HiveID
	pool.CreatedAt = m.CreatedAt
	return nil
}

// GetPoolByID gets a pool by ID
func (r *JackpotRepository) GetPoolByID(ctx context.Context, id uuid.UUID) (*entities.JackpotPool, error) {
	var m models.JackpotPool
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.poolToEntity(&m), nil
}

// GetActivePool returns the newest active pool for the hive
func (r *JackpotRepository) GetActivePool(ctx context.Context, hiveID string) (*entities.JackpotPool, error) {
	var m models.JackpotPool
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("status = ? AND hive_id = ?", string(entities.PoolStatusActive), hiveID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.poolToEntity(&m), nil
}

// ListPoolsByStatus returns pools in a status, oldest first
func (r *JackpotRepository) ListPoolsByStatus(ctx context.Context, status entities.PoolStatus, limit int) ([]*entities.JackpotPool, error) {
	var ms []models.JackpotPool
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	var pools []*entities.JackpotPool
	for _, m := range ms {
		model := m
		pools = append(pools, r.poolToEntity(&model))
	}
	return pools, nil
}

// TransitionStatus is a compare-and-swap on pool status
func (r *JackpotRepository) TransitionStatus(ctx context.Context, poolID uuid.UUID, from, to entities.PoolStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.JackpotPool{}).
		Where("id = ? AND status = ?", poolID, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPoolNotActive
	}
	return nil
}

// SetWinnerSeed persists the draw seed while moving locked -> calculating
func (r *JackpotRepository) SetWinnerSeed(ctx context.Context, poolID uuid.UUID, seed string, drawnAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.JackpotPool{}).
		Where("id = ? AND status = ?", poolID, string(entities.PoolStatusLocked)).
		Updates(map[string]interface{}{
			"status":      string(entities.PoolStatusCalculating),
			"winner_seed": seed,
			"drawn_at":    drawnAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPoolNotActive
	}
	return nil
}

// IncrementPoolAmount adds a contribution to the running pool amount
func (r *JackpotRepository) IncrementPoolAmount(ctx context.Context, poolID uuid.UUID, amount int64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.JackpotPool{}).
		Where("id = ?", poolID).
		Update("current_amount", gorm.Expr("current_amount + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CreateEntry creates a jackpot entry
func (r *JackpotRepository) CreateEntry(ctx context.Context, entry *entities.JackpotEntry) error {
	m := &models.JackpotEntry{
		ID:                 entry.ID,
		PoolID:             entry.PoolID,
		UserID:             entry.UserID,
		ContributionAmount: entry.ContributionAmount,
		EntryTransactionID: entry.EntryTransactionID,
		EntryWeight:        entry.EntryWeight,
		CreatedAt:          entry.CreatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	entry.CreatedAt = m.CreatedAt
	return nil
}

// GetEntriesByPool returns entries in creation order, the fixed sequence
// the weighted draw walks
func (r *JackpotRepository) GetEntriesByPool(ctx context.Context, poolID uuid.UUID) ([]*entities.JackpotEntry, error) {
	var ms []models.JackpotEntry
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	var entries []*entities.JackpotEntry
	for _, m := range ms {
		model := m
		entries = append(entries, r.entryToEntity(&model))
	}
	return entries, nil
}

// CountEntries counts entries for a pool
func (r *JackpotRepository) CountEntries(ctx context.Context, poolID uuid.UUID) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.JackpotEntry{}).
		Where("pool_id = ?", poolID).
		Count(&count).Error
	return count, err
}

// CreateWinner records the permanent draw outcome
func (r *JackpotRepository) CreateWinner(ctx context.Context, winner *entities.JackpotWinner) error {
	m := &models.JackpotWinner{
		ID:            winner.ID,
		PoolID:        winner.PoolID,
		WinnerID:      winner.WinnerID,
		PrizeAmount:   winner.PrizeAmount,
		PayoutEntryID: winner.PayoutEntryID,
		FairnessProof: winner.FairnessProof,
		AlgoVersion:   winner.AlgoVersion,
		DrawnAt:       winner.DrawnAt,
		CreatedAt:     winner.CreatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.AlgoVersion == "" {
		m.AlgoVersion = "v1"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	winner.ID = m.ID
	winner.AlgoVersion = m.AlgoVersion
	winner.CreatedAt = m.CreatedAt
	return nil
}

// SetWinnerPayoutEntry links the payout ledger entry to the winner record
func (r *JackpotRepository) SetWinnerPayoutEntry(ctx context.Context, winnerID, entryID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.JackpotWinner{}).
		Where("id = ? AND payout_entry_id IS NULL", winnerID).
		Update("payout_entry_id", entryID)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAlreadyExists
	}
	return nil
}

// GetWinnerByPool gets the winner record for a pool
func (r *JackpotRepository) GetWinnerByPool(ctx context.Context, poolID uuid.UUID) (*entities.JackpotWinner, error) {
	var m models.JackpotWinner
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("pool_id = ?", poolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.JackpotWinner{
		ID:            m.ID,
		PoolID:        m.PoolID,
		WinnerID:      m.WinnerID,
		PrizeAmount:   m.PrizeAmount,
		PayoutEntryID: m.PayoutEntryID,
		FairnessProof: m.FairnessProof,
		AlgoVersion:   m.AlgoVersion,
		DrawnAt:       m.DrawnAt,
		CreatedAt:     m.CreatedAt,
	}, nil
}

func (r *JackpotRepository) poolToEntity(m *models.JackpotPool) *entities.JackpotPool {
	p := &entities.JackpotPool{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		TargetAmount:    m.TargetAmount,
		CurrentAmount:   m.CurrentAmount,
		MinContribution: m.MinContribution,
		Status:          entities.PoolStatus(m.Status),
		MinActiveUsers:  m.MinActiveUsers,
		MinTransactions: m.MinTransactions,
		HiveID:          m.HiveID,
		CreatedAt:       m.CreatedAt,
	}
	if m.WinnerSeed != nil {
		p.WinnerSeed.SetValid(*m.WinnerSeed)
	}
	if m.DrawnAt != nil {
		p.DrawnAt.SetValid(*m.DrawnAt)
	}
	return p
}

func (r *JackpotRepository) entryToEntity(m *models.JackpotEntry) *entities.JackpotEntry {
	return &entities.JackpotEntry{
		ID:                 m.ID,
		PoolID:             m.PoolID,
		UserID:             m.UserID,
		ContributionAmount: m.ContributionAmount,
		EntryTransactionID: m.EntryTransactionID,
		EntryWeight:        m.EntryWeight,
		CreatedAt:          m.CreatedAt,
	}
}
