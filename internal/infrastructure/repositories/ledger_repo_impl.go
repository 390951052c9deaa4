package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
	"hive-economy.backend/internal/infrastructure/models"
)

// LedgerRepository implements ledger entry persistence
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create appends a ledger entry
func (r *LedgerRepository) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	meta := "{}"
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		meta = string(raw)
	}

	m := &models.LedgerEntry{
		ID:         entry.ID,
		SenderID:   entry.SenderID,
		ReceiverID: entry.ReceiverID,
		Amount:     entry.Amount,
		CreditType: string(entry.CreditType),
		EntryType:  string(entry.Type),
		Status:     string(entry.Status),
		FeeAmount:  entry.FeeAmount,
		TaxAmount:  entry.TaxAmount,
		Metadata:   meta,
		HiveID:     entry.HiveID,
		CreatedAt:  entry.CreatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
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
	entry.ID = m.ID
	entry.HiveID = m.HiveID
	entry.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets an entry by ID
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerEntry, error) {
	var m models.LedgerEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetHistory returns entries where the user is sender or receiver, newest
// first. The compound (created_at, id) ordering keeps pages stable when
// concurrent inserts share a timestamp.
func (r *LedgerRepository) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var entries []*entities.LedgerEntry
	for _, m := range ms {
		model := m
		entries = append(entries, r.toEntity(&model))
	}
	return entries, total, nil
}

// MarkReversed flips a completed entry to reversed
func (r *LedgerRepository) MarkReversed(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("id = ? AND status = ?", id, string(entities.EntryStatusCompleted)).
		Update("status", string(entities.EntryStatusReversed))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountCompletedSince counts completed entries in the trailing window
func (r *LedgerRepository) CountCompletedSince(ctx context.Context, hiveID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("hive_id = ? AND status = ? AND created_at >= ?", hiveID, string(entities.EntryStatusCompleted), since).
		Count(&count).Error
	return count, err
}

// CountActiveUsersSince counts distinct participants on completed entries
// in the trailing window
func (r *LedgerRepository) CountActiveUsersSince(ctx context.Context, hiveID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT sender_id AS user_id FROM ledger_entries
			WHERE hive_id = ? AND status = ? AND created_at >= ? AND sender_id IS NOT NULL
			UNION
			SELECT receiver_id AS user_id FROM ledger_entries
			WHERE hive_id = ? AND status = ? AND created_at >= ? AND receiver_id IS NOT NULL
		) participants`,
		hiveID, string(entities.EntryStatusCompleted), since,
		hiveID, string(entities.EntryStatusCompleted), since,
	).Scan(&count).Error
	return count, err
}

// SumCompletedForUser recomputes a balance from history: net inflow as
// receiver (amount minus fee) minus face-amount outflow as sender. Reversed
// entries keep their historical effect; the compensating entry appended by
// the reversal carries the money back.
func (r *LedgerRepository) SumCompletedForUser(ctx context.Context, userID uuid.UUID, creditType entities.CreditType) (int64, error) {
	var inflow, outflow int64
	settled := []string{
		string(entities.EntryStatusCompleted),
		string(entities.EntryStatusReversed),
	}

	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("receiver_id = ? AND credit_type = ? AND status IN ?", userID, string(creditType), settled).
		Select("COALESCE(SUM(amount - fee_amount), 0)").
		Scan(&inflow).Error
	if err != nil {
		return 0, err
	}

	err = r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("sender_id = ? AND credit_type = ? AND status IN ?", userID, string(creditType), settled).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&outflow).Error
	if err != nil {
		return 0, err
	}

	return inflow - outflow, nil
}

func (r *LedgerRepository) toEntity(m *models.LedgerEntry) *entities.LedgerEntry {
	var meta map[string]interface{}
	if m.Metadata != "" && m.Metadata != "{}" {
		_ = json.Unmarshal([]byte(m.Metadata), &meta)
	}
	return &entities.LedgerEntry{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Amount:     m.Amount,
		CreditType: entities.CreditType(m.CreditType),
		Type:       entities.EntryType(m.EntryType),
		Status:     entities.EntryStatus(m.Status),
		FeeAmount:  m.FeeAmount,
		TaxAmount:  m.TaxAmount,
		Metadata:   meta,
		HiveID:     m.HiveID,
		CreatedAt:  m.CreatedAt,
	}
}
