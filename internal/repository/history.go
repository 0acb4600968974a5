package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kondate-app/menu-helper/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository persists finalized plans keyed by owner and date.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert saves an entry with merge semantics: a later save for the same date
// overwrites input/output but preserves the original CreatedAt.
func (r *HistoryRepository) Upsert(ctx context.Context, ownerID, date string, input, output json.RawMessage, createdAt time.Time) error {
	entry := database.MenuHistory{
		OwnerID:   ownerID,
		Date:      date,
		Input:     input,
		Output:    output,
		CreatedAt: createdAt,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"input", "output", "updated_at"}),
		}).
		Create(&entry).Error
}

// GetByDate returns the entry for one date, or nil when absent.
func (r *HistoryRepository) GetByDate(ctx context.Context, ownerID, date string) (*database.MenuHistory, error) {
	var entry database.MenuHistory
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns the owner's entries, most recent date first.
func (r *HistoryRepository) List(ctx context.Context, ownerID string, limit int) ([]database.MenuHistory, error) {
	var entries []database.MenuHistory
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
