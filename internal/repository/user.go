package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kondate-app/menu-helper/internal/database"
	"gorm.io/gorm"
)

// UserRepository handles owner records: the opaque profile plus the per-day
// usage counter the quota tracker owns.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate returns the owner's record, creating an empty one on first use.
func (r *UserRepository) GetOrCreate(ctx context.Context, ownerID string) (*database.User, error) {
	user := &database.User{OwnerID: ownerID}
	result := r.db.WithContext(ctx).Where(database.User{OwnerID: ownerID}).FirstOrCreate(user)
	if result.Error != nil {
		return nil, result.Error
	}
	return user, nil
}

// GetProfile returns the stored profile, or nil when the owner has none.
func (r *UserRepository) GetProfile(ctx context.Context, ownerID string) (json.RawMessage, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user.Profile, nil
}

// UpdateProfile replaces the profile column, leaving usage untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, ownerID string, profile json.RawMessage) error {
	if _, err := r.GetOrCreate(ctx, ownerID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&database.User{}).
		Where("owner_id = ?", ownerID).
		Update("profile", profile).Error
}

// ReadUsage returns the owner's current usage bucket. A missing record reads
// as an empty day with count zero; staleness against the reporting day is
// detected by the caller.
func (r *UserRepository) ReadUsage(ctx context.Context, ownerID string) (day string, count int, err error) {
	var user database.User
	err = r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	return user.UsageDay, user.UsageCount, nil
}

// WriteUsage merges the new usage bucket into the owner's record, creating
// it if needed. Other columns are not clobbered.
func (r *UserRepository) WriteUsage(ctx context.Context, ownerID, day string, count int) error {
	if _, err := r.GetOrCreate(ctx, ownerID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&database.User{}).
		Where("owner_id = ?", ownerID).
		Updates(map[string]interface{}{"usage_day": day, "usage_count": count}).Error
}
