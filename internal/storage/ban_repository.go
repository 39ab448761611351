package storage

import (
	"errors"
	"time"

	"tg-relay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BanRepository handles database operations for BanRecord
type BanRepository struct {
	db *gorm.DB
}

// NewBanRepository creates a new BanRepository
func NewBanRepository(db *gorm.DB) *BanRepository {
	return &BanRepository{db: db}
}

// SetBan inserts or replaces the ban record for a user. until is either
// models.BanPermanent or an expiry formatted with models.BanTimeLayout.
func (r *BanRepository) SetBan(userID int64, until string) error {
	record := &models.BanRecord{UserID: userID, BanUntil: until}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"ban_until", "updated_at"}),
	}).Create(record).Error
	return wrapErr("set ban", err)
}

// ClearBan removes the ban record for a user. Clearing an absent record is
// not an error.
func (r *BanRepository) ClearBan(userID int64) error {
	err := r.db.Delete(&models.BanRecord{}, "user_id = ?", userID).Error
	return wrapErr("clear ban", err)
}

// GetBan returns the ban record for a user, or nil when none exists. Lapsed
// records are returned as-is; expiry evaluation is the policy's job.
func (r *BanRepository) GetBan(userID int64) (*models.BanRecord, error) {
	var record models.BanRecord
	err := r.db.First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get ban", err)
	}
	return &record, nil
}

// PurgeLapsed deletes timed bans whose expiry is in the past and returns the
// number of rows removed. Permanent bans are never touched. String comparison
// is safe because BanTimeLayout orders lexicographically.
func (r *BanRepository) PurgeLapsed(now time.Time) (int64, error) {
	result := r.db.Where("ban_until <> ? AND ban_until < ?",
		models.BanPermanent, now.Format(models.BanTimeLayout)).
		Delete(&models.BanRecord{})
	if result.Error != nil {
		return 0, wrapErr("purge lapsed bans", result.Error)
	}
	return result.RowsAffected, nil
}
