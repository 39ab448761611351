package storage

import (
	"errors"
	"time"

	"tg-relay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for UserActivity
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertActivity inserts or overwrites the last message time for a user.
// Other columns keep their defaults when the record is created.
func (r *UserRepository) UpsertActivity(userID int64, t time.Time) error {
	record := &models.UserActivity{UserID: userID, LastMessageTime: &t}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_message_time", "updated_at"}),
	}).Create(record).Error
	return wrapErr("upsert activity", err)
}

// GetLastMessageTime returns the last relay time for a user, or nil when the
// user has never had a message forwarded.
func (r *UserRepository) GetLastMessageTime(userID int64) (*time.Time, error) {
	var record models.UserActivity
	err := r.db.Select("user_id", "last_message_time").First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get last message time", err)
	}
	return record.LastMessageTime, nil
}

// MarkUserSeen records first contact with a user. Idempotent: an existing
// record is left untouched.
func (r *UserRepository) MarkUserSeen(userID int64) error {
	record := &models.UserActivity{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
	return wrapErr("mark user seen", err)
}

// IsWelcomed reports whether the user already received the full greeting.
// Unknown users have not been welcomed.
func (r *UserRepository) IsWelcomed(userID int64) (bool, error) {
	var record models.UserActivity
	err := r.db.Select("user_id", "welcomed").First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("is welcomed", err)
	}
	return record.Welcomed, nil
}

// MarkWelcomed sets the welcomed flag for a user.
func (r *UserRepository) MarkWelcomed(userID int64) error {
	err := r.db.Model(&models.UserActivity{}).
		Where("user_id = ?", userID).
		Update("welcomed", true).Error
	return wrapErr("mark welcomed", err)
}
