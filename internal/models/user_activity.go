package models

import "time"

// UserActivity tracks the relay state of a single user: when they last had a
// message forwarded and whether they already received the welcome greeting.
type UserActivity struct {
	UserID          int64      `gorm:"primaryKey"`
	LastMessageTime *time.Time `gorm:"index"`
	Welcomed        bool       `gorm:"default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName - set the table name.
func (UserActivity) TableName() string {
	return "users"
}
