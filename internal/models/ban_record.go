package models

import "time"

// BanPermanent is the sentinel stored in BanUntil for bans with no expiry.
const BanPermanent = "permanent"

// BanTimeLayout is the storage format for timed ban expiries. Lexicographic
// order on this layout matches chronological order, which PurgeLapsed relies on.
const BanTimeLayout = "2006-01-02 15:04:05"

// BanRecord stores the ban state of a user. A user has at most one record;
// absence means not banned. Expiry is evaluated lazily at read time, lapsed
// rows are left in place unless the janitor is enabled.
type BanRecord struct {
	UserID    int64  `gorm:"primaryKey"`
	BanUntil  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName - set the table name.
func (BanRecord) TableName() string {
	return "banned_users"
}

// Permanent reports whether the ban has no expiry.
func (r *BanRecord) Permanent() bool {
	return r.BanUntil == BanPermanent
}

// ExpiresAt parses the stored expiry. Only valid for non-permanent records.
func (r *BanRecord) ExpiresAt() (time.Time, error) {
	return time.ParseInLocation(BanTimeLayout, r.BanUntil, time.Local)
}
