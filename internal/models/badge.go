package models

import (
	"time"
)

// UserBadgeUnlock is the append-only journal of first badge unlocks. Badge
// membership itself is recomputed from live stats on every evaluation; this
// table only pins down the first time each badge was observed unlocked so
// that "unlocked at" survives recomputation.
type UserBadgeUnlock struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BadgeID    string    `gorm:"not null;size:100;uniqueIndex:idx_user_badge" json:"badge_id"`
	UnlockedAt time.Time `gorm:"not null" json:"unlocked_at"`
}

// TableName specifies the table name for UserBadgeUnlock model.
func (UserBadgeUnlock) TableName() string {
	return "user_badge_unlocks"
}
