// Package models defines domain models for the rental gamification core.
package models

import (
	"time"
)

// User represents a platform user (owner or tenant) with gamification state.
// XP is monotonically non-decreasing and Level is always recomputed from XP;
// the two are only ever written together.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`

	// Profile-completeness inputs to badge evaluation, owned by the
	// profile-edit flows.
	ProfileComplete bool       `gorm:"default:false" json:"profile_complete"`
	Phone           string     `gorm:"size:50" json:"phone"`
	Address         string     `gorm:"type:text" json:"address"`
	Gender          string     `gorm:"size:20" json:"gender"`
	BirthDate       *time.Time `json:"birth_date"`

	XP    int `gorm:"not null;default:0" json:"xp"`
	Level int `gorm:"not null;default:0" json:"level"`

	// ProfileBonusGranted records whether the one-time profile-completion
	// XP bonus has been paid out.
	ProfileBonusGranted bool `gorm:"default:false" json:"profile_bonus_granted"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}
