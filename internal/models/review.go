package models

import (
	"encoding/json"
	"time"
)

// Review represents a double-blind lease review. A review stays pending and
// invisible to everyone until the counterpart review for the same lease is
// submitted, or until the expiry sweep force-reveals it.
type Review struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	LeaseID  uint  `gorm:"not null;index;uniqueIndex:idx_lease_author" json:"lease_id"`
	Lease    Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
	AuthorID uint  `gorm:"not null;index;uniqueIndex:idx_lease_author" json:"author_id"`
	Author   User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	TargetID uint  `gorm:"not null;index" json:"target_id"`
	Target   User  `gorm:"foreignKey:TargetID" json:"target,omitempty"`

	Rating   float64         `gorm:"not null" json:"rating"` // 0..5
	Criteria json.RawMessage `gorm:"type:jsonb" json:"criteria"`
	Comment  string          `gorm:"type:text" json:"comment"`

	// Deposit fields describe whether the tenant's deposit was returned;
	// populated when the tenant is the target (owner reviewing tenant).
	DepositReturned        *bool    `json:"deposit_returned"`
	DepositReturnedPercent *float64 `json:"deposit_returned_percent"` // 0..100

	Status      string     `gorm:"size:50;index;not null" json:"status"` // 'pending', 'revealed', 'expired'
	SubmittedAt time.Time  `gorm:"not null;index" json:"submitted_at"`
	RevealedAt  *time.Time `json:"revealed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Review model.
func (Review) TableName() string {
	return "reviews"
}

// Review status constants. Expired reviews are treated the same as revealed
// ones on every read path; only pending reviews are hidden.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusRevealed = "revealed"
	ReviewStatusExpired  = "expired"
)

// Visible reports whether the review may be surfaced to end users.
func (r *Review) Visible() bool {
	return r.Status != ReviewStatusPending
}
