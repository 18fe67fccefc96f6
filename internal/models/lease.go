package models

import (
	"time"
)

// Property represents a rental property listed by an owner.
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title     string    `gorm:"size:255" json:"title"`
	Status    string    `gorm:"size:50;index" json:"status"` // 'active', 'inactive'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Property model.
func (Property) TableName() string {
	return "properties"
}

// Lease represents a tenancy agreement between a property owner and a tenant.
type Lease struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PropertyID uint       `gorm:"not null;index" json:"property_id"`
	Property   Property   `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	TenantID   uint       `gorm:"not null;index" json:"tenant_id"`
	Tenant     User       `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Status     string     `gorm:"size:50;index" json:"status"` // 'pending', 'active', 'ended'
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Lease model.
func (Lease) TableName() string {
	return "leases"
}

// OwnerID returns the owner side of the lease via the preloaded property.
func (l *Lease) OwnerID() uint {
	return l.Property.OwnerID
}

// Payment represents a rent payment receipt recorded against a lease.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LeaseID   uint      `gorm:"not null;index" json:"lease_id"`
	Lease     Lease     `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
	TenantID  uint      `gorm:"not null;index" json:"tenant_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Status    string    `gorm:"size:50;index" json:"status"` // 'pending', 'confirmed'
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Payment model.
func (Payment) TableName() string {
	return "payments"
}

// Message represents a chat message between two users.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Body       string    `gorm:"type:text" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Message model.
func (Message) TableName() string {
	return "messages"
}

// Lease status constants.
const (
	LeaseStatusPending = "pending"
	LeaseStatusActive  = "active"
	LeaseStatusEnded   = "ended"
)

// Property status constants.
const (
	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
)
