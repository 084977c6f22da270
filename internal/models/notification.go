package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationEventReminder   = "event_reminder"
	NotificationPurchaseSuccess = "purchase_success"
	NotificationNewTicketSale   = "new_ticket_sale"
	NotificationSalesMilestone  = "sales_milestone"

	AdminNotificationUserSignup  = "user_signup"
	AdminNotificationUserUpdate  = "user_update"
	AdminNotificationUserDelete  = "user_delete"
	AdminNotificationEventCreate = "event_create"
	AdminNotificationEventUpdate = "event_update"
	AdminNotificationEventDelete = "event_delete"

	AdminTargetAll       = "all"
	AdminTargetSuperOnly = "super_admin"
)

// UserNotification is a fire-and-forget entry on a user's notification list.
// Delivery (push, email) is a downstream collaborator's job.
type UserNotification struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string    `gorm:"not null" json:"type"`
	Message     string    `gorm:"not null" json:"message"`
	ReferenceID string    `json:"reference_id"`
	Link        string    `json:"link"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n *UserNotification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

// AdminNotification doubles as the admin action log: every mutating admin
// panel operation appends one row.
type AdminNotification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Message    string     `gorm:"not null" json:"message"`
	Type       string     `gorm:"not null" json:"type"`
	TargetRole string     `gorm:"not null;default:'all'" json:"target_role"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	Actor      *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Link       string     `json:"link"`
	IsRead     bool       `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (n *AdminNotification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
