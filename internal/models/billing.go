package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BillingStatusPending   = "pending"
	BillingStatusCompleted = "completed"
	BillingStatusFailed    = "failed"
)

// BillingHistory records one plan-upgrade transaction against the payment
// gateway. TxRef is the reference handed to the gateway at initialization.
type BillingHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Plan      string    `gorm:"not null" json:"plan"`
	Amount    int       `gorm:"not null" json:"amount"`
	TxRef     string    `gorm:"unique;not null" json:"tx_ref"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (bh *BillingHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if bh.ID == uuid.Nil {
		bh.ID = uuid.New()
	}
	return
}
