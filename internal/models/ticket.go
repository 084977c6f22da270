package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket is a single issued admission. TicketID is the external identifier
// printed into the QR payload. IsActive is true until check-in.
type Ticket struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TicketID     string         `gorm:"unique;not null" json:"ticket_id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EventID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	Event        *Event         `gorm:"foreignKey:EventID" json:"event,omitempty"`
	TicketTypeID *uuid.UUID     `gorm:"type:uuid;index" json:"ticket_type_id"`
	TicketType   *TicketType    `gorm:"foreignKey:TicketTypeID" json:"ticket_type,omitempty"`
	TypeName     string         `gorm:"not null" json:"type_name"`
	QRCodePath   string         `json:"qr_code_path"`
	PurchaseTime time.Time      `gorm:"not null" json:"purchase_time"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
