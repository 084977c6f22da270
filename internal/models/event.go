package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EventStatusUpcoming  = "Upcoming"
	EventStatusOngoing   = "Ongoing"
	EventStatusCompleted = "Completed"
	EventStatusCancelled = "Cancelled"

	EventSourceManual   = "manual"
	EventSourceImported = "imported"
)

type Event struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"not null" json:"description"`
	Category      string         `gorm:"not null;default:'other'" json:"category"`
	Location      string         `gorm:"not null" json:"location"`
	Address       string         `json:"address"`
	Image         string         `json:"image"`
	Status        string         `gorm:"not null;default:'Upcoming'" json:"status"`
	TicketsSold   int64          `gorm:"not null;default:0" json:"tickets_sold"`
	Attendees     int            `gorm:"not null;default:0" json:"attendees"`
	Rating        float64        `gorm:"not null;default:0" json:"rating"`
	Source        string         `gorm:"not null;default:'manual'" json:"source"`
	StartTime     time.Time      `gorm:"not null" json:"start_time"`
	EndTime       time.Time      `gorm:"not null" json:"end_time"`
	OrganizerID   *uuid.UUID     `gorm:"type:uuid;index" json:"organizer_id"`
	Organizer     *User          `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	OrganizerName string         `json:"organizer_name"`
	TicketTypes   []TicketType   `gorm:"foreignKey:EventID" json:"ticket_types,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// TicketType is a named admission category for one event. Available is the
// remaining quantity and is only ever mutated by the issuance path; Sold,
// Total and Revenue are derived from issued tickets by the synchronizer.
type TicketType struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EventID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_ticket_types_event_name,unique" json:"event_id"`
	Name      string          `gorm:"not null;index:idx_ticket_types_event_name,unique" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	Available int             `gorm:"not null;default:0" json:"available"`
	Sold      int64           `gorm:"not null;default:0" json:"sold"`
	Total     int64           `gorm:"not null;default:0" json:"total"`
	Revenue   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"revenue"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (tt *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if tt.ID == uuid.Nil {
		tt.ID = uuid.New()
	}
	return
}
