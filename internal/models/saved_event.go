package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedEvent bookmarks either an internal event (EventID set) or an event
// pulled from an external platform (ExternalEventID set, raw payload kept).
type SavedEvent struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_saved_user_event,unique;index:idx_saved_user_external,unique" json:"user_id"`
	EventID           *uuid.UUID `gorm:"type:uuid;index:idx_saved_user_event,unique" json:"event_id"`
	Event             *Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`
	ExternalEventID   *string    `gorm:"index:idx_saved_user_external,unique" json:"external_event_id"`
	ExternalEventData string     `gorm:"type:jsonb" json:"external_event_data,omitempty"`
	Source            string     `gorm:"not null;default:'manual'" json:"source"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (saved *SavedEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	return
}
