package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarEvent struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title           string    `gorm:"not null" json:"title"`
	Date            time.Time `gorm:"not null" json:"date"`
	DurationMinutes int       `gorm:"not null;default:60" json:"duration_minutes"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ce *CalendarEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if ce.ID == uuid.Nil {
		ce.ID = uuid.New()
	}
	return
}
