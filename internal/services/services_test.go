package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nat2132/event-finder/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory
	// database and serializes concurrent transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Ticket{},
		&models.SavedEvent{},
		&models.UserNotification{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ClerkID:  "clerk_" + uuid.New().String(),
		Email:    email,
		FullName: "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, title string, organizer *models.User) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:       title,
		Description: "A test event",
		Category:    "music",
		Location:    "Addis Ababa",
		Status:      models.EventStatusUpcoming,
	}
	if organizer != nil {
		event.OrganizerID = &organizer.ID
		event.OrganizerName = organizer.FullName
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func createTestTicketType(t *testing.T, db *gorm.DB, event *models.Event, name string, price string, available int) *models.TicketType {
	t.Helper()
	tt := &models.TicketType{
		EventID:   event.ID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Available: available,
	}
	require.NoError(t, db.Create(tt).Error)
	return tt
}
