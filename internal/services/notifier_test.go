package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/models"
)

func countNotifications(t *testing.T, db *gorm.DB, userID interface{}, notifType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.UserNotification{}).
		Where("user_id = ? AND type = ?", userID, notifType).
		Count(&count).Error)
	return count
}

func TestNotifySale_CreatesSaleNotification(t *testing.T) {
	db := newTestDB(t)
	notifier := NewSalesNotifier(db)

	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, "Jazz Night", organizer)
	ticket := &models.Ticket{TicketID: newExternalTicketID(), TypeName: "GA", PurchaseTime: time.Now()}

	notifier.NotifySale(context.Background(), event, ticket, 1)

	var notif models.UserNotification
	require.NoError(t, db.First(&notif, "user_id = ?", organizer.ID).Error)
	assert.Equal(t, models.NotificationNewTicketSale, notif.Type)
	assert.Equal(t, "New ticket sold: GA for 'Jazz Night'", notif.Message)
	assert.Equal(t, event.ID.String(), notif.ReferenceID)
	assert.False(t, notif.IsRead)

	assert.Zero(t, countNotifications(t, db, organizer.ID, models.NotificationSalesMilestone))
}

func TestNotifySale_MilestoneFiresOnExactTotal(t *testing.T) {
	db := newTestDB(t)
	notifier := NewSalesNotifier(db)

	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, "Tech Expo", organizer)
	ticket := &models.Ticket{TicketID: newExternalTicketID(), TypeName: "Standard", PurchaseTime: time.Now()}

	for total := int64(8); total <= 10; total++ {
		notifier.NotifySale(context.Background(), event, ticket, total)
	}

	assert.Equal(t, int64(3), countNotifications(t, db, organizer.ID, models.NotificationNewTicketSale))
	assert.Equal(t, int64(1), countNotifications(t, db, organizer.ID, models.NotificationSalesMilestone))

	var milestone models.UserNotification
	require.NoError(t, db.First(&milestone,
		"user_id = ? AND type = ?", organizer.ID, models.NotificationSalesMilestone).Error)
	assert.Equal(t, fmt.Sprintf("Milestone reached: 10 tickets sold for '%s'!", event.Title), milestone.Message)
}

func TestNotifySale_SkippedMilestoneDoesNotFire(t *testing.T) {
	db := newTestDB(t)
	notifier := NewSalesNotifier(db)

	organizer := createTestUser(t, db, "organizer@example.com")
	event := createTestEvent(t, db, "Festival", organizer)
	ticket := &models.Ticket{TicketID: newExternalTicketID(), TypeName: "Group", PurchaseTime: time.Now()}

	// Total jumps from 9 straight to 11, so the 10 threshold never matches.
	notifier.NotifySale(context.Background(), event, ticket, 9)
	notifier.NotifySale(context.Background(), event, ticket, 11)

	assert.Zero(t, countNotifications(t, db, organizer.ID, models.NotificationSalesMilestone))
}

func TestNotifySale_NoOrganizerIsNoOp(t *testing.T) {
	db := newTestDB(t)
	notifier := NewSalesNotifier(db)

	event := createTestEvent(t, db, "Imported Event", nil)
	ticket := &models.Ticket{TicketID: newExternalTicketID(), TypeName: "GA", PurchaseTime: time.Now()}

	notifier.NotifySale(context.Background(), event, ticket, 10)

	var count int64
	require.NoError(t, db.Model(&models.UserNotification{}).Count(&count).Error)
	assert.Zero(t, count)
}
