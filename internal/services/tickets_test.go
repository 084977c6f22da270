package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/models"
)

func TestPurchase_LastUnit(t *testing.T) {
	db := newTestDB(t)
	service := NewTicketService(db, NewSalesNotifier(db), t.TempDir())

	organizer := createTestUser(t, db, "organizer@example.com")
	buyerA := createTestUser(t, db, "buyer-a@example.com")
	buyerB := createTestUser(t, db, "buyer-b@example.com")
	event := createTestEvent(t, db, "Jazz Night", organizer)
	ga := createTestTicketType(t, db, event, "GA", "20.00", 1)

	ticket, err := service.Purchase(context.Background(), buyerA.ID, event.ID, TicketSelector{TypeName: "GA"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.TicketID, "TKT-"))
	assert.Equal(t, "GA", ticket.TypeName)
	assert.True(t, ticket.IsActive)

	var updated models.TicketType
	require.NoError(t, db.First(&updated, "id = ?", ga.ID).Error)
	assert.Equal(t, 0, updated.Available)
	assert.Equal(t, int64(1), updated.Sold)
	assert.True(t, updated.Revenue.Equal(decimal.RequireFromString("20.00")), "revenue = %s", updated.Revenue)

	var updatedEvent models.Event
	require.NoError(t, db.First(&updatedEvent, "id = ?", event.ID).Error)
	assert.Equal(t, int64(1), updatedEvent.TicketsSold)

	_, err = service.Purchase(context.Background(), buyerB.ID, event.ID, TicketSelector{TypeName: "GA"})
	require.Error(t, err)
	assert.True(t, helpers.IsKind(err, helpers.KindSoldOut))
}

func TestPurchase_ExhaustsExactlyAvailable(t *testing.T) {
	db := newTestDB(t)
	service := NewTicketService(db, nil, t.TempDir())

	buyer := createTestUser(t, db, "buyer@example.com")
	event := createTestEvent(t, db, "Tech Expo", nil)
	createTestTicketType(t, db, event, "Standard", "50.00", 5)

	for i := 0; i < 5; i++ {
		_, err := service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TypeName: "Standard"})
		require.NoError(t, err, "purchase %d", i+1)
	}

	_, err := service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TypeName: "Standard"})
	assert.True(t, helpers.IsKind(err, helpers.KindSoldOut))

	var ticketCount int64
	require.NoError(t, db.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&ticketCount).Error)
	assert.Equal(t, int64(5), ticketCount)
}

func TestPurchase_ConcurrentBuyersDoNotOversell(t *testing.T) {
	db := newTestDB(t)
	service := NewTicketService(db, nil, t.TempDir())

	buyer := createTestUser(t, db, "buyer@example.com")
	event := createTestEvent(t, db, "Festival", nil)
	createTestTicketType(t, db, event, "VIP", "100.00", 3)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TypeName: "VIP"})
		}(i)
	}
	wg.Wait()

	succeeded, soldOut := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case helpers.IsKind(err, helpers.KindSoldOut):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, attempts-3, soldOut)

	var remaining models.TicketType
	require.NoError(t, db.First(&remaining, "event_id = ? AND name = ?", event.ID, "VIP").Error)
	assert.Equal(t, 0, remaining.Available)

	var ticketCount int64
	require.NoError(t, db.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&ticketCount).Error)
	assert.Equal(t, int64(3), ticketCount)
}

func TestPurchase_SelectorValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewTicketService(db, nil, t.TempDir())

	buyer := createTestUser(t, db, "buyer@example.com")
	event := createTestEvent(t, db, "Gala", nil)
	tt := createTestTicketType(t, db, event, "Premium", "75.00", 2)

	_, err := service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{})
	assert.True(t, helpers.IsKind(err, helpers.KindInvalid), "empty selector")

	_, err = service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{
		TicketTypeID: &tt.ID,
		TypeName:     "Premium",
	})
	assert.True(t, helpers.IsKind(err, helpers.KindInvalid), "both sides set")

	_, err = service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TypeName: "Backstage"})
	assert.True(t, helpers.IsKind(err, helpers.KindNotFound), "unknown type name")

	ticket, err := service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TicketTypeID: &tt.ID})
	require.NoError(t, err)
	assert.Equal(t, "Premium", ticket.TypeName)
}

func TestPurchase_FailureLeavesInventoryUntouched(t *testing.T) {
	db := newTestDB(t)
	service := NewTicketService(db, nil, t.TempDir())

	buyer := createTestUser(t, db, "buyer@example.com")
	event := createTestEvent(t, db, "Opera", nil)
	createTestTicketType(t, db, event, "Balcony", "30.00", 4)

	_, err := service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TypeName: "Stalls"})
	require.Error(t, err)

	var tt models.TicketType
	require.NoError(t, db.First(&tt, "event_id = ?", event.ID).Error)
	assert.Equal(t, 4, tt.Available)

	var ticketCount int64
	require.NoError(t, db.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&ticketCount).Error)
	assert.Zero(t, ticketCount)
}

func TestCheckIn(t *testing.T) {
	db := newTestDB(t)
	service := NewTicketService(db, nil, t.TempDir())

	organizer := createTestUser(t, db, "organizer@example.com")
	buyer := createTestUser(t, db, "buyer@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	event := createTestEvent(t, db, "Comedy Night", organizer)
	createTestTicketType(t, db, event, "GA", "15.00", 10)

	ticket, err := service.Purchase(context.Background(), buyer.ID, event.ID, TicketSelector{TypeName: "GA"})
	require.NoError(t, err)

	_, _, err = service.CheckIn(context.Background(), stranger.ID, ticket.TicketID)
	assert.True(t, helpers.IsKind(err, helpers.KindForbidden))

	checked, already, err := service.CheckIn(context.Background(), organizer.ID, ticket.TicketID)
	require.NoError(t, err)
	assert.False(t, already)
	assert.False(t, checked.IsActive)

	_, already, err = service.CheckIn(context.Background(), buyer.ID, ticket.TicketID)
	require.NoError(t, err)
	assert.True(t, already)

	_, _, err = service.CheckIn(context.Background(), buyer.ID, "TKT-DEADBEEF")
	assert.True(t, helpers.IsKind(err, helpers.KindNotFound))
}
