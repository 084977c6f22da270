package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/models"
)

func issueTestTicket(t *testing.T, db *gorm.DB, user *models.User, event *models.Event, typeName string) *models.Ticket {
	t.Helper()
	ticket := &models.Ticket{
		TicketID:     newExternalTicketID(),
		UserID:       user.ID,
		EventID:      event.ID,
		TypeName:     typeName,
		PurchaseTime: time.Now(),
		IsActive:     true,
	}
	require.NoError(t, db.Create(ticket).Error)
	return ticket
}

func TestResync_RecomputesDerivedColumns(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	buyer := createTestUser(t, db, "buyer@example.com")
	event := createTestEvent(t, db, "Jazz Night", nil)
	createTestTicketType(t, db, event, "GA", "20.00", 8)
	createTestTicketType(t, db, event, "VIP", "50.00", 5)

	issueTestTicket(t, db, buyer, event, "GA")
	issueTestTicket(t, db, buyer, event, "GA")
	issueTestTicket(t, db, buyer, event, "VIP")

	synced, err := catalog.Resync(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), synced.TicketsSold)
	require.Len(t, synced.TicketTypes, 2)

	byName := make(map[string]models.TicketType)
	for _, tt := range synced.TicketTypes {
		byName[tt.Name] = tt
	}

	ga := byName["GA"]
	assert.Equal(t, int64(2), ga.Sold)
	assert.Equal(t, int64(10), ga.Total)
	assert.True(t, ga.Revenue.Equal(decimal.RequireFromString("40.00")), "GA revenue = %s", ga.Revenue)

	vip := byName["VIP"]
	assert.Equal(t, int64(1), vip.Sold)
	assert.Equal(t, int64(6), vip.Total)
	assert.True(t, vip.Revenue.Equal(decimal.RequireFromString("50.00")), "VIP revenue = %s", vip.Revenue)

	revenue, err := catalog.EventRevenue(context.Background(), event.ID)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("90.00")), "event revenue = %s", revenue)
}

func TestResync_Idempotent(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	buyer := createTestUser(t, db, "buyer@example.com")
	event := createTestEvent(t, db, "Tech Expo", nil)
	createTestTicketType(t, db, event, "Standard", "35.00", 12)
	issueTestTicket(t, db, buyer, event, "Standard")
	issueTestTicket(t, db, buyer, event, "Standard")

	first, err := catalog.Resync(context.Background(), event.ID)
	require.NoError(t, err)
	second, err := catalog.Resync(context.Background(), event.ID)
	require.NoError(t, err)

	assert.Equal(t, first.TicketsSold, second.TicketsSold)
	require.Len(t, second.TicketTypes, 1)
	assert.Equal(t, first.TicketTypes[0].Sold, second.TicketTypes[0].Sold)
	assert.Equal(t, first.TicketTypes[0].Total, second.TicketTypes[0].Total)
	assert.True(t, first.TicketTypes[0].Revenue.Equal(second.TicketTypes[0].Revenue))
}

func TestResync_SkipsUnnamedTypes(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	event := createTestEvent(t, db, "Gala", nil)
	unnamed := &models.TicketType{EventID: event.ID, Available: 3}
	require.NoError(t, db.Create(unnamed).Error)

	synced, err := catalog.Resync(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, synced.TicketTypes, 1)
	assert.Zero(t, synced.TicketTypes[0].Sold)
	assert.Zero(t, synced.TicketTypes[0].Total)
	assert.True(t, synced.TicketTypes[0].Revenue.IsZero())
}

func TestResync_EventNotFound(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	_, err := catalog.Resync(context.Background(), uuid.New())
	assert.True(t, helpers.IsKind(err, helpers.KindNotFound))
}

func TestReplaceTicketTypes(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	event := createTestEvent(t, db, "Opera", nil)
	original := createTestTicketType(t, db, event, "Balcony", "30.00", 10)
	createTestTicketType(t, db, event, "Stalls", "45.00", 6)

	err := catalog.ReplaceTicketTypes(context.Background(), event.ID, []TicketTypeInput{
		{Name: "Balcony", Price: decimal.RequireFromString("32.00"), Available: 15},
		{Name: "Box", Price: decimal.RequireFromString("80.00"), Available: 4},
	})
	require.NoError(t, err)

	var remaining []models.TicketType
	require.NoError(t, db.Where("event_id = ?", event.ID).Order("name").Find(&remaining).Error)
	require.Len(t, remaining, 2)

	assert.Equal(t, "Balcony", remaining[0].Name)
	assert.Equal(t, original.ID, remaining[0].ID, "surviving name keeps its row")
	assert.Equal(t, 15, remaining[0].Available)
	assert.True(t, remaining[0].Price.Equal(decimal.RequireFromString("32.00")))
	assert.Equal(t, "Box", remaining[1].Name)
}

func TestReplaceTicketTypes_Validation(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	event := createTestEvent(t, db, "Fair", nil)

	err := catalog.ReplaceTicketTypes(context.Background(), event.ID, []TicketTypeInput{{Name: ""}})
	assert.True(t, helpers.IsKind(err, helpers.KindInvalid))

	err = catalog.ReplaceTicketTypes(context.Background(), event.ID, []TicketTypeInput{
		{Name: "GA", Price: decimal.RequireFromString("-1")},
	})
	assert.True(t, helpers.IsKind(err, helpers.KindInvalid))

	err = catalog.ReplaceTicketTypes(context.Background(), event.ID, []TicketTypeInput{
		{Name: "GA"}, {Name: "GA"},
	})
	assert.True(t, helpers.IsKind(err, helpers.KindConflict))
}
