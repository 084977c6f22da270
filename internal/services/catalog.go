package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/models"
)

// CatalogService manages an event's ticket types and keeps their derived
// sold/total/revenue columns consistent with the issued-ticket table.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type TicketTypeInput struct {
	Name      string          `json:"name" binding:"required"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
}

// ReplaceTicketTypes swaps the event's ticket-type set for the given
// entries, keeping rows whose name survives so issued tickets stay linked.
func (s *CatalogService) ReplaceTicketTypes(ctx context.Context, eventID uuid.UUID, entries []TicketTypeInput) error {
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return helpers.Invalid("Ticket type name is required.")
		}
		if entry.Price.IsNegative() {
			return helpers.Invalid("Ticket type price cannot be negative.")
		}
		if entry.Available < 0 {
			return helpers.Invalid("Ticket type quantity cannot be negative.")
		}
		if seen[entry.Name] {
			return helpers.Conflict("Duplicate ticket type name: " + entry.Name)
		}
		seen[entry.Name] = true
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.TicketType
		if err := tx.Where("event_id = ?", eventID).Find(&existing).Error; err != nil {
			return err
		}

		byName := make(map[string]*models.TicketType, len(existing))
		for i := range existing {
			byName[existing[i].Name] = &existing[i]
		}

		for _, entry := range entries {
			if current, ok := byName[entry.Name]; ok {
				current.Price = entry.Price
				current.Available = entry.Available
				if err := tx.Save(current).Error; err != nil {
					return err
				}
				delete(byName, entry.Name)
				continue
			}
			tt := models.TicketType{
				EventID:   eventID,
				Name:      entry.Name,
				Price:     entry.Price,
				Available: entry.Available,
			}
			if err := tx.Create(&tt).Error; err != nil {
				return err
			}
		}

		for _, stale := range byName {
			if err := tx.Delete(stale).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Resync recomputes each ticket type's sold count from issued tickets and
// refreshes total, revenue and the event's tickets_sold counter. Idempotent
// when no tickets are issued in between. Sold is derived from the ticket
// table, not the mutable availability counter, so running concurrently with
// issuance cannot corrupt the final numbers.
func (s *CatalogService) Resync(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helpers.NotFound("Event not found.")
		}
		return nil, err
	}

	var ticketTypes []models.TicketType
	if err := db.Where("event_id = ?", eventID).Order("created_at").Find(&ticketTypes).Error; err != nil {
		return nil, err
	}

	for i := range ticketTypes {
		tt := &ticketTypes[i]
		if tt.Name == "" {
			continue
		}
		var sold int64
		if err := db.Model(&models.Ticket{}).
			Where("event_id = ? AND type_name = ?", eventID, tt.Name).
			Count(&sold).Error; err != nil {
			return nil, err
		}
		tt.Sold = sold
		tt.Total = sold + int64(tt.Available)
		tt.Revenue = tt.Price.Mul(decimal.NewFromInt(sold))
		if err := db.Model(&models.TicketType{}).Where("id = ?", tt.ID).Updates(map[string]interface{}{
			"sold":    tt.Sold,
			"total":   tt.Total,
			"revenue": tt.Revenue,
		}).Error; err != nil {
			return nil, err
		}
	}

	var ticketsSold int64
	if err := db.Model(&models.Ticket{}).Where("event_id = ?", eventID).Count(&ticketsSold).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Event{}).Where("id = ?", eventID).
		UpdateColumn("tickets_sold", ticketsSold).Error; err != nil {
		return nil, err
	}

	event.TicketsSold = ticketsSold
	event.TicketTypes = ticketTypes
	return &event, nil
}

// EventRevenue sums the derived revenue across the event's ticket types.
func (s *CatalogService) EventRevenue(ctx context.Context, eventID uuid.UUID) (decimal.Decimal, error) {
	var ticketTypes []models.TicketType
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&ticketTypes).Error; err != nil {
		return decimal.Zero, err
	}
	revenue := decimal.Zero
	for _, tt := range ticketTypes {
		revenue = revenue.Add(tt.Revenue)
	}
	return revenue, nil
}
