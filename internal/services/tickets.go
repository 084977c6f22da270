package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/models"
	"github.com/nat2132/event-finder/internal/monitoring"
)

// TicketService owns the purchase transaction: inventory decrement, ticket
// minting, QR issuance and the post-commit sale notification.
type TicketService struct {
	db         *gorm.DB
	notifier   *SalesNotifier
	uploadBase string
}

func NewTicketService(db *gorm.DB, notifier *SalesNotifier, uploadBase string) *TicketService {
	if uploadBase == "" {
		uploadBase = "./uploads/"
	}
	return &TicketService{db: db, notifier: notifier, uploadBase: uploadBase}
}

// TicketSelector picks a ticket type either by id or by name. Exactly one
// side must be set.
type TicketSelector struct {
	TicketTypeID *uuid.UUID
	TypeName     string
}

func newExternalTicketID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TKT-" + strings.ToUpper(hex[:8])
}

// Purchase reserves one unit of inventory and mints a ticket. The
// availability check and decrement are a single conditional UPDATE, and the
// decrement, ticket insert and tickets_sold recount commit or roll back
// together, so a failed request never leaves a decremented-but-unissued
// state and concurrent buyers cannot both take the last unit.
func (s *TicketService) Purchase(ctx context.Context, userID, eventID uuid.UUID, sel TicketSelector) (*models.Ticket, error) {
	started := time.Now()

	if (sel.TicketTypeID == nil) == (sel.TypeName == "") {
		monitoring.PurchaseRejections.WithLabelValues("invalid_selector").Inc()
		return nil, helpers.Invalid("Either ticket_type_id or ticket_type_name is required.")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helpers.NotFound("User not found.")
		}
		return nil, err
	}

	var event models.Event
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			monitoring.PurchaseRejections.WithLabelValues("event_not_found").Inc()
			return nil, helpers.NotFound("Event not found.")
		}
		return nil, err
	}

	var ticket models.Ticket
	var totalSold int64

	err := db.Transaction(func(tx *gorm.DB) error {
		var ticketType models.TicketType
		query := tx.Where("event_id = ?", eventID)
		if sel.TicketTypeID != nil {
			query = query.Where("id = ?", *sel.TicketTypeID)
		} else {
			query = query.Where("name = ?", sel.TypeName)
		}
		if err := query.First(&ticketType).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				monitoring.PurchaseRejections.WithLabelValues("type_not_found").Inc()
				return helpers.NotFound("Ticket type not found.")
			}
			return err
		}

		// Atomic check-then-decrement: the guard rides in the WHERE clause
		// so the row lock serializes buyers of the same type.
		res := tx.Model(&models.TicketType{}).
			Where("id = ? AND available > 0", ticketType.ID).
			UpdateColumn("available", gorm.Expr("available - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			monitoring.PurchaseRejections.WithLabelValues("sold_out").Inc()
			return helpers.SoldOut("No tickets available for this type.")
		}

		ticket = models.Ticket{
			TicketID:     newExternalTicketID(),
			UserID:       user.ID,
			EventID:      event.ID,
			TicketTypeID: &ticketType.ID,
			TypeName:     ticketType.Name,
			PurchaseTime: time.Now().UTC(),
			IsActive:     true,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		// Re-read after the decrement so the derived columns are computed
		// from the row this transaction actually wrote.
		if err := tx.First(&ticketType, "id = ?", ticketType.ID).Error; err != nil {
			return err
		}

		var sold int64
		if err := tx.Model(&models.Ticket{}).
			Where("event_id = ? AND type_name = ?", event.ID, ticketType.Name).
			Count(&sold).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TicketType{}).Where("id = ?", ticketType.ID).Updates(map[string]interface{}{
			"sold":    sold,
			"total":   sold + int64(ticketType.Available),
			"revenue": ticketType.Price.Mul(decimal.NewFromInt(sold)),
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&totalSold).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).Where("id = ?", event.ID).
			UpdateColumn("tickets_sold", totalSold).Error
	})
	if err != nil {
		return nil, err
	}

	// QR issuance is outside the transaction: the ticket is already valid
	// and a missing image can be backfilled from the stored payload fields.
	png, err := GenerateTicketQR(event.Title, ticket.TicketID, user.Email)
	if err != nil {
		log.Printf("failed to render QR for ticket %s: %v", ticket.TicketID, err)
	} else {
		path, err := helpers.SaveGeneratedFile(s.uploadBase, "ticket_qrcodes", fmt.Sprintf("%s.png", ticket.TicketID), png)
		if err != nil {
			log.Printf("failed to store QR for ticket %s: %v", ticket.TicketID, err)
		} else {
			ticket.QRCodePath = path
			if err := db.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
				UpdateColumn("qr_code_path", path).Error; err != nil {
				log.Printf("failed to persist QR path for ticket %s: %v", ticket.TicketID, err)
			}
		}
	}

	event.TicketsSold = totalSold
	if s.notifier != nil {
		s.notifier.NotifySale(ctx, &event, &ticket, totalSold)
	}

	monitoring.TicketsIssued.WithLabelValues(event.ID.String()).Inc()
	monitoring.PurchaseDuration.Observe(time.Since(started).Seconds())

	ticket.User = &user
	ticket.Event = &event
	return &ticket, nil
}

// ListForUser returns the user's tickets, newest purchase first.
func (s *TicketService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.WithContext(ctx).
		Preload("Event").Preload("TicketType").
		Where("user_id = ?", userID).
		Order("purchase_time DESC").
		Find(&tickets).Error
	return tickets, err
}

// CheckIn flips a ticket to checked-in. Only the ticket owner or the event
// organizer may do it; a second check-in is reported, not an error.
func (s *TicketService) CheckIn(ctx context.Context, callerID uuid.UUID, externalTicketID string) (ticket *models.Ticket, already bool, err error) {
	db := s.db.WithContext(ctx)

	var found models.Ticket
	if err := db.Preload("Event").Preload("User").
		First(&found, "ticket_id = ?", externalTicketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, helpers.NotFound("Ticket not found.")
		}
		return nil, false, err
	}

	isOwner := found.UserID == callerID
	isOrganizer := found.Event != nil && found.Event.OrganizerID != nil && *found.Event.OrganizerID == callerID
	if !isOwner && !isOrganizer {
		return nil, false, helpers.Forbidden("You do not have permission to check in this attendee.")
	}

	if !found.IsActive {
		return &found, true, nil
	}

	if err := db.Model(&models.Ticket{}).Where("id = ?", found.ID).
		UpdateColumn("is_active", false).Error; err != nil {
		return nil, false, err
	}
	found.IsActive = false
	return &found, false, nil
}
