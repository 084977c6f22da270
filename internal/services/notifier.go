package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/models"
	"github.com/nat2132/event-finder/internal/monitoring"
)

// salesMilestones are the organizer-notification thresholds. A milestone
// fires only when the running total lands exactly on the value, so a total
// that jumps past one is skipped on purpose.
var salesMilestones = []int64{10, 25, 50, 100, 250, 500, 1000}

// SalesNotifier writes organizer notifications after a successful issuance.
// Notification failures are logged and never fail the purchase.
type SalesNotifier struct {
	db *gorm.DB
}

func NewSalesNotifier(db *gorm.DB) *SalesNotifier {
	return &SalesNotifier{db: db}
}

func (n *SalesNotifier) NotifySale(ctx context.Context, event *models.Event, ticket *models.Ticket, totalSold int64) {
	if event.OrganizerID == nil {
		return
	}

	sale := models.UserNotification{
		UserID:      *event.OrganizerID,
		Type:        models.NotificationNewTicketSale,
		Message:     fmt.Sprintf("New ticket sold: %s for '%s'", ticket.TypeName, event.Title),
		ReferenceID: event.ID.String(),
		Link:        fmt.Sprintf("/organizer/events/%s", event.ID),
	}
	if err := n.db.WithContext(ctx).Create(&sale).Error; err != nil {
		log.Printf("failed to create sale notification for event %s: %v", event.ID, err)
	} else {
		monitoring.NotificationsCreated.WithLabelValues(models.NotificationNewTicketSale).Inc()
	}

	for _, milestone := range salesMilestones {
		if totalSold == milestone {
			reached := models.UserNotification{
				UserID:      *event.OrganizerID,
				Type:        models.NotificationSalesMilestone,
				Message:     fmt.Sprintf("Milestone reached: %d tickets sold for '%s'!", milestone, event.Title),
				ReferenceID: event.ID.String(),
				Link:        fmt.Sprintf("/organizer/events/%s", event.ID),
			}
			if err := n.db.WithContext(ctx).Create(&reached).Error; err != nil {
				log.Printf("failed to create milestone notification for event %s: %v", event.ID, err)
			} else {
				monitoring.NotificationsCreated.WithLabelValues(models.NotificationSalesMilestone).Inc()
			}
			break
		}
	}
}
