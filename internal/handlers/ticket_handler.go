package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
	"github.com/nat2132/event-finder/internal/services"
)

type PurchaseTicketRequest struct {
	EventID        uuid.UUID  `json:"event_id" binding:"required"`
	TicketTypeID   *uuid.UUID `json:"ticket_type_id"`
	TicketTypeName string     `json:"ticket_type_name"`
}

// ListMyTickets returns the caller's tickets, newest first.
func ListMyTickets(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	ticketService := middleware.GetTicketService(c)
	if ticketService == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticket service not available.")
		return
	}

	tickets, err := ticketService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// PurchaseTicket runs the issuance transaction for one unit.
func PurchaseTicket(c *gin.Context) {
	var req PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	ticketService := middleware.GetTicketService(c)
	if ticketService == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticket service not available.")
		return
	}

	ticket, err := ticketService.Purchase(c.Request.Context(), userID, req.EventID, services.TicketSelector{
		TicketTypeID: req.TicketTypeID,
		TypeName:     req.TicketTypeName,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket purchased successfully.",
		"ticket":  ticket,
	})
}

// GetTicketQR serves the ticket's QR image. Owner only.
func GetTicketQR(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var ticket models.Ticket
	if err := gormDB.Preload("Event").Preload("User").
		First(&ticket, "ticket_id = ?", c.Param("ticketId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}

	if ticket.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket's QR code.")
		return
	}

	if ticket.QRCodePath != "" {
		if data, err := os.ReadFile(ticket.QRCodePath); err == nil {
			c.Data(http.StatusOK, "image/png", data)
			return
		}
	}

	// Regenerate from the stored payload fields when the image is missing.
	email := ""
	if ticket.User != nil {
		email = ticket.User.Email
	}
	title := ""
	if ticket.Event != nil {
		title = ticket.Event.Title
	}
	png, err := services.GenerateTicketQR(title, ticket.TicketID, email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// CheckInTicket marks a ticket as checked in. Ticket owner or organizer only.
func CheckInTicket(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	ticketService := middleware.GetTicketService(c)
	if ticketService == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticket service not available.")
		return
	}

	ticket, already, err := ticketService.CheckIn(c.Request.Context(), userID, c.Param("ticketId"))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	if already {
		c.JSON(http.StatusOK, gin.H{"message": "Already checked in."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attendee checked in successfully.",
		"ticket":  ticket,
	})
}
