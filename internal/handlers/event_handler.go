package handlers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
	"github.com/nat2132/event-finder/internal/services"
)

type EventRequest struct {
	Title       string                     `json:"title" binding:"required"`
	Description string                     `json:"description" binding:"required"`
	Category    string                     `json:"category"`
	Location    string                     `json:"location" binding:"required"`
	Address     string                     `json:"address"`
	Image       string                     `json:"image"`
	Status      string                     `json:"status"`
	StartTime   time.Time                  `json:"start_time" binding:"required"`
	EndTime     time.Time                  `json:"end_time" binding:"required"`
	TicketTypes []services.TicketTypeInput `json:"ticket_types"`
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, exists := middleware.CurrentUser(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	if req.Category == "" {
		req.Category = "other"
	}
	if req.Status == "" {
		req.Status = models.EventStatusUpcoming
	}

	event := models.Event{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		Address:       req.Address,
		Image:         req.Image,
		Status:        req.Status,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OrganizerID:   &user.ID,
		OrganizerName: user.FullName,
		Source:        models.EventSourceManual,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	if len(req.TicketTypes) > 0 {
		catalog := middleware.GetCatalogService(c)
		if catalog == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Catalog service not available.")
			return
		}
		if err := catalog.ReplaceTicketTypes(c.Request.Context(), event.ID, req.TicketTypes); err != nil {
			helpers.RespondWithAppError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

// GetEvent returns one event with its ticket-type figures resynced so the
// sold and revenue numbers reflect the issued-ticket table.
func GetEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"), "event ID")
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	catalog := middleware.GetCatalogService(c)
	if catalog == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Catalog service not available.")
		return
	}

	event, err := catalog.Resync(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	page, limit, err := helpers.ParsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	query := gormDB.Model(&models.Event{})
	if category := c.Query("category"); category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (page - 1) * limit
	err = query.Preload("TicketTypes").Preload("Organizer").
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        page,
		"limit":       limit,
		"total_pages": (totalCount + int64(limit) - 1) / int64(limit),
	})
}

func UpdateEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"), "event ID")
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

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

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_id = ?", eventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	if req.Category != "" {
		event.Category = req.Category
	}
	event.Location = req.Location
	event.Address = req.Address
	event.Image = req.Image
	if req.Status != "" {
		event.Status = req.Status
	}
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	if req.TicketTypes != nil {
		catalog := middleware.GetCatalogService(c)
		if catalog == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Catalog service not available.")
			return
		}
		if err := catalog.ReplaceTicketTypes(c.Request.Context(), event.ID, req.TicketTypes); err != nil {
			helpers.RespondWithAppError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
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

	result := gormDB.Where("id = ? AND organizer_id = ?", c.Param("id"), userID).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}

// UploadEventImage stores a new cover image for an organizer's event and
// removes the one it replaces.
func UploadEventImage(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"), "event ID")
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

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

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Image file is required.")
		return
	}

	path, err := helpers.UploadFile(c, fileHeader, "event_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	oldImage := event.Image
	if err := gormDB.Model(&event).UpdateColumn("image", path).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event image.")
		return
	}
	if oldImage != "" {
		if err := helpers.DeleteFile(oldImage); err != nil {
			log.Printf("failed to remove replaced image %s: %v", oldImage, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event image updated successfully.",
		"image":   path,
	})
}

// ListCategories returns the distinct categories in use, 'All' first.
func ListCategories(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var categories []string
	if err := gormDB.Model(&models.Event{}).Distinct("category").
		Where("category <> ''").Pluck("category", &categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}
	sort.Strings(categories)

	c.JSON(http.StatusOK, gin.H{"categories": append([]string{"All"}, categories...)})
}

// GetRecommendations ranks candidate events from the caller's saved events.
func GetRecommendations(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	recommender := middleware.GetRecommender(c)
	if recommender == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Recommendation model not available.")
		return
	}

	events, err := recommender.RecommendForUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing recommendations.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": events})
}

// OrganizerDashboard aggregates the caller's events, tickets sold and
// revenue from the synchronizer's derived figures.
func OrganizerDashboard(c *gin.Context) {
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
	catalog := middleware.GetCatalogService(c)
	if catalog == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Catalog service not available.")
		return
	}

	var events []models.Event
	if err := gormDB.Where("organizer_id = ?", userID).Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	totalRevenue := decimal.Zero
	var totalSold int64
	perEvent := make([]gin.H, 0, len(events))
	for _, event := range events {
		synced, err := catalog.Resync(c.Request.Context(), event.ID)
		if err != nil {
			helpers.RespondWithAppError(c, err)
			return
		}
		revenue, err := catalog.EventRevenue(c.Request.Context(), event.ID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing revenue.")
			return
		}
		totalSold += synced.TicketsSold
		totalRevenue = totalRevenue.Add(revenue)
		perEvent = append(perEvent, gin.H{
			"id":           synced.ID,
			"title":        synced.Title,
			"tickets_sold": synced.TicketsSold,
			"revenue":      revenue,
			"status":       synced.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_events":  len(events),
		"tickets_sold":  totalSold,
		"total_revenue": totalRevenue,
		"events":        perEvent,
	})
}

// EventAttendees lists ticket holders for an organizer's event.
func EventAttendees(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"), "event ID")
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

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

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to view attendees.")
		return
	}

	var tickets []models.Ticket
	if err := gormDB.Preload("User").Where("event_id = ?", eventID).
		Order("purchase_time").Find(&tickets).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving attendees.")
		return
	}

	attendees := make([]gin.H, 0, len(tickets))
	for _, ticket := range tickets {
		name, email := "", ""
		if ticket.User != nil {
			name, email = ticket.User.FullName, ticket.User.Email
		}
		status := "Not Checked In"
		if !ticket.IsActive {
			status = "Checked In"
		}
		attendees = append(attendees, gin.H{
			"ticket_id":       ticket.TicketID,
			"name":            name,
			"email":           email,
			"ticket_type":     ticket.TypeName,
			"check_in_status": status,
			"purchase_date":   ticket.PurchaseTime.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"attendees": attendees})
}
