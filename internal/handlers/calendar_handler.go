package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
)

type CalendarEventRequest struct {
	Title           string    `json:"title" binding:"required"`
	Date            time.Time `json:"date" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
}

func ListCalendarEvents(c *gin.Context) {
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

	var entries []models.CalendarEvent
	if err := gormDB.Where("user_id = ?", userID).Order("date").Find(&entries).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving calendar events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"calendar_events": entries})
}

func CreateCalendarEvent(c *gin.Context) {
	var req CalendarEventRequest
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

	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}

	entry := models.CalendarEvent{
		UserID:          userID,
		Title:           req.Title,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		Category:        req.Category,
		Description:     req.Description,
	}

	if err := gormDB.Create(&entry).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create calendar event.")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func UpdateCalendarEvent(c *gin.Context) {
	var req CalendarEventRequest
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

	var entry models.CalendarEvent
	if err := gormDB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Calendar event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving calendar event.")
		return
	}

	entry.Title = req.Title
	entry.Date = req.Date
	if req.DurationMinutes > 0 {
		entry.DurationMinutes = req.DurationMinutes
	}
	entry.Location = req.Location
	entry.Category = req.Category
	entry.Description = req.Description

	if err := gormDB.Save(&entry).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update calendar event.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

func DeleteCalendarEvent(c *gin.Context) {
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

	result := gormDB.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.CalendarEvent{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete calendar event.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Calendar event not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Calendar event deleted."})
}
