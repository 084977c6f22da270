package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
)

type SaveEventRequest struct {
	EventID           *uuid.UUID `json:"event_id"`
	ExternalEventID   *string    `json:"external_event_id"`
	ExternalEventData string     `json:"external_event_data"`
	Source            string     `json:"source"`
}

func ListSavedEvents(c *gin.Context) {
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

	var saved []models.SavedEvent
	if err := gormDB.Preload("Event").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&saved).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving saved events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved_events": saved})
}

// SaveEvent bookmarks an internal or an external event. Saving the same
// event twice is a conflict.
func SaveEvent(c *gin.Context) {
	var req SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.EventID == nil && req.ExternalEventID == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Either event_id or external_event_id is required.")
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

	if req.Source == "" {
		req.Source = models.EventSourceManual
	}

	saved := models.SavedEvent{
		UserID: userID,
		Source: req.Source,
	}

	if req.EventID != nil {
		var event models.Event
		if err := gormDB.First(&event, "id = ?", *req.EventID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
				return
			}
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
			return
		}

		var count int64
		gormDB.Model(&models.SavedEvent{}).
			Where("user_id = ? AND event_id = ?", userID, *req.EventID).Count(&count)
		if count > 0 {
			helpers.RespondWithError(c, http.StatusConflict, "Event already saved.")
			return
		}
		saved.EventID = req.EventID
	} else {
		var count int64
		gormDB.Model(&models.SavedEvent{}).
			Where("user_id = ? AND external_event_id = ?", userID, *req.ExternalEventID).Count(&count)
		if count > 0 {
			helpers.RespondWithError(c, http.StatusConflict, "Event already saved.")
			return
		}
		saved.ExternalEventID = req.ExternalEventID
		saved.ExternalEventData = req.ExternalEventData
	}

	if err := gormDB.Create(&saved).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save event.")
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func UnsaveEvent(c *gin.Context) {
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

	result := gormDB.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.SavedEvent{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to remove saved event.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Saved event not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saved event removed."})
}
