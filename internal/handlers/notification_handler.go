package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
)

func ListNotifications(c *gin.Context) {
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

	var notifications []models.UserNotification
	query := gormDB.Where("user_id = ?", userID).Order("created_at DESC")
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Limit(100).Find(&notifications).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func MarkNotificationRead(c *gin.Context) {
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

	result := gormDB.Model(&models.UserNotification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read."})
}

func MarkAllNotificationsRead(c *gin.Context) {
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

	if err := gormDB.Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read."})
}
