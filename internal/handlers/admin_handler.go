package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
)

func logAdminAction(c *gin.Context, actionType, message, link string) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		return
	}
	entry := models.AdminNotification{
		Message:    message,
		Type:       actionType,
		TargetRole: models.AdminTargetAll,
		Link:       link,
	}
	if actor, exists := middleware.CurrentUser(c); exists {
		entry.ActorID = &actor.ID
	}
	// Action logging is best effort; the admin operation already succeeded.
	gormDB.Create(&entry)
}

func AdminListUsers(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	page, limit, err := helpers.ParsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "20"))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	query := gormDB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("email ILIKE ? OR full_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if plan := c.Query("plan"); plan != "" {
		query = query.Where("plan = ?", plan)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").Find(&users).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

type AdminUpdateUserRequest struct {
	Plan      *string `json:"plan"`
	UserType  *string `json:"user_type"`
	AdminRole *string `json:"admin_role"`
}

func AdminUpdateUser(c *gin.Context) {
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var user models.User
	if err := gormDB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	updates := map[string]interface{}{}
	if req.Plan != nil {
		updates["plan"] = *req.Plan
	}
	if req.UserType != nil {
		updates["user_type"] = *req.UserType
	}
	if req.AdminRole != nil {
		updates["admin_role"] = *req.AdminRole
	}
	if len(updates) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Nothing to update.")
		return
	}

	if err := gormDB.Model(&user).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	logAdminAction(c, models.AdminNotificationUserUpdate,
		fmt.Sprintf("User %s updated by admin", user.Email),
		fmt.Sprintf("/admin/users/%s", user.ID))

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully.",
		"user":    user,
	})
}

func AdminDeleteUser(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var user models.User
	if err := gormDB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if err := gormDB.Delete(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	logAdminAction(c, models.AdminNotificationUserDelete,
		fmt.Sprintf("User %s deleted by admin", user.Email), "")

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

func AdminListEvents(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	page, limit, err := helpers.ParsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "20"))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	var total int64
	gormDB.Model(&models.Event{}).Count(&total)

	var events []models.Event
	if err := gormDB.Preload("Organizer").Preload("TicketTypes").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func AdminDeleteEvent(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var event models.Event
	if err := gormDB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	logAdminAction(c, models.AdminNotificationEventDelete,
		fmt.Sprintf("Event '%s' deleted by admin", event.Title), "")

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

// AdminDashboard returns the headline counts for the admin landing page.
func AdminDashboard(c *gin.Context) {
	gormDB, ok := middleware.GetDB(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var userCount, eventCount, ticketCount int64
	gormDB.Model(&models.User{}).Count(&userCount)
	gormDB.Model(&models.Event{}).Count(&eventCount)
	gormDB.Model(&models.Ticket{}).Count(&ticketCount)

	var planCounts []struct {
		Plan  string `json:"plan"`
		Count int64  `json:"count"`
	}
	gormDB.Model(&models.User{}).Select("plan, COUNT(*) as count").
		Group("plan").Scan(&planCounts)

	c.JSON(http.StatusOK, gin.H{
		"total_users":   userCount,
		"total_events":  eventCount,
		"total_tickets": ticketCount,
		"plans":         planCounts,
	})
}

func AdminListNotifications(c *gin.Context) {
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

	query := gormDB.Preload("Actor").Order("created_at DESC").Limit(100)
	if !user.HasAdminRole(models.AdminRoleSuper) {
		query = query.Where("target_role = ?", models.AdminTargetAll)
	}

	var notifications []models.AdminNotification
	if err := query.Find(&notifications).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
