package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
)

type UpdateProfileRequest struct {
	FullName     *string `json:"full_name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	Language     *string `json:"language"`
}

func GetMe(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
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

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if len(updates) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Nothing to update.")
		return
	}

	if err := gormDB.Model(user).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    user,
	})
}
