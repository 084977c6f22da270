package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nat2132/event-finder/internal/billing"
	"github.com/nat2132/event-finder/internal/helpers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
)

// planPrices are the upgrade amounts in ETB.
var planPrices = map[string]int{
	models.PlanPro:       500,
	models.PlanOrganizer: 1500,
}

type UpgradePlanRequest struct {
	Plan      string `json:"plan" binding:"required"`
	ReturnURL string `json:"return_url"`
}

// InitializeUpgrade starts a plan-upgrade transaction with the payment
// gateway and records it as pending.
func InitializeUpgrade(c *gin.Context) {
	var req UpgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	amount, ok := planPrices[req.Plan]
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Unknown plan.")
		return
	}

	user, exists := middleware.CurrentUser(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}
	if user.Plan == req.Plan {
		helpers.RespondWithError(c, http.StatusConflict, "You are already on this plan.")
		return
	}

	gormDB, dbOK := middleware.GetDB(c)
	if !dbOK {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	chapa := middleware.GetChapaClient(c)
	if chapa == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	firstName, lastName := splitName(user.FullName)
	result, err := chapa.Initialize(c.Request.Context(), billing.InitializeRequest{
		Amount:    strconv.Itoa(amount),
		Email:     user.Email,
		FirstName: firstName,
		LastName:  lastName,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadGateway, "Failed to initialize payment.")
		return
	}

	history := models.BillingHistory{
		UserID: user.ID,
		Plan:   req.Plan,
		Amount: amount,
		TxRef:  result.TxRef,
		Status: models.BillingStatusPending,
	}
	if err := gormDB.Create(&history).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record transaction.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkout_url": result.CheckoutURL,
		"tx_ref":       result.TxRef,
	})
}

// VerifyUpgrade checks the transaction with the gateway and applies the
// plan change once it has completed.
func VerifyUpgrade(c *gin.Context) {
	txRef := c.Param("txRef")

	user, exists := middleware.CurrentUser(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	gormDB, dbOK := middleware.GetDB(c)
	if !dbOK {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	chapa := middleware.GetChapaClient(c)
	if chapa == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	var history models.BillingHistory
	if err := gormDB.Where("tx_ref = ? AND user_id = ?", txRef, user.ID).First(&history).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Transaction not found.")
		return
	}

	if history.Status == models.BillingStatusCompleted {
		c.JSON(http.StatusOK, gin.H{"status": history.Status, "plan": user.Plan})
		return
	}

	result, err := chapa.Verify(c.Request.Context(), txRef)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadGateway, "Failed to verify payment.")
		return
	}

	switch result.Status {
	case "success":
		history.Status = models.BillingStatusCompleted
	case "failed":
		history.Status = models.BillingStatusFailed
	default:
		history.Status = models.BillingStatusPending
	}
	if err := gormDB.Save(&history).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction.")
		return
	}

	if history.Status == models.BillingStatusCompleted {
		if err := gormDB.Model(user).UpdateColumn("plan", history.Plan).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to apply plan upgrade.")
			return
		}
		user.Plan = history.Plan
	}

	c.JSON(http.StatusOK, gin.H{"status": history.Status, "plan": user.Plan})
}

func ListBillingHistory(c *gin.Context) {
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

	var history []models.BillingHistory
	if err := gormDB.Where("user_id = ?", userID).Order("created_at DESC").Find(&history).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving billing history.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"billing_history": history})
}

func splitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
