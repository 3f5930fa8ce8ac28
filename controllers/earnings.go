// controllers/earnings.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdatePayoutInput sets the administrative payout status of one earnings
// row. These transitions carry no business rules; they track disbursement
// done outside the system.
type UpdatePayoutInput struct {
	PayoutStatus models.PayoutStatus `json:"payoutStatus" binding:"required,oneof=pending processing paid hold"`
}

// GetMyEarnings lists the current provider's earnings with totals
func GetMyEarnings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Provider profile required")
		return
	}

	query := config.DB.Where("provider_id = ?", provider.ID)
	if status := c.Query("payoutStatus"); status != "" {
		query = query.Where("payout_status = ?", status)
	}

	var earnings []models.ProviderEarnings
	if err := query.Preload("Booking").Order("created_at DESC").Find(&earnings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve earnings")
		return
	}

	var totalNet, pendingNet float64
	config.DB.Model(&models.ProviderEarnings{}).Where("provider_id = ?", provider.ID).
		Select("COALESCE(SUM(net_amount), 0)").Scan(&totalNet)
	config.DB.Model(&models.ProviderEarnings{}).
		Where("provider_id = ? AND payout_status = ?", provider.ID, models.PayoutPending).
		Select("COALESCE(SUM(net_amount), 0)").Scan(&pendingNet)

	c.JSON(http.StatusOK, gin.H{
		"earnings":      earnings,
		"totalNet":      totalNet,
		"pendingPayout": pendingNet,
	})
}

// UpdatePayoutStatus updates one earnings row's payout status (admin)
func UpdatePayoutStatus(c *gin.Context) {
	earningsID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdatePayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var earnings models.ProviderEarnings
	if err := config.DB.Where("id = ?", earningsID).First(&earnings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Earnings record not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	updates := map[string]interface{}{"payout_status": input.PayoutStatus}
	if input.PayoutStatus == models.PayoutPaid {
		now := time.Now()
		updates["paid_at"] = &now
	}

	if err := config.DB.Model(&earnings).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payout status")
		return
	}

	c.JSON(http.StatusOK, earnings)
}
