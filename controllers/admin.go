// controllers/admin.go
package controllers

import (
	"net/http"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/services"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
)

// RunReconciliation scans completed bookings and backfills missing payment
// and earnings rows. Operator-triggered, safe to re-run.
func RunReconciliation(c *gin.Context) {
	svc := services.NewReconciliationService(config.DB)
	report, err := svc.RunOnce()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Reconciliation failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListProviders lists all providers regardless of verification (admin)
func ListProviders(c *gin.Context) {
	query := config.DB.Preload("User")
	if status := c.Query("verificationStatus"); status != "" {
		query = query.Where("verification_status = ?", status)
	}

	var providers []models.Provider
	if err := query.Order("created_at DESC").Find(&providers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve providers")
		return
	}

	c.JSON(http.StatusOK, providers)
}

// ListPendingServices lists services awaiting approval (admin)
func ListPendingServices(c *gin.Context) {
	var pending []models.Service
	if err := config.DB.Preload("Provider").Preload("Category").
		Where("approval_status = ?", models.ApprovalPending).
		Order("created_at").Find(&pending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, pending)
}
