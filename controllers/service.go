// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	CategoryID           uuid.UUID          `json:"categoryId" binding:"required"`
	Title                string             `json:"title" binding:"required"`
	Description          string             `json:"description"`
	Price                float64            `json:"price" binding:"required,min=0"`
	PricingType          models.PricingType `json:"pricingType" binding:"omitempty,oneof=fixed hourly negotiable"`
	DurationMinutes      int                `json:"durationMinutes" binding:"min=0"`
	IsEmergencyAvailable bool               `json:"isEmergencyAvailable"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	CategoryID           *uuid.UUID          `json:"categoryId"`
	Title                *string             `json:"title"`
	Description          *string             `json:"description"`
	Price                *float64            `json:"price" binding:"omitempty,min=0"`
	PricingType          *models.PricingType `json:"pricingType" binding:"omitempty,oneof=fixed hourly negotiable"`
	DurationMinutes      *int                `json:"durationMinutes"`
	IsActive             *bool               `json:"isActive"`
	IsEmergencyAvailable *bool               `json:"isEmergencyAvailable"`
}

type ApproveServiceInput struct {
	Status          models.ApprovalStatus `json:"status" binding:"required,oneof=approved rejected"`
	RejectionReason string                `json:"rejectionReason"`
}

// CreateService creates a new service owned by the current provider.
// Services start unapproved and stay off the public catalog until an admin
// approves them.
func CreateService(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Provider profile required")
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.Where("id = ? AND is_active = true", input.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	pricingType := input.PricingType
	if pricingType == "" {
		pricingType = models.PricingFixed
	}
	duration := input.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	service := models.Service{
		ProviderID:           provider.ID,
		CategoryID:           category.ID,
		Title:                input.Title,
		Description:          input.Description,
		Price:                input.Price,
		PricingType:          pricingType,
		DurationMinutes:      duration,
		ApprovalStatus:       models.ApprovalPending,
		IsActive:             true,
		IsEmergencyAvailable: input.IsEmergencyAvailable,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices lists publicly visible services (active AND approved),
// filterable by category and emergency availability
func GetServices(c *gin.Context) {
	query := config.DB.Preload("Category").Preload("Provider").
		Where("is_active = true AND approval_status = ?", models.ApprovalApproved)

	if categoryID := c.Query("categoryId"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid categoryId format")
			return
		}
		query = query.Where("category_id = ?", id)
	}
	if c.Query("emergency") == "true" {
		query = query.Where("is_emergency_available = true")
	}

	var services []models.Service
	if err := query.Order("created_at DESC").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific publicly visible service
func GetService(c *gin.Context) {
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := config.DB.Preload("Category").Preload("Provider").
		Where("id = ? AND is_active = true AND approval_status = ?", serviceID, models.ApprovalApproved).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// GetMyServices lists all services of the current provider, whatever their
// approval state
func GetMyServices(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Provider profile required")
		return
	}

	var services []models.Service
	if err := config.DB.Preload("Category").Where("provider_id = ?", provider.ID).
		Order("created_at DESC").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// UpdateService updates a service owned by the current provider
func UpdateService(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Provider profile required")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("provider_id = ? AND id = ?", provider.ID, serviceID).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CategoryID != nil {
		var category models.Category
		if err := config.DB.Where("id = ? AND is_active = true", *input.CategoryID).First(&category).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
			return
		}
		service.CategoryID = *input.CategoryID
	}
	if input.Title != nil {
		service.Title = *input.Title
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.PricingType != nil {
		service.PricingType = *input.PricingType
	}
	if input.DurationMinutes != nil {
		service.DurationMinutes = *input.DurationMinutes
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.IsEmergencyAvailable != nil {
		service.IsEmergencyAvailable = *input.IsEmergencyAvailable
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service owned by the current provider
func DeleteService(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Provider profile required")
		return
	}

	result := config.DB.Where("provider_id = ? AND id = ?", provider.ID, serviceID).
		Delete(&models.Service{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// ApproveService sets a service's approval status (admin)
func ApproveService(c *gin.Context) {
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ApproveServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("id = ?", serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	updates := map[string]interface{}{"approval_status": input.Status}
	if input.Status == models.ApprovalRejected {
		updates["rejection_reason"] = input.RejectionReason
	} else {
		updates["rejection_reason"] = ""
	}

	if err := config.DB.Model(&service).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update approval status")
		return
	}

	c.JSON(http.StatusOK, service)
}
