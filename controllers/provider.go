// controllers/provider.go
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

// RegisterProviderInput defines the business profile submitted by a user
// becoming a provider
type RegisterProviderInput struct {
	BusinessName     string `json:"businessName" binding:"required"`
	ContactNumber    string `json:"contactNumber" binding:"required"`
	AlternateContact string `json:"alternateContact"`
	Email            string `json:"email" binding:"omitempty,email"`
	Address          string `json:"address" binding:"required"`
	City             string `json:"city" binding:"required"`
	State            string `json:"state"`
	Pincode          string `json:"pincode"`
	ExperienceYears  int    `json:"experienceYears" binding:"min=0"`
	Bio              string `json:"bio"`
}

// UpdateProviderInput allows partial updates of the business profile
type UpdateProviderInput struct {
	BusinessName     *string `json:"businessName"`
	ContactNumber    *string `json:"contactNumber"`
	AlternateContact *string `json:"alternateContact"`
	Email            *string `json:"email"`
	Address          *string `json:"address"`
	City             *string `json:"city"`
	State            *string `json:"state"`
	Pincode          *string `json:"pincode"`
	ExperienceYears  *int    `json:"experienceYears"`
	Bio              *string `json:"bio"`
	IsAvailable      *bool   `json:"isAvailable"`
}

type VerifyProviderInput struct {
	Status models.VerificationStatus `json:"status" binding:"required,oneof=verified rejected"`
}

// RegisterProvider creates the provider profile for the current user and
// flips their role. One profile per user.
func RegisterProvider(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input RegisterProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, err := providerForUser(userID); err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Provider profile already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	provider := models.Provider{
		UserID:             userID,
		BusinessName:       input.BusinessName,
		ContactNumber:      input.ContactNumber,
		AlternateContact:   input.AlternateContact,
		Email:              input.Email,
		Address:            input.Address,
		City:               input.City,
		State:              input.State,
		Pincode:            input.Pincode,
		ExperienceYears:    input.ExperienceYears,
		Bio:                input.Bio,
		VerificationStatus: models.VerificationPending,
		IsAvailable:        true,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&provider).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create provider profile")
		return
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("role", "provider").Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user role")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, provider)
}

// GetProviders lists verified, available providers (public)
func GetProviders(c *gin.Context) {
	query := config.DB.Where("verification_status = ? AND is_available = true", models.VerificationVerified)

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var providers []models.Provider
	if err := query.Order("average_rating DESC, total_bookings DESC").Find(&providers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve providers")
		return
	}

	c.JSON(http.StatusOK, providers)
}

// GetProvider retrieves one provider with its public services
func GetProvider(c *gin.Context) {
	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var provider models.Provider
	if err := config.DB.Preload("Services", "is_active = true AND approval_status = ?", models.ApprovalApproved).
		Where("id = ?", providerID).First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Provider not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, provider)
}

// GetMyProviderProfile returns the current user's provider profile
func GetMyProviderProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Provider profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, provider)
}

// UpdateProviderProfile updates the current user's provider profile
func UpdateProviderProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input UpdateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Provider profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.BusinessName != nil {
		provider.BusinessName = *input.BusinessName
	}
	if input.ContactNumber != nil {
		provider.ContactNumber = *input.ContactNumber
	}
	if input.AlternateContact != nil {
		provider.AlternateContact = *input.AlternateContact
	}
	if input.Email != nil {
		provider.Email = *input.Email
	}
	if input.Address != nil {
		provider.Address = *input.Address
	}
	if input.City != nil {
		provider.City = *input.City
	}
	if input.State != nil {
		provider.State = *input.State
	}
	if input.Pincode != nil {
		provider.Pincode = *input.Pincode
	}
	if input.ExperienceYears != nil {
		provider.ExperienceYears = *input.ExperienceYears
	}
	if input.Bio != nil {
		provider.Bio = *input.Bio
	}
	if input.IsAvailable != nil {
		provider.IsAvailable = *input.IsAvailable
	}

	if err := config.DB.Save(provider).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update provider profile")
		return
	}

	c.JSON(http.StatusOK, provider)
}

// VerifyProvider sets a provider's verification status (admin)
func VerifyProvider(c *gin.Context) {
	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input VerifyProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var provider models.Provider
	if err := config.DB.Where("id = ?", providerID).First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Provider not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	updates := map[string]interface{}{"verification_status": input.Status}
	if input.Status == models.VerificationVerified {
		now := time.Now()
		updates["verified_at"] = &now
	}

	if err := config.DB.Model(&provider).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update verification status")
		return
	}

	c.JSON(http.StatusOK, provider)
}
