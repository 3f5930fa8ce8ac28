// controllers/review.go
package controllers

import (
	"errors"
	"net/http"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/services"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateReviewInput struct {
	BookingID  uuid.UUID `json:"bookingId" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string    `json:"reviewText"`
}

type RespondReviewInput struct {
	Response string `json:"response" binding:"required"`
}

// CreateReview records a review for a completed booking; saving it
// recomputes the provider's rating aggregates
func CreateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewProviderService(config.DB)
	review, err := svc.CreateReview(input.BookingID, userID, input.Rating, input.ReviewText)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, services.ErrNotAuthorized):
			utils.RespondWithError(c, http.StatusForbidden, "Only the booking's customer can review it")
		case errors.Is(err, services.ErrBookingNotComplete):
			utils.RespondWithError(c, http.StatusConflict, "Only completed bookings can be reviewed")
		case errors.Is(err, services.ErrDuplicateReview):
			utils.RespondWithError(c, http.StatusConflict, "A review already exists for this booking")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetProviderReviews lists a provider's reviews (public)
func GetProviderReviews(c *gin.Context) {
	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("provider_id = ?", providerID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// RespondToReview stores the provider's reply on their review
func RespondToReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input RespondReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewProviderService(config.DB)
	review, err := svc.RespondToReview(reviewID, userID, input.Response)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			utils.RespondWithError(c, http.StatusForbidden, "Only the reviewed provider can respond")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, review)
}
