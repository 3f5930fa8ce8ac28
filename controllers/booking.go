// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/services"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateBookingInput defines the booking form. Contact fields are
// snapshotted onto the booking; guests submit them without an account.
type CreateBookingInput struct {
	ServiceID       uuid.UUID `json:"serviceId" binding:"required"`
	CustomerName    string    `json:"customerName" binding:"required"`
	CustomerEmail   string    `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string    `json:"customerPhone" binding:"required"`
	CustomerAddress string    `json:"customerAddress" binding:"required"`
	BookingDate     string    `json:"bookingDate" binding:"required"` // "2006-01-02"
	BookingTime     string    `json:"bookingTime" binding:"required"` // "15:04"
	Notes           string    `json:"notes"`
	IsEmergency     bool      `json:"isEmergency"`
}

// respondBookingError maps service-layer errors onto HTTP statuses
func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrServiceNotFound):
		utils.RespondWithError(c, http.StatusBadRequest, "Service not found or unavailable")
	case errors.Is(err, services.ErrNotAuthorized):
		utils.RespondWithError(c, http.StatusForbidden, "You do not have permission to act on this booking")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, "Booking status does not allow this action")
	case errors.Is(err, services.ErrDuplicatePayment):
		utils.RespondWithError(c, http.StatusConflict, "A payment already exists for this booking")
	case errors.Is(err, services.ErrDuplicateEarnings):
		utils.RespondWithError(c, http.StatusConflict, "Earnings already recorded for this booking")
	case errors.Is(err, services.ErrPaymentMissing):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "No completed payment found for this booking")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// CreateBooking books a service. Works for guests and logged-in customers;
// a valid token links the booking to the user.
func CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}
	if !utils.ValidateBookingTime(input.BookingTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking time, expected HH:MM")
		return
	}
	bookingDate, err := time.Parse("2006-01-02", input.BookingDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking date, expected YYYY-MM-DD")
		return
	}

	var userID *uuid.UUID
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	svc := services.NewBookingService(config.DB)
	booking, err := svc.Create(services.CreateBookingInput{
		ServiceID:       input.ServiceID,
		UserID:          userID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		BookingDate:     bookingDate,
		BookingTime:     input.BookingTime,
		Notes:           input.Notes,
		IsEmergency:     input.IsEmergency,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings lists bookings for the current user: their own bookings as
// a customer plus, for providers, bookings against their services
func GetMyBookings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Service").Preload("Service.Category")

	if provider, err := providerForUser(userID); err == nil {
		query = query.Where("provider_id = ? OR user_id = ?", provider.ID, userID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking retrieves one booking. Guests may look up their booking by id;
// bookings linked to an account are only visible to that account or the
// provider.
func GetBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Service").Preload("Provider").
		Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if booking.UserID != nil {
		userID, ok := currentUserID(c)
		if !ok || (*booking.UserID != userID && booking.Provider.UserID != userID) {
			utils.RespondWithError(c, http.StatusForbidden, "You do not have permission to view this booking")
			return
		}
	}

	c.JSON(http.StatusOK, booking)
}

// ConfirmBooking transitions pending -> confirmed (provider only)
func ConfirmBooking(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewBookingService(config.DB)
	booking, err := svc.Confirm(bookingID, userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// StartBooking transitions confirmed -> in_progress (provider only)
func StartBooking(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewBookingService(config.DB)
	booking, err := svc.Start(bookingID, userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CompleteBooking transitions to completed and derives earnings when a
// completed payment exists. A booking without a payment still completes;
// the response notes that earnings were not recorded.
func CompleteBooking(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewBookingService(config.DB)
	booking, earnings, err := svc.Complete(bookingID, userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response := gin.H{"booking": booking}
	if earnings != nil {
		response["earnings"] = earnings
	} else {
		response["warning"] = "No payment record found yet; earnings will be recorded by reconciliation"
	}

	c.JSON(http.StatusOK, response)
}

// CancelBooking transitions pending/confirmed -> cancelled (customer or
// provider)
func CancelBooking(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewBookingService(config.DB)
	booking, err := svc.Cancel(bookingID, userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
