// controllers/payment.go
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
	"gorm.io/gorm"
)

// CapturePaymentInput defines the capture form. The amount is never taken
// from the client; it is always the booking's total.
type CapturePaymentInput struct {
	PaymentMethod string   `json:"paymentMethod" binding:"required,oneof=card upi netbanking wallet cash online"`
	CommissionPct *float64 `json:"commissionPct" binding:"omitempty,min=0,max=100"`
}

// UpdatePaymentInput allows admin edits of a payment record. Changing the
// amount or commission does not silently recompute the provider share;
// the handler invokes the explicit recalculation after applying edits.
type UpdatePaymentInput struct {
	Amount             *float64              `json:"amount" binding:"omitempty,min=0"`
	PlatformCommission *float64              `json:"platformCommission" binding:"omitempty,min=0,max=100"`
	Status             *models.PaymentStatus `json:"status" binding:"omitempty,oneof=pending processing completed failed refunded"`
	RefundAmount       *float64              `json:"refundAmount" binding:"omitempty,min=0"`
	RefundReason       *string               `json:"refundReason"`
}

// CapturePayment records the payment for a booking that has none (offline
// or guest flows, operator repair). Duplicates are rejected.
func CapturePayment(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input CapturePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	commissionPct := config.PlatformCommissionPct()
	if input.CommissionPct != nil {
		commissionPct = *input.CommissionPct
	}

	svc := services.NewBookingService(config.DB)
	payment, err := svc.CapturePayment(bookingID, input.PaymentMethod, commissionPct)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetBookingPayment retrieves the payment attached to a booking
func GetBookingPayment(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payment models.Payment
	if err := config.DB.Where("booking_id = ?", bookingID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No payment found for this booking")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, payment)
}

// UpdatePayment applies admin edits and resynchronizes the provider share
// through the explicit recalculation call
func UpdatePayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var payment models.Payment
	if err := config.DB.Where("id = ?", paymentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	splitChanged := false
	if input.Amount != nil {
		payment.Amount = *input.Amount
		splitChanged = true
	}
	if input.PlatformCommission != nil {
		payment.PlatformCommission = *input.PlatformCommission
		splitChanged = true
	}
	if input.Status != nil {
		payment.Status = *input.Status
		if *input.Status == models.PaymentRefunded {
			now := time.Now()
			payment.RefundedAt = &now
		}
	}
	if input.RefundAmount != nil {
		payment.RefundAmount = *input.RefundAmount
	}
	if input.RefundReason != nil {
		payment.RefundReason = *input.RefundReason
	}

	if err := config.DB.Save(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment")
		return
	}

	if splitChanged {
		svc := services.NewBookingService(config.DB)
		if err := svc.RecalculateProviderAmount(&payment); err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate provider amount")
			return
		}
	}

	c.JSON(http.StatusOK, payment)
}
