// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalBookings     int64   `json:"totalBookings"`
	PendingBookings   int64   `json:"pendingBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	PendingPayout     float64 `json:"pendingPayout"`
	AverageRating     float64 `json:"averageRating"`
	TotalReviews      int     `json:"totalReviews"`

	RecentBookings []RecentBooking `json:"recentBookings"`
}

type RecentBooking struct {
	ID           string  `json:"id"`
	ServiceTitle string  `json:"serviceTitle"`
	CustomerName string  `json:"customerName"`
	Status       string  `json:"status"`
	TotalAmount  float64 `json:"totalAmount"`
	BookingDate  string  `json:"bookingDate"`
}

// GetDashboardOverview returns the provider's operational summary
func GetDashboardOverview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	provider, err := providerForUser(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Provider profile required")
		return
	}

	overview := DashboardOverview{
		AverageRating: provider.AverageRating,
		TotalReviews:  provider.TotalReviews,
	}

	if err := config.DB.Model(&models.Booking{}).Where("provider_id = ?", provider.ID).
		Count(&overview.TotalBookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	if err := config.DB.Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", provider.ID, models.BookingPending).
		Count(&overview.PendingBookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	if err := config.DB.Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", provider.ID, models.BookingCompleted).
		Count(&overview.CompletedBookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	// This month's revenue from completed payments on this provider's bookings
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := config.DB.Model(&models.Payment{}).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.provider_id = ? AND payments.status = ? AND payments.created_at >= ?",
			provider.ID, models.PaymentCompleted, firstOfMonth).
		Select("COALESCE(SUM(payments.provider_amount), 0)").
		Scan(&overview.MonthlyRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	if err := config.DB.Model(&models.ProviderEarnings{}).
		Where("provider_id = ? AND payout_status = ?", provider.ID, models.PayoutPending).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&overview.PendingPayout).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	var bookings []models.Booking
	if err := config.DB.Preload("Service").Where("provider_id = ?", provider.ID).
		Order("created_at DESC").Limit(5).Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	for _, b := range bookings {
		overview.RecentBookings = append(overview.RecentBookings, RecentBooking{
			ID:           b.ID.String(),
			ServiceTitle: b.Service.Title,
			CustomerName: b.CustomerName,
			Status:       string(b.Status),
			TotalAmount:  b.TotalAmount,
			BookingDate:  b.BookingDate.Format("2006-01-02"),
		})
	}

	c.JSON(http.StatusOK, overview)
}
