// services/provider_service.go
package services

import (
	"errors"
	"time"

	"homeserve-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderService struct {
	db *gorm.DB
}

func NewProviderService(db *gorm.DB) *ProviderService {
	return &ProviderService{db: db}
}

// RecomputeStats rebuilds a provider's derived aggregates from its child
// rows. Safe to re-run at any time; the stored columns carry no authority.
func (s *ProviderService) RecomputeStats(providerID uuid.UUID) error {
	return recomputeProviderStats(s.db, providerID)
}

func recomputeProviderStats(db *gorm.DB, providerID uuid.UUID) error {
	var totalReviews int64
	var avgRating float64
	if err := db.Model(&models.Review{}).Where("provider_id = ?", providerID).
		Count(&totalReviews).Error; err != nil {
		return err
	}
	if totalReviews > 0 {
		if err := db.Model(&models.Review{}).Where("provider_id = ?", providerID).
			Select("AVG(rating)").Scan(&avgRating).Error; err != nil {
			return err
		}
	}

	var totalBookings int64
	if err := db.Model(&models.Booking{}).Where("provider_id = ?", providerID).
		Count(&totalBookings).Error; err != nil {
		return err
	}

	return db.Model(&models.Provider{}).Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"average_rating": RoundMoney(avgRating),
			"total_reviews":  totalReviews,
			"total_bookings": totalBookings,
		}).Error
}

// CreateReview records a customer's review of a completed booking and
// recomputes the provider aggregates in the same transaction.
func (s *ProviderService) CreateReview(bookingID, customerID uuid.UUID, rating int, text string) (*models.Review, error) {
	var booking models.Booking
	if err := s.db.Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID == nil || *booking.UserID != customerID {
		return nil, ErrNotAuthorized
	}
	if booking.Status != models.BookingCompleted {
		return nil, ErrBookingNotComplete
	}

	var count int64
	if err := s.db.Model(&models.Review{}).Where("booking_id = ?", bookingID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateReview
	}

	review := models.Review{
		BookingID:  booking.ID,
		ProviderID: booking.ProviderID,
		CustomerID: customerID,
		Rating:     rating,
		ReviewText: text,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateReview
			}
			return err
		}
		return recomputeProviderStats(tx, booking.ProviderID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// RespondToReview stores the provider's reply on an existing review.
func (s *ProviderService) RespondToReview(reviewID, providerUserID uuid.UUID, response string) (*models.Review, error) {
	var review models.Review
	if err := s.db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		return nil, err
	}

	var provider models.Provider
	if err := s.db.Where("id = ?", review.ProviderID).First(&provider).Error; err != nil {
		return nil, err
	}
	if provider.UserID != providerUserID {
		return nil, ErrNotAuthorized
	}

	now := time.Now()
	review.ProviderResponse = response
	review.RespondedAt = &now
	if err := s.db.Model(&review).Updates(map[string]interface{}{
		"provider_response": response,
		"responded_at":      &now,
	}).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
