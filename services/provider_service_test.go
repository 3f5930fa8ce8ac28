package services

import (
	"testing"

	"homeserve-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRecomputesAggregates(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewProviderService(db)

	first := f.newBooking(t, models.BookingCompleted)
	second := f.newBooking(t, models.BookingCompleted)

	_, err := svc.CreateReview(first.ID, f.customer.ID, 5, "great work")
	require.NoError(t, err)

	var provider models.Provider
	require.NoError(t, db.First(&provider, "id = ?", f.provider.ID).Error)
	assert.Equal(t, 1, provider.TotalReviews)
	assert.InDelta(t, 5.0, provider.AverageRating, 0.009)
	assert.Equal(t, 2, provider.TotalBookings)

	_, err = svc.CreateReview(second.ID, f.customer.ID, 2, "late arrival")
	require.NoError(t, err)

	require.NoError(t, db.First(&provider, "id = ?", f.provider.ID).Error)
	assert.Equal(t, 2, provider.TotalReviews)
	assert.InDelta(t, 3.5, provider.AverageRating, 0.009)
}

func TestCreateReviewGuards(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewProviderService(db)

	completed := f.newBooking(t, models.BookingCompleted)
	pending := f.newBooking(t, models.BookingPending)

	// only the booking's customer may review
	_, err := svc.CreateReview(completed.ID, f.providerUser.ID, 4, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// only completed bookings can be reviewed
	_, err = svc.CreateReview(pending.ID, f.customer.ID, 4, "")
	assert.ErrorIs(t, err, ErrBookingNotComplete)

	// one review per booking
	_, err = svc.CreateReview(completed.ID, f.customer.ID, 4, "")
	require.NoError(t, err)
	_, err = svc.CreateReview(completed.ID, f.customer.ID, 3, "second thoughts")
	assert.ErrorIs(t, err, ErrDuplicateReview)

	var count int64
	db.Model(&models.Review{}).Where("booking_id = ?", completed.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecomputeStatsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewProviderService(db)

	booking := f.newBooking(t, models.BookingCompleted)
	_, err := svc.CreateReview(booking.ID, f.customer.ID, 4, "")
	require.NoError(t, err)

	// drift the stored aggregates, then recompute twice
	require.NoError(t, db.Model(&models.Provider{}).Where("id = ?", f.provider.ID).
		Updates(map[string]interface{}{
			"average_rating": 1.0,
			"total_reviews":  99,
			"total_bookings": 99,
		}).Error)

	require.NoError(t, svc.RecomputeStats(f.provider.ID))
	require.NoError(t, svc.RecomputeStats(f.provider.ID))

	var provider models.Provider
	require.NoError(t, db.First(&provider, "id = ?", f.provider.ID).Error)
	assert.Equal(t, 1, provider.TotalReviews)
	assert.InDelta(t, 4.0, provider.AverageRating, 0.009)
	assert.Equal(t, 1, provider.TotalBookings)
}

func TestRespondToReview(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewProviderService(db)

	booking := f.newBooking(t, models.BookingCompleted)
	review, err := svc.CreateReview(booking.ID, f.customer.ID, 4, "solid job")
	require.NoError(t, err)

	// only the reviewed provider can respond
	_, err = svc.RespondToReview(review.ID, f.customer.ID, "thanks!")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := svc.RespondToReview(review.ID, f.providerUser.ID, "thanks!")
	require.NoError(t, err)
	assert.Equal(t, "thanks!", updated.ProviderResponse)
	assert.NotNil(t, updated.RespondedAt)
}
