package services

import (
	"testing"

	"homeserve-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileBackfillsPaymentAndEarnings(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewReconciliationService(db)

	// completed booking with neither payment nor earnings, the drift the
	// reconciler exists to repair
	booking := f.newBooking(t, models.BookingCompleted)

	report, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, report.BookingsScanned)
	assert.Equal(t, 1, report.PaymentsCreated)
	assert.Equal(t, 1, report.EarningsCreated)
	assert.Equal(t, 1, report.ProvidersUpdated)
	assert.Empty(t, report.Errors)

	var payment models.Payment
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, booking.TotalAmount, payment.Amount)
	assert.Equal(t, 15.00, payment.PlatformCommission)
	assert.InDelta(t, 680.00, payment.ProviderAmount, 0.009)

	var earnings models.ProviderEarnings
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&earnings).Error)
	assert.InDelta(t, 800.00, earnings.GrossAmount, 0.009)
	assert.Equal(t, 10.00, earnings.CommissionPercentage)
	assert.InDelta(t, 80.00, earnings.CommissionAmount, 0.009)
	assert.InDelta(t, 720.00, earnings.NetAmount, 0.009)
}

func TestReconcileDerivesEarningsForExistingPayment(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	bookings := NewBookingService(db)
	svc := NewReconciliationService(db)

	// payment exists but the earnings derivation never ran
	booking := f.newBooking(t, models.BookingCompleted)
	_, err := bookings.CapturePayment(booking.ID, "online", 15.00)
	require.NoError(t, err)

	report, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, report.PaymentsCreated)
	assert.Equal(t, 1, report.EarningsCreated)

	var count int64
	db.Model(&models.ProviderEarnings{}).Where("booking_id = ?", booking.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileIsSafeToRerun(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewReconciliationService(db)

	booking := f.newBooking(t, models.BookingCompleted)

	_, err := svc.RunOnce()
	require.NoError(t, err)

	report, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, report.PaymentsCreated)
	assert.Equal(t, 0, report.EarningsCreated)
	assert.Empty(t, report.Errors)

	var payments, earnings int64
	db.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&payments)
	db.Model(&models.ProviderEarnings{}).Where("booking_id = ?", booking.ID).Count(&earnings)
	assert.Equal(t, int64(1), payments)
	assert.Equal(t, int64(1), earnings)
}

func TestReconcileRefreshesEachProviderOnce(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewReconciliationService(db)

	f.newBooking(t, models.BookingCompleted)
	f.newBooking(t, models.BookingCompleted)

	report, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 2, report.BookingsScanned)
	assert.Equal(t, 2, report.PaymentsCreated)
	assert.Equal(t, 2, report.EarningsCreated)
	assert.Equal(t, 1, report.ProvidersUpdated)

	var provider models.Provider
	require.NoError(t, db.First(&provider, "id = ?", f.provider.ID).Error)
	assert.Equal(t, 2, provider.TotalBookings)
}

func TestReconcileIgnoresIncompleteBookings(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	svc := NewReconciliationService(db)

	f.newBooking(t, models.BookingPending)
	f.newBooking(t, models.BookingConfirmed)
	f.newBooking(t, models.BookingCancelled)

	report, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, report.BookingsScanned)
	assert.Equal(t, 0, report.PaymentsCreated)
	assert.Equal(t, 0, report.EarningsCreated)

	var payments int64
	db.Model(&models.Payment{}).Count(&payments)
	assert.Equal(t, int64(0), payments)
}
