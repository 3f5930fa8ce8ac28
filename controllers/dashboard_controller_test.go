package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"homeserve-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOverview(t *testing.T) {
	e := setupTestEnv(t)

	now := time.Now()
	pending := models.Booking{
		ServiceID: e.service.ID, ProviderID: e.provider.ID,
		CustomerName: "A", CustomerEmail: "a@example.com",
		CustomerPhone: "+917000000001", CustomerAddress: "5 First St",
		BookingDate: now, BookingTime: "09:00",
		Status: models.BookingPending, TotalAmount: 800.00,
	}
	require.NoError(t, e.db.Create(&pending).Error)

	completed := models.Booking{
		ServiceID: e.service.ID, ProviderID: e.provider.ID,
		CustomerName: "B", CustomerEmail: "b@example.com",
		CustomerPhone: "+917000000002", CustomerAddress: "6 Second St",
		BookingDate: now, BookingTime: "11:00",
		Status: models.BookingCompleted, TotalAmount: 800.00, CompletedAt: &now,
	}
	require.NoError(t, e.db.Create(&completed).Error)

	payment := models.Payment{
		BookingID: completed.ID, Amount: 800.00, PaymentMethod: "online",
		Status: models.PaymentCompleted, TransactionID: "TXNDASH000001",
		PlatformCommission: 15.00, ProviderAmount: 680.00, PaidAt: &now,
	}
	require.NoError(t, e.db.Create(&payment).Error)

	earnings := models.ProviderEarnings{
		ProviderID: e.provider.ID, BookingID: completed.ID, PaymentID: payment.ID,
		GrossAmount: 800.00, CommissionPercentage: 10.00,
		CommissionAmount: 80.00, NetAmount: 720.00,
		PayoutStatus: models.PayoutPending,
	}
	require.NoError(t, e.db.Create(&earnings).Error)

	w := e.do(t, http.MethodGet, "/api/provider/dashboard", e.providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var overview map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, float64(2), overview["totalBookings"])
	assert.Equal(t, float64(1), overview["pendingBookings"])
	assert.Equal(t, float64(1), overview["completedBookings"])
	assert.InDelta(t, 680.00, overview["monthlyRevenue"].(float64), 0.009)
	assert.InDelta(t, 720.00, overview["pendingPayout"].(float64), 0.009)
}

func TestDashboardSurfacesQueryFailure(t *testing.T) {
	e := setupTestEnv(t)

	// a broken revenue query must not be reported as zero revenue
	require.NoError(t, e.db.Migrator().DropTable(&models.Payment{}))

	w := e.do(t, http.MethodGet, "/api/provider/dashboard", e.providerToken, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardRequiresProviderProfile(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/provider/dashboard", e.customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
