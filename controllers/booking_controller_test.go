package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/routes"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBookingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Provider{},
		&models.Service{},
		&models.Booking{},
		&models.Payment{},
		&models.ProviderEarnings{},
		&models.Review{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

type testEnv struct {
	router        *gin.Engine
	db            *gorm.DB
	providerUser  models.User
	customer      models.User
	admin         models.User
	provider      models.Provider
	service       models.Service
	providerToken string
	customerToken string
	adminToken    string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db := setupBookingTestDB(t)
	config.SetDB(db)

	env := &testEnv{db: db, router: routes.SetupRouter()}

	env.providerUser = models.User{
		Email: "pro@example.com", Password: "password123",
		Name: "Pro User", Phone: "+911234567890", Role: "provider", IsActive: true,
	}
	require.NoError(t, db.Create(&env.providerUser).Error)

	env.customer = models.User{
		Email: "cust@example.com", Password: "password123",
		Name: "Customer", Phone: "+919876543210", Role: "customer", IsActive: true,
	}
	require.NoError(t, db.Create(&env.customer).Error)

	env.admin = models.User{
		Email: "admin@example.com", Password: "password123",
		Name: "Admin", Phone: "+911111111111", Role: "admin", IsActive: true,
	}
	require.NoError(t, db.Create(&env.admin).Error)

	env.provider = models.Provider{
		UserID: env.providerUser.ID, BusinessName: "Acme Plumbing",
		ContactNumber: "+911234567890", Address: "1 Main St", City: "Pune",
		VerificationStatus: models.VerificationVerified, IsAvailable: true,
	}
	require.NoError(t, db.Create(&env.provider).Error)

	category := models.Category{Name: "Plumbing", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	env.service = models.Service{
		ProviderID: env.provider.ID, CategoryID: category.ID,
		Title: "Tap Repair", Price: 800.00, PricingType: models.PricingFixed,
		DurationMinutes: 60, ApprovalStatus: models.ApprovalApproved, IsActive: true,
	}
	require.NoError(t, db.Create(&env.service).Error)

	var err error
	env.providerToken, err = utils.GenerateToken(env.providerUser.ID.String(), "provider")
	require.NoError(t, err)
	env.customerToken, err = utils.GenerateToken(env.customer.ID.String(), "customer")
	require.NoError(t, err)
	env.adminToken, err = utils.GenerateToken(env.admin.ID.String(), "admin")
	require.NoError(t, err)

	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func bookingPayload(e *testEnv) map[string]interface{} {
	return map[string]interface{}{
		"serviceId":       e.service.ID.String(),
		"customerName":    "Walk-in Guest",
		"customerEmail":   "guest@example.com",
		"customerPhone":   "+918888888888",
		"customerAddress": "3 Guest Lane",
		"bookingDate":     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"bookingTime":     "14:30",
	}
}

func TestGuestCreatesBooking(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/bookings", "", bookingPayload(e))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, 800.00, booking.TotalAmount)
	assert.Nil(t, booking.UserID)

	// the booking flow captures the payment immediately
	var payment models.Payment
	require.NoError(t, e.db.Where("booking_id = ?", booking.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.InDelta(t, 680.00, payment.ProviderAmount, 0.009)
}

func TestAuthenticatedBookingLinksUser(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/bookings", e.customerToken, bookingPayload(e))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	require.NotNil(t, booking.UserID)
	assert.Equal(t, e.customer.ID, *booking.UserID)
}

func TestCreateBookingValidation(t *testing.T) {
	e := setupTestEnv(t)

	payload := bookingPayload(e)
	payload["bookingTime"] = "25:99"
	w := e.do(t, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = bookingPayload(e)
	payload["customerPhone"] = "not-a-phone"
	w = e.do(t, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = bookingPayload(e)
	delete(payload, "customerEmail")
	w = e.do(t, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/bookings", e.customerToken, bookingPayload(e))
	require.Equal(t, http.StatusCreated, w.Code)
	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	id := booking.ID.String()

	// customer may not confirm
	w = e.do(t, http.MethodPost, "/api/bookings/"+id+"/confirm", e.customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// provider confirms
	w = e.do(t, http.MethodPost, "/api/bookings/"+id+"/confirm", e.providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// confirming again is rejected without mutation
	w = e.do(t, http.MethodPost, "/api/bookings/"+id+"/confirm", e.providerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// provider completes; earnings ride along because the payment exists
	w = e.do(t, http.MethodPost, "/api/bookings/"+id+"/complete", e.providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response, "earnings")

	var earnings models.ProviderEarnings
	require.NoError(t, json.Unmarshal(response["earnings"], &earnings))
	assert.InDelta(t, 720.00, earnings.NetAmount, 0.009)

	// completed is terminal
	w = e.do(t, http.MethodPost, "/api/bookings/"+id+"/cancel", e.customerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCapturePaymentConflict(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/bookings", "", bookingPayload(e))
	require.Equal(t, http.StatusCreated, w.Code)
	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))

	// the create flow already captured the payment
	w = e.do(t, http.MethodPost, "/api/bookings/"+booking.ID.String()+"/payment",
		e.customerToken, map[string]interface{}{"paymentMethod": "cash"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminReconcileEndpoint(t *testing.T) {
	e := setupTestEnv(t)

	// drifted booking: completed, no payment, no earnings
	now := time.Now()
	booking := models.Booking{
		ServiceID: e.service.ID, ProviderID: e.provider.ID,
		CustomerName: "Drifted", CustomerEmail: "d@example.com",
		CustomerPhone: "+917777777777", CustomerAddress: "4 Lost Rd",
		BookingDate: now, BookingTime: "09:00",
		Status: models.BookingCompleted, TotalAmount: 800.00, CompletedAt: &now,
	}
	require.NoError(t, e.db.Create(&booking).Error)

	// non-admin is rejected
	w := e.do(t, http.MethodPost, "/api/admin/reconcile", e.providerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/reconcile", e.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, float64(1), report["paymentsCreated"])
	assert.Equal(t, float64(1), report["earningsCreated"])

	var earnings models.ProviderEarnings
	require.NoError(t, e.db.Where("booking_id = ?", booking.ID).First(&earnings).Error)
	assert.InDelta(t, 720.00, earnings.NetAmount, 0.009)
}
