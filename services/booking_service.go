// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingAction is an operation attempted against a booking's status.
type BookingAction string

const (
	ActionConfirm  BookingAction = "confirm"
	ActionStart    BookingAction = "start"
	ActionComplete BookingAction = "complete"
	ActionCancel   BookingAction = "cancel"
)

// TransitionTable encodes state-machine legality: action x current status
// -> next status. Anything absent is an invalid transition.
var TransitionTable = map[BookingAction]map[models.BookingStatus]models.BookingStatus{
	ActionConfirm: {
		models.BookingPending: models.BookingConfirmed,
	},
	ActionStart: {
		models.BookingConfirmed: models.BookingInProgress,
	},
	ActionComplete: {
		models.BookingConfirmed:  models.BookingCompleted,
		models.BookingInProgress: models.BookingCompleted,
	},
	ActionCancel: {
		models.BookingPending:   models.BookingCancelled,
		models.BookingConfirmed: models.BookingCancelled,
	},
}

// NextStatus resolves an action against a current status, or reports the
// transition illegal.
func NextStatus(action BookingAction, from models.BookingStatus) (models.BookingStatus, bool) {
	next, ok := TransitionTable[action][from]
	return next, ok
}

type BookingService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db, notifier: NewNotifier()}
}

// CreateBookingInput carries the customer-facing booking form.
type CreateBookingInput struct {
	ServiceID       uuid.UUID
	UserID          *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	BookingDate     time.Time
	BookingTime     string
	Notes           string
	IsEmergency     bool
}

// Create books a service for a customer or guest. The provider is
// denormalized from the service and the amount is a snapshot of the current
// price. A completed payment is captured in the same transaction, exactly
// as the booking flow records it (no external gateway is modeled).
func (s *BookingService) Create(input CreateBookingInput) (*models.Booking, error) {
	var service models.Service
	if err := s.db.Where("id = ? AND is_active = true AND approval_status = ?",
		input.ServiceID, models.ApprovalApproved).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	booking := models.Booking{
		ServiceID:       service.ID,
		ProviderID:      service.ProviderID,
		UserID:          input.UserID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		BookingDate:     input.BookingDate,
		BookingTime:     input.BookingTime,
		Notes:           input.Notes,
		IsEmergency:     input.IsEmergency,
		Status:          models.BookingPending,
		TotalAmount:     service.Price,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		payment := buildPayment(&booking, "online", config.PlatformCommissionPct())
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return recomputeProviderStats(tx, booking.ProviderID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingCreated(&booking)
	return &booking, nil
}

// Confirm moves a pending booking to confirmed. Only the booking's provider
// may confirm; any other current status is rejected without mutation.
func (s *BookingService) Confirm(bookingID, actorUserID uuid.UUID) (*models.Booking, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeProvider(booking, actorUserID); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.applyTransition(booking, ActionConfirm, map[string]interface{}{
		"confirmed_at": &now,
	}); err != nil {
		return booking, err
	}
	booking.ConfirmedAt = &now

	s.notifier.BookingStatusChanged(booking)
	return booking, nil
}

// Start moves a confirmed booking to in_progress (provider only).
func (s *BookingService) Start(bookingID, actorUserID uuid.UUID) (*models.Booking, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeProvider(booking, actorUserID); err != nil {
		return nil, err
	}
	if err := s.applyTransition(booking, ActionStart, nil); err != nil {
		return booking, err
	}
	return booking, nil
}

// Complete marks a booking completed and, when a completed payment exists,
// derives the provider's earnings as a side effect. A missing payment is
// logged and left for reconciliation; the completion itself still succeeds.
func (s *BookingService) Complete(bookingID, actorUserID uuid.UUID) (*models.Booking, *models.ProviderEarnings, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorizeProvider(booking, actorUserID); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.applyTransition(booking, ActionComplete, map[string]interface{}{
		"completed_at": &now,
	}); err != nil {
		return booking, nil, err
	}
	booking.CompletedAt = &now

	if err := recomputeProviderStats(s.db, booking.ProviderID); err != nil {
		log.Printf("Booking %s: failed to recompute provider stats: %v", booking.ID, err)
	}

	earnings, err := s.DeriveEarnings(booking)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentMissing):
			log.Printf("Booking %s completed with no payment record; earnings left for reconciliation", booking.ID)
		case errors.Is(err, ErrDuplicateEarnings):
			// already derived, nothing to do
		default:
			return booking, nil, err
		}
		earnings = nil
	}

	s.notifier.BookingStatusChanged(booking)
	return booking, earnings, nil
}

// Cancel moves a pending or confirmed booking to cancelled. The booking's
// customer or its provider may cancel; terminal states are rejected.
func (s *BookingService) Cancel(bookingID, actorUserID uuid.UUID) (*models.Booking, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}
	if !s.isProvider(booking, actorUserID) && !s.isCustomer(booking, actorUserID) {
		return nil, ErrNotAuthorized
	}
	if err := s.applyTransition(booking, ActionCancel, nil); err != nil {
		return booking, err
	}
	if err := recomputeProviderStats(s.db, booking.ProviderID); err != nil {
		log.Printf("Booking %s: failed to recompute provider stats: %v", booking.ID, err)
	}

	s.notifier.BookingStatusChanged(booking)
	return booking, nil
}

// CapturePayment records a payment for a booking that does not have one.
// The amount is always the booking's total; the split is computed through
// ComputeSplit at capture time.
func (s *BookingService) CapturePayment(bookingID uuid.UUID, method string, commissionPct float64) (*models.Payment, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicatePayment
	}

	payment := buildPayment(booking, method, commissionPct)
	if err := s.db.Create(payment).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePayment
		}
		return nil, err
	}

	s.notifier.PaymentCompleted(payment, booking)
	return payment, nil
}

// RecalculateProviderAmount resynchronizes a payment's provider share after
// its amount or commission was edited. This is an explicit call; saving a
// payment never recomputes the split implicitly.
func (s *BookingService) RecalculateProviderAmount(payment *models.Payment) error {
	_, net := ComputeSplit(payment.Amount, payment.PlatformCommission)
	payment.ProviderAmount = net
	return s.db.Model(payment).Update("provider_amount", net).Error
}

// DeriveEarnings creates the one earnings row for a booking from its
// completed payment. It is rejected when no completed payment exists or
// when earnings were already derived; it never updates an existing row.
func (s *BookingService) DeriveEarnings(booking *models.Booking) (*models.ProviderEarnings, error) {
	var payment models.Payment
	if err := s.db.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMissing
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.ProviderEarnings{}).Where("booking_id = ?", booking.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEarnings
	}

	pct := config.EarningsCommissionPct()
	commissionAmt, netAmt := ComputeSplit(payment.Amount, pct)

	earnings := models.ProviderEarnings{
		ProviderID:           booking.ProviderID,
		BookingID:            booking.ID,
		PaymentID:            payment.ID,
		GrossAmount:          payment.Amount,
		CommissionPercentage: pct,
		CommissionAmount:     commissionAmt,
		NetAmount:            netAmt,
		PayoutStatus:         models.PayoutPending,
	}
	if err := s.db.Create(&earnings).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEarnings
		}
		return nil, err
	}
	return &earnings, nil
}

func (s *BookingService) load(bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) isProvider(booking *models.Booking, userID uuid.UUID) bool {
	var provider models.Provider
	if err := s.db.Where("id = ?", booking.ProviderID).First(&provider).Error; err != nil {
		return false
	}
	return provider.UserID == userID
}

func (s *BookingService) isCustomer(booking *models.Booking, userID uuid.UUID) bool {
	return booking.UserID != nil && *booking.UserID == userID
}

func (s *BookingService) authorizeProvider(booking *models.Booking, userID uuid.UUID) error {
	if !s.isProvider(booking, userID) {
		return ErrNotAuthorized
	}
	return nil
}

// applyTransition performs one guarded read-modify-write: the UPDATE is
// conditioned on the status the caller read, so a concurrent transition
// surfaces as ErrInvalidTransition instead of a lost update.
func (s *BookingService) applyTransition(booking *models.Booking, action BookingAction, extra map[string]interface{}) error {
	next, ok := NextStatus(action, booking.Status)
	if !ok {
		return ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": next}
	for k, v := range extra {
		updates[k] = v
	}

	result := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}

	booking.Status = next
	return nil
}

func buildPayment(booking *models.Booking, method string, commissionPct float64) *models.Payment {
	_, net := ComputeSplit(booking.TotalAmount, commissionPct)
	now := time.Now()
	return &models.Payment{
		BookingID:          booking.ID,
		UserID:             booking.UserID,
		Amount:             booking.TotalAmount,
		PaymentMethod:      method,
		Status:             models.PaymentCompleted,
		TransactionID:      newTransactionID(booking.ID),
		PlatformCommission: commissionPct,
		ProviderAmount:     net,
		PaidAt:             &now,
	}
}

func newTransactionID(bookingID uuid.UUID) string {
	short := strings.ToUpper(strings.ReplaceAll(bookingID.String(), "-", "")[:8])
	return fmt.Sprintf("TXN%s%s", short, utils.GenerateRandomString(6))
}

// gorm surfaces constraint violations differently per driver; matching on
// the message keeps the check portable between postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
