// services/reconciliation_service.go
package services

import (
	"errors"
	"log"

	"homeserve-backend/config"
	"homeserve-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReconciliationService detects completed bookings whose payment or
// earnings rows never got written and backfills them. Derivation goes
// through the same BookingService path as the complete-booking handler, so
// repaired rows use the same math as the online flow.
type ReconciliationService struct {
	db       *gorm.DB
	bookings *BookingService
	cron     *cron.Cron
}

func NewReconciliationService(db *gorm.DB) *ReconciliationService {
	return &ReconciliationService{
		db:       db,
		bookings: NewBookingService(db),
	}
}

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	BookingsScanned  int      `json:"bookingsScanned"`
	PaymentsCreated  int      `json:"paymentsCreated"`
	EarningsCreated  int      `json:"earningsCreated"`
	ProvidersUpdated int      `json:"providersUpdated"`
	Errors           []string `json:"errors,omitempty"`
}

// RunOnce scans all completed bookings and repairs missing payment and
// earnings rows. Safe to re-run: existing rows are left untouched.
func (s *ReconciliationService) RunOnce() (*ReconcileReport, error) {
	report := &ReconcileReport{}

	var bookings []models.Booking
	if err := s.db.Where("status = ?", models.BookingCompleted).
		Order("completed_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	report.BookingsScanned = len(bookings)

	providers := make(map[uuid.UUID]struct{})
	for i := range bookings {
		booking := &bookings[i]

		var paymentCount int64
		if err := s.db.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).
			Count(&paymentCount).Error; err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		if paymentCount == 0 {
			payment := buildPayment(booking, "online", config.PlatformCommissionPct())
			if err := s.db.Create(payment).Error; err != nil {
				report.Errors = append(report.Errors, err.Error())
				continue
			}
			log.Printf("Reconcile: created payment %s for booking %s", payment.TransactionID, booking.ID)
			report.PaymentsCreated++
		}

		if _, err := s.bookings.DeriveEarnings(booking); err != nil {
			if !errors.Is(err, ErrDuplicateEarnings) {
				report.Errors = append(report.Errors, err.Error())
				continue
			}
		} else {
			log.Printf("Reconcile: derived earnings for booking %s", booking.ID)
			report.EarningsCreated++
		}

		providers[booking.ProviderID] = struct{}{}
	}

	// refresh aggregates for every provider we touched
	for providerID := range providers {
		if err := recomputeProviderStats(s.db, providerID); err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.ProvidersUpdated++
	}

	log.Printf("Reconcile: scanned %d bookings, created %d payments, %d earnings",
		report.BookingsScanned, report.PaymentsCreated, report.EarningsCreated)
	return report, nil
}

// StartScheduler runs RunOnce on a cron schedule, e.g. "0 3 * * *".
func (s *ReconciliationService) StartScheduler(schedule string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			log.Printf("Scheduled reconciliation failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Reconciliation scheduler started")
	return nil
}

// Stop halts the scheduler if it was started.
func (s *ReconciliationService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
