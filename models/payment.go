package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is the recorded capture against a booking. The unique index on
// BookingID enforces the one-to-one at the database even if a handler race
// slips past the existence check.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	BookingID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Booking   Booking   `gorm:"foreignKey:BookingID"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`

	Amount        float64       `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string        `gorm:"type:varchar(20);not null"` // card, upi, netbanking, cash, online
	Status        PaymentStatus `gorm:"type:varchar(20);default:'pending'"`

	TransactionID string `gorm:"uniqueIndex;not null"`

	// PlatformCommission is a percentage of Amount retained by the platform.
	// ProviderAmount is Amount less that cut; it is only written by
	// RecalculateProviderAmount, never recomputed implicitly on save.
	PlatformCommission float64 `gorm:"type:decimal(5,2);default:15.00"`
	ProviderAmount     float64 `gorm:"type:decimal(10,2)"`

	RefundAmount float64 `gorm:"type:decimal(10,2);default:0.0"`
	RefundReason string  `gorm:"type:text"`
	RefundedAt   *time.Time

	PaidAt *time.Time

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
