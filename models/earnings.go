package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderEarnings is the derived net payout for one completed, paid
// booking. Unique indexes on BookingID and PaymentID make a second
// derivation fail at the constraint rather than silently updating.
type ProviderEarnings struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProviderID uuid.UUID `gorm:"type:uuid;index;not null"`
	BookingID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PaymentID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Provider Provider `gorm:"foreignKey:ProviderID"`
	Booking  Booking  `gorm:"foreignKey:BookingID"`
	Payment  Payment  `gorm:"foreignKey:PaymentID"`

	GrossAmount          float64 `gorm:"type:decimal(10,2);not null"`
	CommissionPercentage float64 `gorm:"type:decimal(5,2);not null"`
	CommissionAmount     float64 `gorm:"type:decimal(10,2);not null"`
	NetAmount            float64 `gorm:"type:decimal(10,2);not null"`

	PayoutStatus PayoutStatus `gorm:"type:varchar(20);default:'pending'"`
	PaidAt       *time.Time

	gorm.Model
}

func (ProviderEarnings) TableName() string {
	return "provider_earnings"
}

func (e *ProviderEarnings) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
