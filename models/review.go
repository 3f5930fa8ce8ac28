package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a customer's rating of a completed booking, one per booking.
// Provider rating aggregates are recomputed through the provider service
// whenever a review is written; the columns here carry no authority.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	BookingID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ProviderID uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Booking  Booking  `gorm:"foreignKey:BookingID"`
	Provider Provider `gorm:"foreignKey:ProviderID"`
	Customer User     `gorm:"foreignKey:CustomerID"`

	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText string `gorm:"type:text"`

	ProviderResponse string `gorm:"type:text"`
	RespondedAt      *time.Time

	gorm.Model
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
