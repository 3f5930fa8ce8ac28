package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a scheduled instance of a customer requesting a service.
//
// ProviderID is denormalized from the service at creation and must stay
// consistent with Service.ProviderID. Customer fields are a snapshot taken
// at booking time, not a live link to the user profile. TotalAmount is a
// snapshot of Service.Price and is immutable once set.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ProviderID uuid.UUID `gorm:"type:uuid;index;not null"`

	Service  Service  `gorm:"foreignKey:ServiceID"`
	Provider Provider `gorm:"foreignKey:ProviderID"`

	// Nil for guest bookings
	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"foreignKey:UserID"`

	CustomerName    string `gorm:"not null"`
	CustomerEmail   string `gorm:"not null"`
	CustomerPhone   string `gorm:"type:varchar(15);not null"`
	CustomerAddress string `gorm:"type:text;not null"`

	BookingDate time.Time `gorm:"type:date;not null"`
	BookingTime string    `gorm:"type:varchar(5);not null"` // "HH:MM"
	Notes       string    `gorm:"type:text"`
	IsEmergency bool      `gorm:"default:false"`

	Status      BookingStatus `gorm:"type:varchar(20);default:'pending'"`
	TotalAmount float64       `gorm:"type:decimal(10,2);not null"`

	ConfirmedAt *time.Time
	CompletedAt *time.Time

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
