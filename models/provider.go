package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is the business profile linked one-to-one to a user account.
//
// AverageRating, TotalReviews and TotalBookings are derived from child rows
// and must only be written by the recompute path, never incremented directly.
type Provider struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"foreignKey:UserID"`

	BusinessName     string `gorm:"not null"`
	ContactNumber    string `gorm:"type:varchar(15);not null"`
	AlternateContact string `gorm:"type:varchar(15)"`
	Email            string
	Address          string `gorm:"type:text"`
	City             string
	State            string
	Pincode          string `gorm:"type:varchar(10)"`

	ExperienceYears int    `gorm:"default:0"`
	Bio             string `gorm:"type:text"`

	VerificationStatus VerificationStatus `gorm:"type:varchar(20);default:'pending'"`
	VerifiedAt         *time.Time

	AverageRating float64 `gorm:"type:decimal(3,2);default:0.0"`
	TotalReviews  int     `gorm:"default:0"`
	TotalBookings int     `gorm:"default:0"`

	IsAvailable bool `gorm:"default:true"`

	Services []Service          `gorm:"foreignKey:ProviderID"`
	Bookings []Booking          `gorm:"foreignKey:ProviderID"`
	Reviews  []Review           `gorm:"foreignKey:ProviderID"`
	Earnings []ProviderEarnings `gorm:"foreignKey:ProviderID"`

	gorm.Model
}

func (p *Provider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
