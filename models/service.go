package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProviderID uuid.UUID `gorm:"type:uuid;index;not null"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null"`

	Provider Provider `gorm:"foreignKey:ProviderID"`
	Category Category `gorm:"foreignKey:CategoryID"`

	Title       string      `gorm:"not null"`
	Description string      `gorm:"type:text"`
	Price       float64     `gorm:"type:decimal(10,2);not null"`
	PricingType PricingType `gorm:"type:varchar(20);default:'fixed'"`

	DurationMinutes int `gorm:"default:60"`

	ApprovalStatus  ApprovalStatus `gorm:"type:varchar(20);default:'pending'"`
	RejectionReason string         `gorm:"type:text"`

	IsActive             bool `gorm:"default:true"`
	IsEmergencyAvailable bool `gorm:"default:false"`

	Bookings []Booking `gorm:"foreignKey:ServiceID"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// PubliclyListed reports whether the service shows up in the catalog.
func (s *Service) PubliclyListed() bool {
	return s.IsActive && s.ApprovalStatus == ApprovalApproved
}
