package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups services: Plumbing, Electrical, Cleaning, etc.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Icon        string    `gorm:"type:varchar(50)"`
	IsActive    bool      `gorm:"default:true"`

	Services []Service `gorm:"foreignKey:CategoryID"`

	gorm.Model
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
