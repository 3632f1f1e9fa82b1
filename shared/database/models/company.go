package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email" gorm:"size:254"`
	ContactPhone string    `json:"contact_phone" gorm:"size:20"`
	ChatCode     string    `json:"chat_code" gorm:"size:50"`
	LogoKey      string    `json:"logo_key" gorm:"size:255"`
	IndustryID   uuid.UUID `json:"industry_id" gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	ChatMessages []ChatMessage `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
