package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Industry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	CountryID uuid.UUID `json:"country_id" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Companies []Company `json:"companies,omitempty" gorm:"foreignKey:IndustryID;constraint:OnDelete:CASCADE"`
}

func (i *Industry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
