package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Continent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Countries []Country `json:"countries,omitempty" gorm:"foreignKey:ContinentID;constraint:OnDelete:CASCADE"`
}

func (c *Continent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
