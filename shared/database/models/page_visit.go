package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageVisit is an append-only visit log row.
type PageVisit struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Path      string    `json:"path" gorm:"size:500;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (v *PageVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
