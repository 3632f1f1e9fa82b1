package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is immutable once created. MemberID is nil for anonymous senders.
type ChatMessage struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID  `json:"company_id" gorm:"type:uuid;not null;index"`
	MemberID  *uuid.UUID `json:"member_id" gorm:"type:uuid;index"`
	Message   string     `json:"message" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
