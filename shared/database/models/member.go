package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	Password string    `json:"-" gorm:"not null"`
	Category string    `json:"category" gorm:"size:50"`
	Period   string    `json:"period" gorm:"size:50"`
	IsActive bool      `json:"is_active" gorm:"default:true"`
	IsStaff  bool      `json:"is_staff" gorm:"default:false"`

	// Subscription window
	JoinDate    time.Time  `json:"join_date"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	NextDueDate *time.Time `json:"next_due_date"`

	// Payment sub-record
	PaymentStatus string     `json:"payment_status" gorm:"size:20"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentAmount float64    `json:"payment_amount"`
	PaymentMethod string     `json:"payment_method" gorm:"size:50"`
	TransactionID string     `json:"transaction_id" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = time.Now().UTC()
	}
	return nil
}
