package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
	utils "gbr-backend/shared/utils/auth"
)

// MembershipService owns member identity and subscription-window bookkeeping.
type MembershipService struct {
	db *gorm.DB

	// renewalDays is how far a recorded payment pushes the expiry window.
	// 0 keeps the record-only payment behavior.
	renewalDays int
}

func NewMembershipService(db *gorm.DB, renewalDays int) *MembershipService {
	return &MembershipService{db: db, renewalDays: renewalDays}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Category        string
	Period          string
	ExpiryDate      *time.Time
}

// Register validates the input, enforces username/email uniqueness and stores
// a new active member with a bcrypt credential hash.
func (s *MembershipService) Register(input RegisterInput) (*models.Member, error) {
	if err := utils.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	var existing models.Member
	if err := s.db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}
	if err := s.db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	member := models.Member{
		Username:   input.Username,
		Email:      input.Email,
		Password:   hashedPassword,
		Category:   input.Category,
		Period:     input.Period,
		IsActive:   true,
		ExpiryDate: input.ExpiryDate,
	}

	if err := s.db.Create(&member).Error; err != nil {
		if sentinel := s.duplicateSentinel(err, input.Username); sentinel != nil {
			return nil, sentinel
		}
		return nil, fmt.Errorf("could not create member: %w", err)
	}

	return &member, nil
}

// duplicateSentinel maps a unique-constraint violation from a registration
// that lost a race onto the field-specific sentinel. The check-then-insert
// above cannot see a concurrent insert, so the constraint is the backstop.
// Returns nil for any other error.
func (s *MembershipService) duplicateSentinel(err error, username string) error {
	if !isDuplicateKeyError(err) {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.Member{}).Where("username = ?", username).Count(&count).Error; err == nil && count > 0 {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// Authenticate checks credentials only. The active flag does not gate login;
// callers that care about the membership window use IsActive explicitly.
func (s *MembershipService) Authenticate(username, password string) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("username = ?", username).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, member.Password) {
		return nil, ErrInvalidCredentials
	}

	return &member, nil
}

// GetByID returns a member by id
func (s *MembershipService) GetByID(id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// RecordPayment marks the member paid at now with a mock transaction
// reference. With renewalDays > 0 the expiry and next-due dates move to
// now + renewalDays.
func (s *MembershipService) RecordPayment(member *models.Member, amount float64, method string, now time.Time) error {
	member.PaymentStatus = "PAID"
	member.PaymentDate = &now
	member.PaymentAmount = amount
	member.PaymentMethod = method
	member.TransactionID = utils.GenerateTransactionRef(now)

	if s.renewalDays > 0 {
		renewed := now.AddDate(0, 0, s.renewalDays)
		member.ExpiryDate = &renewed
		member.NextDueDate = &renewed
	}

	if err := s.db.Save(member).Error; err != nil {
		return fmt.Errorf("could not record payment: %w", err)
	}
	return nil
}

// IsActive reports whether the member is active as of the given day: the
// active flag must be set and the expiry date, when present, not yet passed.
// Comparison is by calendar date, not instant.
func (s *MembershipService) IsActive(member *models.Member, asOf time.Time) bool {
	if !member.IsActive {
		return false
	}
	if member.ExpiryDate == nil {
		return true
	}

	expiry := toDate(*member.ExpiryDate)
	return !expiry.Before(toDate(asOf))
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
