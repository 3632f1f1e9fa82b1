package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
)

// ErrRunInProgress is returned when another expiry run holds the lock.
var ErrRunInProgress = errors.New("expiry run already in progress")

// JobLocker is the distributed single-flight lock. Satisfied by the redis
// cache manager; nil-able for single-process deployments.
type JobLocker interface {
	AcquireJobLock(job string) (bool, error)
	ReleaseJobLock(job string) error
}

const expiryJobName = "check-expired-memberships"

// ExpiryService deactivates members whose expiry date has passed. Runs are
// idempotent: already-inactive members are never touched again.
type ExpiryService struct {
	db     *gorm.DB
	locker JobLocker
	mu     sync.Mutex
}

func NewExpiryService(db *gorm.DB, locker JobLocker) *ExpiryService {
	return &ExpiryService{db: db, locker: locker}
}

// Run flips is_active to false for every member with an expiry date before
// asOf, in one bulk update, and returns the number of members deactivated.
// Concurrent runs are rejected rather than queued.
func (s *ExpiryService) Run(ctx context.Context, asOf time.Time) (int64, error) {
	if !s.mu.TryLock() {
		return 0, ErrRunInProgress
	}
	defer s.mu.Unlock()

	if s.locker != nil {
		acquired, err := s.locker.AcquireJobLock(expiryJobName)
		if err != nil {
			log.Printf("❌ Job lock unavailable, proceeding with local lock only: %v", err)
		} else if !acquired {
			return 0, ErrRunInProgress
		} else {
			defer func() {
				if err := s.locker.ReleaseJobLock(expiryJobName); err != nil {
					log.Printf("❌ Failed to release job lock: %v", err)
				}
			}()
		}
	}

	cutoff := toDate(asOf)

	result := s.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("is_active = ? AND expiry_date IS NOT NULL AND expiry_date < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("expiry update failed: %w", result.Error)
	}

	return result.RowsAffected, nil
}
