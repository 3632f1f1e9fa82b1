package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
)

type mockJobLocker struct {
	acquireFn func(job string) (bool, error)
	releaseFn func(job string) error
}

func (m *mockJobLocker) AcquireJobLock(job string) (bool, error) {
	if m.acquireFn != nil {
		return m.acquireFn(job)
	}
	return true, nil
}

func (m *mockJobLocker) ReleaseJobLock(job string) error {
	if m.releaseFn != nil {
		return m.releaseFn(job)
	}
	return nil
}

func createMember(t *testing.T, db *gorm.DB, username string, active bool, expiry *time.Time) models.Member {
	t.Helper()

	member := models.Member{
		Username:   username,
		Email:      username + "@x.com",
		Password:   "hash",
		IsActive:   active,
		ExpiryDate: expiry,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to create member %s: %v", username, err)
	}
	return member
}

func TestExpiryRunDeactivatesOnlyExpiredActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpiryService(db, nil)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	expired := createMember(t, db, "expired", true, &yesterday)
	current := createMember(t, db, "current", true, &tomorrow)
	noExpiry := createMember(t, db, "noexpiry", true, nil)
	alreadyInactive := createMember(t, db, "inactive", false, &yesterday)

	count, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 deactivation, got %d", count)
	}

	assertActive := func(id interface{}, want bool, label string) {
		var member models.Member
		if err := db.First(&member, "id = ?", id).Error; err != nil {
			t.Fatalf("failed to reload %s: %v", label, err)
		}
		if member.IsActive != want {
			t.Errorf("%s: IsActive = %v, want %v", label, member.IsActive, want)
		}
	}

	assertActive(expired.ID, false, "expired member")
	assertActive(current.ID, true, "current member")
	assertActive(noExpiry.ID, true, "member without expiry")
	assertActive(alreadyInactive.ID, false, "already inactive member")
}

func TestExpiryRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpiryService(db, nil)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	createMember(t, db, "expired", true, &yesterday)

	first, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if first != 1 {
		t.Errorf("first run: expected 1 deactivation, got %d", first)
	}

	second, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if second != 0 {
		t.Errorf("second run: expected 0 deactivations, got %d", second)
	}
}

func TestExpiryRunRejectedWhileLockHeld(t *testing.T) {
	db := newTestDB(t)

	locker := &mockJobLocker{
		acquireFn: func(string) (bool, error) { return false, nil },
	}
	svc := NewExpiryService(db, locker)

	if _, err := svc.Run(context.Background(), time.Now()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress, got %v", err)
	}
}

func TestExpiryRunReleasesLock(t *testing.T) {
	db := newTestDB(t)

	released := false
	locker := &mockJobLocker{
		releaseFn: func(string) error {
			released = true
			return nil
		},
	}
	svc := NewExpiryService(db, locker)

	if _, err := svc.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !released {
		t.Error("expected job lock to be released after the run")
	}
}
