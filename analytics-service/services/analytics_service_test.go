package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gbr-backend/shared/database/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.PageVisit{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func recordAt(t *testing.T, db *gorm.DB, path string, at time.Time) {
	t.Helper()

	visit := models.PageVisit{Path: path, CreatedAt: at}
	if err := db.Create(&visit).Error; err != nil {
		t.Fatalf("failed to record visit: %v", err)
	}
}

func TestReportEmpty(t *testing.T) {
	svc := NewAnalyticsService(newTestDB(t))

	report, err := svc.Report(time.Now().UTC())
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	if report.Daily != 0 || report.Weekly != 0 || report.Monthly != 0 || report.Total != 0 {
		t.Errorf("expected all-zero report, got %+v", report)
	}
}

func TestRecordCountsInAllWindows(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	if err := svc.Record("/directory/companies"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	report, err := svc.Report(time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	if report.Daily != 1 || report.Weekly != 1 || report.Monthly != 1 || report.Total != 1 {
		t.Errorf("expected 1 in every window, got %+v", report)
	}
}

func TestReportWindowBoundaries(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	asOf := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	recordAt(t, db, "/a", asOf.Add(-time.Hour))          // today
	recordAt(t, db, "/b", asOf.AddDate(0, 0, -3))        // this week, not today
	recordAt(t, db, "/c", asOf.AddDate(0, 0, -20))       // this month, not this week
	recordAt(t, db, "/d", asOf.AddDate(0, 0, -90))       // all time only
	recordAt(t, db, "/future", asOf.Add(2*time.Hour))    // after the report instant

	report, err := svc.Report(asOf)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	if report.Daily != 1 {
		t.Errorf("daily = %d, want 1", report.Daily)
	}
	if report.Weekly != 2 {
		t.Errorf("weekly = %d, want 2", report.Weekly)
	}
	if report.Monthly != 3 {
		t.Errorf("monthly = %d, want 3", report.Monthly)
	}
	if report.Total != 4 {
		t.Errorf("total = %d, want 4", report.Total)
	}
}
