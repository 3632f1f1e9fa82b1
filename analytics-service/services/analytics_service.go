package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
)

// VisitReport holds the aggregate counts over the fixed rolling windows
type VisitReport struct {
	Daily   int64 `json:"daily"`
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
	Total   int64 `json:"total"`
}

// AnalyticsService aggregates the append-only visit log. Every report is a
// live scan; no running counters are maintained.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Record appends one visit row for a path
func (s *AnalyticsService) Record(path string) error {
	visit := models.PageVisit{Path: path}
	return s.db.Create(&visit).Error
}

// Report counts visits for today, the last 7 days, the last 30 days and all
// time, as of the given instant.
func (s *AnalyticsService) Report(asOf time.Time) (*VisitReport, error) {
	midnight := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())

	report := &VisitReport{}

	counts := []struct {
		dest  *int64
		since *time.Time
	}{
		{&report.Daily, &midnight},
		{&report.Weekly, ptr(asOf.AddDate(0, 0, -7))},
		{&report.Monthly, ptr(asOf.AddDate(0, 0, -30))},
		{&report.Total, nil},
	}

	for _, c := range counts {
		query := s.db.Model(&models.PageVisit{})
		if c.since != nil {
			query = query.Where("created_at >= ? AND created_at <= ?", *c.since, asOf)
		} else {
			query = query.Where("created_at <= ?", asOf)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("visit count failed: %w", err)
		}
	}

	return report, nil
}

func ptr(t time.Time) *time.Time {
	return &t
}
