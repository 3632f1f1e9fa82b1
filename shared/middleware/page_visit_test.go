package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gbr-backend/shared/database/models"
)

func newVisitRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
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

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(PageVisitMiddleware(db, []string{"/admin", "/static"}))
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/api/continents", handler)
	router.GET("/admin/members", handler)
	router.GET("/static/logo.png", handler)

	return router, db
}

func visitCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.PageVisit{}).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestPageVisitRecorded(t *testing.T) {
	router, db := newVisitRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/continents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := visitCount(t, db); got != 1 {
		t.Errorf("visits = %d, want 1", got)
	}

	var visit models.PageVisit
	if err := db.First(&visit).Error; err != nil {
		t.Fatalf("failed to load visit: %v", err)
	}
	if visit.Path != "/api/continents" {
		t.Errorf("path = %q, want %q", visit.Path, "/api/continents")
	}
}

func TestPageVisitSkipsExcludedPrefixes(t *testing.T) {
	router, db := newVisitRouter(t)

	for _, path := range []string{"/admin/members", "/static/logo.png"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", path, w.Code)
		}
	}

	if got := visitCount(t, db); got != 0 {
		t.Errorf("visits = %d, want 0", got)
	}
}
