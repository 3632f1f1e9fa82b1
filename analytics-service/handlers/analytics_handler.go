package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gbr-backend/analytics-service/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/analytics/visits
// @Summary Page visit report
// @Description Visit counts for today, the last 7 days, the last 30 days and all time. Staff only.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.VisitReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Staff access required"
// @Failure 500 {object} map[string]string "Server error"
// @Router /analytics/visits [get]
func (h *AnalyticsHandler) GetVisitReport(c *gin.Context) {
	report, err := h.analytics.Report(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build visit report",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
