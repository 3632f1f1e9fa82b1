package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
	"gbr-backend/shared/utils/query"
)

type MemberHandler struct {
	db *gorm.DB
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{db: db}
}

// MemberListItem represents a member row in the administrative listing
type MemberListItem struct {
	MemberInfo
	PaymentStatus string     `json:"payment_status"`
	NextDueDate   *time.Time `json:"next_due_date"`
}

// GET /api/members
// @Summary List members
// @Description Administrative member listing with pagination, filtering, sorting and search
// @Tags members
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across username and email"
// @Param filters[is_active] query string false "Filter by active flag (true, false)"
// @Param filters[category] query string false "Filter by category"
// @Param filters[payment_status] query string false "Filter by payment status"
// @Param sort[field] query string false "Sort field (username, email, join_date, expiry_date, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Staff access required"
// @Failure 500 {object} map[string]string "Server error"
// @Router /members [get]
func (h *MemberHandler) GetMembers(c *gin.Context) {
	params := query.ParseListParams(c)

	allowedFilters := map[string]string{
		"is_active":      "is_active",
		"category":       "category",
		"period":         "period",
		"payment_status": "payment_status",
	}

	allowedSortFields := map[string]string{
		"username":    "username",
		"email":       "email",
		"join_date":   "join_date",
		"expiry_date": "expiry_date",
		"created_at":  "created_at",
	}

	searchFields := []string{"username", "email"}

	dbQuery := h.db.Model(&models.Member{})
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySearch(dbQuery, params.Search, searchFields)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count members",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var members []models.Member
	if err := dbQuery.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve members",
			"message": err.Error(),
		})
		return
	}

	items := make([]MemberListItem, 0, len(members))
	for i := range members {
		items = append(items, MemberListItem{
			MemberInfo:    memberInfo(&members[i]),
			PaymentStatus: members[i].PaymentStatus,
			NextDueDate:   members[i].NextDueDate,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}
