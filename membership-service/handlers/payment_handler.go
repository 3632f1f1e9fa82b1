package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gbr-backend/membership-service/services"
)

// PaymentRequest represents the mock payment form
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"99.00"`
	Method string  `json:"method" binding:"required" example:"card"`
}

// PaymentResponse returns the recorded payment sub-record
type PaymentResponse struct {
	TransactionID string     `json:"transaction_id"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   time.Time  `json:"payment_date"`
	PaymentAmount float64    `json:"payment_amount"`
	PaymentMethod string     `json:"payment_method"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	NextDueDate   *time.Time `json:"next_due_date"`
}

// POST /api/payments
// @Summary Record a membership payment
// @Description Record a mock payment for the authenticated member. Depending on configuration the payment also extends the membership window.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body PaymentRequest true "Payment data"
// @Security BearerAuth
// @Success 200 {object} handlers.PaymentResponse "Payment recorded"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Router /payments [post]
func (h *AuthHandler) RecordPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID := c.MustGet("memberID").(uuid.UUID)

	member, err := h.membership.GetByID(memberID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load member"})
		return
	}

	if err := h.membership.RecordPayment(member, req.Amount, req.Method, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record payment"})
		return
	}

	c.JSON(http.StatusOK, PaymentResponse{
		TransactionID: member.TransactionID,
		PaymentStatus: member.PaymentStatus,
		PaymentDate:   *member.PaymentDate,
		PaymentAmount: member.PaymentAmount,
		PaymentMethod: member.PaymentMethod,
		ExpiryDate:    member.ExpiryDate,
		NextDueDate:   member.NextDueDate,
	})
}
