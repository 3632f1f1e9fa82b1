package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gbr-backend/membership-service/services"
	"gbr-backend/shared/database/models"
	utils "gbr-backend/shared/utils/auth"
)

type AuthHandler struct {
	membership *services.MembershipService
}

func NewAuthHandler(db *gorm.DB, renewalDays int) *AuthHandler {
	return &AuthHandler{
		membership: services.NewMembershipService(db, renewalDays),
	}
}

// Membership returns the underlying membership service
func (h *AuthHandler) Membership() *services.MembershipService {
	return h.membership
}

// Login Request/Response structs
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	Member    MemberInfo `json:"member"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type MemberInfo struct {
	ID         uuid.UUID  `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Category   string     `json:"category"`
	Period     string     `json:"period"`
	IsActive   bool       `json:"is_active"`
	IsStaff    bool       `json:"is_staff"`
	JoinDate   time.Time  `json:"join_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// Register Request struct
type RegisterRequest struct {
	Username        string `json:"username" binding:"required" example:"alice"`
	Email           string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password        string `json:"password" binding:"required,min=8" example:"securepassword123"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"securepassword123"`
	Category        string `json:"category" example:"standard"`
	Period          string `json:"period" example:"annual"`
}

func memberInfo(member *models.Member) MemberInfo {
	return MemberInfo{
		ID:         member.ID,
		Username:   member.Username,
		Email:      member.Email,
		Category:   member.Category,
		Period:     member.Period,
		IsActive:   member.IsActive,
		IsStaff:    member.IsStaff,
		JoinDate:   member.JoinDate,
		ExpiryDate: member.ExpiryDate,
	}
}

// POST /api/auth/register
// @Summary Register new member
// @Description Register a new member account
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "Member registration data"
// @Success 201 {object} map[string]interface{} "Member registered successfully"
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Failure 409 {object} map[string]string "Username or email already exists"
// @Failure 429 {object} map[string]string "Too many registration attempts"
// @Failure 500 {object} map[string]string "Failed to register member"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.membership.Register(services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Category:        req.Category,
		Period:          req.Period,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Member registered successfully",
		"member":  memberInfo(member),
	})
}

// POST /api/auth/login
// @Summary Member login
// @Description Authenticate a member and return a JWT token. Credentials only; an expired membership can still log in.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.membership.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not authenticate"})
		return
	}

	token, err := utils.GenerateJWT(member.ID, member.Username, member.Email, member.IsStaff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		Member:    memberInfo(member),
		ExpiresAt: time.Now().Add(utils.GetJWTExpireDuration()),
	})
}

// GET /api/auth/me
// @Summary Current member profile
// @Description Return the authenticated member, including whether the membership window is currently active
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Member profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"member":            memberInfo(member),
		"membership_active": h.membership.IsActive(member, time.Now()),
	})
}
