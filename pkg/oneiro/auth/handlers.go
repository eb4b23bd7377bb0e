package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oneiro-app/oneiro/pkg/oneiro/apperr"
	"github.com/oneiro-app/oneiro/pkg/oneiro/models"
	"github.com/oneiro-app/oneiro/pkg/oneiro/respond"
)

// Handler handles authentication requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new journal account and receive a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} respond.Result{data=AuthResponse}
// @Failure 400 {object} respond.Result "Validation error"
// @Failure 409 {object} respond.Result "Email already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("%s", err.Error()), "invalid request")
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		respond.Fail(c, err, "failed to process password")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respond.Fail(c, apperr.WithMessage(apperr.ErrDuplicateName, "email already registered"), "email already registered")
			return
		}
		respond.Fail(c, err, "failed to create user")
		return
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		respond.Fail(c, err, "failed to generate token")
		return
	}

	respond.OK(c, http.StatusCreated, AuthResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password to receive a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} respond.Result{data=AuthResponse}
// @Failure 401 {object} respond.Result "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("%s", err.Error()), "invalid request")
		return
	}

	// A missing user and a wrong password produce the same response
	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respond.Fail(c, apperr.WithMessage(apperr.ErrUnauthenticated, "invalid email or password"), "invalid email or password")
		return
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		respond.Fail(c, apperr.WithMessage(apperr.ErrUnauthenticated, "invalid email or password"), "invalid email or password")
		return
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		respond.Fail(c, err, "failed to generate token")
		return
	}

	respond.OK(c, http.StatusOK, AuthResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} respond.Result{data=UserResponse}
// @Failure 401 {object} respond.Result "Authentication required"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		respond.Fail(c, apperr.ErrUnauthenticated, "not authenticated")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		respond.Fail(c, apperr.WithMessage(apperr.ErrNotFound, "user not found"), "user not found")
		return
	}

	respond.OK(c, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

// RegisterRoutes registers auth routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/me", AuthMiddleware(), h.Me)
}
