package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/middleware"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, name, email, password string) error
	VerifyEmail(ctx context.Context, rawToken string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, rawToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrEmailNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": errEmailNotAllowed})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
	case err != nil:
		h.logger.Error("register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Registered. Check your email."})
	}
}

// GET /api/auth/verify/:token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	err := h.authUsecase.VerifyEmail(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, domain.ErrTokenInvalid):
		c.JSON(http.StatusNotFound, gin.H{"error": errTokenInvalid})
	case errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusGone, gin.H{"error": errTokenExpired})
	case err != nil:
		h.logger.Error("verify email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
// Returns {"token": "<jwt>"} on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signed, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidLogin):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidLogin})
	case errors.Is(err, domain.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": errNotVerified})
	case err != nil:
		h.logger.Error("login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"token": signed})
	}
}

// POST /api/auth/logout
// Runs behind Auth; denylists the presented credential for its
// remaining lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := middleware.RawTokenFrom(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), raw); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}
		h.logger.Error("logout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.ForgotPassword(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	case err != nil:
		h.logger.Error("forgot password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Reset email sent"})
	}
}

type resetPasswordRequest struct {
	Token       string `json:"token"        binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, domain.ErrTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
	case errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusGone, gin.H{"error": errTokenExpired})
	case err != nil:
		h.logger.Error("reset password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}
