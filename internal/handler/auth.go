package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"live_portal/internal/service"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type AuthHandler struct {
	authService service.AuthService
	log         logger.Logger
}

func NewAuthHandler(authService service.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	CaptchaToken    string `json:"captcha_token"`
}

type LoginRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captcha_token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword, req.CaptchaToken)
	if err != nil {
		h.log.Warn("Registration failed", "error", err, "username", req.Username)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	h.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, req.CaptchaToken)
	if err != nil {
		h.log.Warn("Login failed", "error", err, "username", req.Username)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	h.log.Info("User logged in", "user_id", response.User.ID, "username", response.User.Username)
	c.JSON(http.StatusOK, response)
}
