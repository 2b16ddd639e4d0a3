package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"live_portal/internal/config"
	"live_portal/internal/domain"
	"live_portal/internal/repository"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/jwt"
	"live_portal/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password, confirmPassword, captchaToken string) (*domain.User, error)
	Login(ctx context.Context, username, password, captchaToken string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
}

type LoginResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

type authService struct {
	userRepo repository.UserRepository
	captcha  CaptchaService
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, captcha CaptchaService, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		captcha:  captcha,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password, confirmPassword, captchaToken string) (*domain.User, error) {
	if err := s.captcha.Verify(ctx, captchaToken); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(username) > 50 {
		return nil, errors.New("username is too long (max 50 characters)")
	}
	if email == "" {
		return nil, errors.New("email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, errors.New("invalid email format")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if password != confirmPassword {
		return nil, errors.New("passwords do not match")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, errors.New("failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         domain.RoleViewer,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID, "username", username)
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password, captchaToken string) (*LoginResponse, error) {
	if err := s.captcha.Verify(ctx, captchaToken); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Username, user.Role, s.jwtCfg.Secret, s.jwtCfg.Issuer, s.jwtCfg.AccessTTL)
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err)
		return nil, errors.New("failed to generate access token")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", "error", err, "user_id", user.ID)
	}

	s.log.Info("User logged in", "user_id", user.ID, "username", user.Username)
	user.PasswordHash = ""
	return &LoginResponse{User: user, AccessToken: accessToken}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}
