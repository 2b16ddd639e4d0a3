package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"live_portal/internal/domain"
	"live_portal/internal/repository"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// DashboardSummary aggregates the numbers shown on a user's dashboard.
type DashboardSummary struct {
	TotalUsers     int                    `json:"total_users"`
	TotalAdmins    int                    `json:"total_admins"`
	RecentLogins   []RecentLogin          `json:"recent_logins"`
	TotalWatchTime int64                  `json:"total_watch_time"`
	Notifications  []*domain.Notification `json:"notifications"`
}

type RecentLogin struct {
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Promote(ctx context.Context, userID uuid.UUID) error
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error)
	EnsureAdmin(ctx context.Context) error
}

type userService struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	analyticsRepo    repository.AnalyticsRepository
	broadcaster      Broadcaster
	log              logger.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	analyticsRepo repository.AnalyticsRepository,
	broadcaster Broadcaster,
	log logger.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		analyticsRepo:    analyticsRepo,
		broadcaster:      broadcaster,
		log:              log,
	}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// Promote grants the admin role. Promoting an admin again is a state
// conflict, not a no-op.
func (s *userService) Promote(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		s.log.Warn("User is already an admin", "user_id", userID)
		return apperrors.ErrAlreadyAdmin
	}

	if err := s.userRepo.UpdateRole(ctx, userID, domain.RoleAdmin); err != nil {
		return err
	}

	s.log.Info("User promoted to admin", "user_id", userID, "username", user.Username)
	s.broadcaster.ToRoom(RoomAdmin, EventUserPromoted, map[string]interface{}{
		"user_id":  userID,
		"username": user.Username,
	})

	return nil
}

func (s *userService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalAdmins, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	recent, err := s.userRepo.RecentLogins(ctx, 5)
	if err != nil {
		return nil, err
	}
	watchTime, err := s.analyticsRepo.TotalWatchTime(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	logins := make([]RecentLogin, 0, len(recent))
	for _, u := range recent {
		logins = append(logins, RecentLogin{
			Username:    u.Username,
			Email:       u.Email,
			LastLoginAt: u.LastLoginAt,
		})
	}

	return &DashboardSummary{
		TotalUsers:     totalUsers,
		TotalAdmins:    totalAdmins,
		RecentLogins:   logins,
		TotalWatchTime: watchTime,
		Notifications:  notifications,
	}, nil
}

// EnsureAdmin seeds the default admin account when none exists yet.
func (s *userService) EnsureAdmin(ctx context.Context) error {
	count, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.log.Info("Default admin account created", "username", admin.Username)
	return nil
}
