package service

import (
	"live_portal/internal/config"
	"live_portal/internal/repository"
	"live_portal/pkg/logger"
)

type Services struct {
	Auth         AuthService
	Captcha      CaptchaService
	User         UserService
	Workflow     WorkflowService
	Session      SessionService
	Chat         ChatService
	Notification NotificationService
	Media        MediaService
	RateLimit    RateLimitService
	Capture      CaptureController
	Hub          *Hub
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	hub := NewHub(log)
	capture := Capture(log)
	captcha := NewCaptchaService(cfg.Captcha, log)

	return &Services{
		Auth:         NewAuthService(repos.User, captcha, cfg.JWT, log),
		Captcha:      captcha,
		User:         NewUserService(repos.User, repos.Notification, repos.Analytics, hub, log),
		Workflow:     NewWorkflowService(repos.Request, repos.User, hub, log),
		Session:      NewSessionService(repos.Analytics, capture, hub, cfg.Upload.Dir, log),
		Chat:         NewChatService(repos.Chat, repos.Request, repos.User, hub, log),
		Notification: NewNotificationService(repos.Notification, hub, log),
		Media:        NewMediaService(cfg.Upload.Dir, log),
		RateLimit:    NewRateLimitService(repos.RateLimit, log),
		Capture:      capture,
		Hub:          hub,
	}
}
