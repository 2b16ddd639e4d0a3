package handler

import (
	"live_portal/internal/config"
	"live_portal/internal/repository"
	"live_portal/internal/service"
	"live_portal/pkg/logger"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Stream       *StreamHandler
	Request      *RequestHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	User         *UserHandler
	WebSocket    *WebSocketHandler
}

func NewHandlers(services *service.Services, repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(cfg),
		Auth:         NewAuthHandler(services.Auth, log),
		Stream:       NewStreamHandler(services.Session, services.Media, services.Capture, cfg.Upload.MaxSizeBytes, log),
		Request:      NewRequestHandler(services.Workflow, services.Session, log),
		Chat:         NewChatHandler(services.Chat, log),
		Notification: NewNotificationHandler(services.Notification, log),
		User:         NewUserHandler(services.User, log),
		WebSocket:    NewWebSocketHandler(services.Hub, services.Chat, services.Session, log),
	}
}
