package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"live_portal/pkg/logger"
)

type Repositories struct {
	User         UserRepository
	Request      RequestRepository
	Notification NotificationRepository
	Chat         ChatRepository
	Analytics    AnalyticsRepository
	RateLimit    RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db, log),
		Request:      NewRequestRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		Chat:         NewChatRepository(db, log),
		Analytics:    NewAnalyticsRepository(db, log),
		RateLimit:    NewRateLimitRepository(redis, log),
	}
}
