package service

import (
	"context"

	"github.com/google/uuid"

	"live_portal/internal/domain"
	"live_portal/internal/repository"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

const (
	NotificationActionRead   = "read"
	NotificationActionDelete = "delete"
)

// NotificationService exposes a user's own notifications; only the
// owner may read or delete them.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	Manage(ctx context.Context, userID, notificationID uuid.UUID, action string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	broadcaster      Broadcaster
	log              logger.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	broadcaster Broadcaster,
	log logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
		log:              log,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *notificationService) Manage(ctx context.Context, userID, notificationID uuid.UUID, action string) error {
	if action != NotificationActionRead && action != NotificationActionDelete {
		return apperrors.ErrInvalidAction
	}

	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		s.log.Warn("Notification access denied", "notification_id", notificationID, "user_id", userID)
		return apperrors.ErrForbidden
	}

	switch action {
	case NotificationActionRead:
		if notification.IsRead {
			return apperrors.ErrAlreadyRead
		}
		if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
			return err
		}
	case NotificationActionDelete:
		if err := s.notificationRepo.Delete(ctx, notificationID); err != nil {
			return err
		}
	}

	s.broadcaster.ToUser(userID, EventNotificationUpdated, map[string]interface{}{
		"notification_id": notificationID,
		"action":          action,
	})

	return nil
}
