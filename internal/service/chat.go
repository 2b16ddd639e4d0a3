package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"live_portal/internal/domain"
	"live_portal/internal/repository"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// ChatService lets accepted viewers exchange messages in the stream room.
type ChatService interface {
	Send(ctx context.Context, userID uuid.UUID, text string) (*domain.ChatMessage, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type chatService struct {
	chatRepo    repository.ChatRepository
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
	log         logger.Logger
}

func NewChatService(
	chatRepo repository.ChatRepository,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	log logger.Logger,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Send persists and broadcasts one chat message. Whitespace-only input
// is dropped without error; only users whose latest request is accepted
// may post.
func (s *chatService) Send(ctx context.Context, userID uuid.UUID, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if err := s.requireAccepted(ctx, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &domain.ChatMessage{
		UserID:    userID,
		Username:  user.Username,
		Message:   text,
		CreatedAt: time.Now(),
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.broadcaster.ToRoom(RoomStream, EventNewMessage, map[string]interface{}{
		"username":   user.Username,
		"message":    message.Message,
		"created_at": message.CreatedAt,
	})

	return message, nil
}

func (s *chatService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if err := s.requireAccepted(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.chatRepo.RecentMessages(ctx, limit)
}

func (s *chatService) requireAccepted(ctx context.Context, userID uuid.UUID) error {
	latest, err := s.requestRepo.LatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotAccepted
		}
		return err
	}
	if latest.Status != domain.RequestStatusAccepted {
		return apperrors.ErrNotAccepted
	}
	return nil
}
