package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"live_portal/internal/domain"
	"live_portal/internal/repository"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// JoinOutcome is the result of a viewer's attempt to enter the live
// session.
type JoinOutcome string

const (
	JoinAccepted  JoinOutcome = "accepted"  // latest request accepted, viewer may enter
	JoinPending   JoinOutcome = "pending"   // a request is awaiting an admin decision
	JoinRejected  JoinOutcome = "rejected"  // latest request was rejected
	JoinRequested JoinOutcome = "requested" // a fresh request was just created
)

const (
	notificationAccepted = "Votre demande pour rejoindre le live a été acceptée."
	notificationRejected = "Votre demande pour rejoindre le live a été refusée."
)

// WorkflowService drives the request-approval lifecycle:
// pending -> accepted|rejected, with admin notifications along the way.
type WorkflowService interface {
	RequestJoin(ctx context.Context, userID uuid.UUID) (JoinOutcome, error)
	ResolveRequest(ctx context.Context, requestID uuid.UUID, action string) error
	PendingRequests(ctx context.Context) ([]*domain.PendingRequest, error)
}

type workflowService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
	log         logger.Logger
}

func NewWorkflowService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	log logger.Logger,
) WorkflowService {
	return &workflowService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		log:         log,
	}
}

func (s *workflowService) RequestJoin(ctx context.Context, userID uuid.UUID) (JoinOutcome, error) {
	latest, err := s.requestRepo.LatestByUser(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}

	if latest != nil {
		switch latest.Status {
		case domain.RequestStatusAccepted:
			return JoinAccepted, nil
		case domain.RequestStatusPending:
			return JoinPending, nil
		case domain.RequestStatusRejected:
			// A rejection is not final: the user may ask again.
		}
	}

	request := &domain.StreamRequest{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      domain.RequestStatusPending,
		RequestedAt: time.Now(),
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		if errors.Is(err, apperrors.ErrPendingExists) {
			// Lost the race against a concurrent join attempt.
			return JoinPending, nil
		}
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	s.log.Info("Stream request created", "request_id", request.ID, "user_id", userID, "username", user.Username)
	s.broadcaster.ToRoom(RoomAdmin, EventNewRequest, map[string]interface{}{
		"request_id":   request.ID,
		"user_id":      user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"requested_at": request.RequestedAt,
	})

	return JoinRequested, nil
}

func (s *workflowService) ResolveRequest(ctx context.Context, requestID uuid.UUID, action string) error {
	var status, message string
	switch action {
	case "accept":
		status = domain.RequestStatusAccepted
		message = notificationAccepted
	case "reject":
		status = domain.RequestStatusRejected
		message = notificationRejected
	default:
		return apperrors.ErrInvalidAction
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != domain.RequestStatusPending {
		return apperrors.ErrAlreadyResolved
	}

	user, err := s.userRepo.GetByID(ctx, request.UserID)
	if err != nil {
		return err
	}

	notification := &domain.Notification{
		ID:        uuid.New(),
		UserID:    request.UserID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	// Status transition and notification are one transaction; the
	// broadcast goes out only after the commit.
	if err := s.requestRepo.ResolveAndNotify(ctx, requestID, status, notification); err != nil {
		return err
	}

	s.log.Info("Stream request resolved", "request_id", requestID, "status", status, "username", user.Username)
	s.broadcaster.ToRoom(RoomAdmin, EventRequestUpdated, map[string]interface{}{
		"request_id": requestID,
		"status":     status,
		"username":   user.Username,
		"email":      user.Email,
	})

	return nil
}

func (s *workflowService) PendingRequests(ctx context.Context) ([]*domain.PendingRequest, error) {
	return s.requestRepo.ListPending(ctx)
}
