package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"live_portal/internal/domain"
	"live_portal/internal/repository"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// SessionService owns the process-wide broadcast state and the
// connected-viewer list. All mutation goes through its methods, under a
// single mutex; nothing exposes the raw fields.
type SessionService interface {
	Start(ctx context.Context, streamType, videoPath string) error
	Stop(ctx context.Context) error
	ViewerJoined(ctx context.Context, viewer domain.ConnectedViewer)
	ViewerLeft(ctx context.Context, userID uuid.UUID)
	Snapshot() domain.SessionState
	ConnectedViewers() []domain.ConnectedViewer
	WebcamActive() bool
}

type sessionService struct {
	mu      sync.Mutex
	state   domain.SessionState
	viewers []domain.ConnectedViewer

	analyticsRepo repository.AnalyticsRepository
	capture       CaptureController
	broadcaster   Broadcaster
	recordingDir  string
	log           logger.Logger
}

func NewSessionService(
	analyticsRepo repository.AnalyticsRepository,
	capture CaptureController,
	broadcaster Broadcaster,
	recordingDir string,
	log logger.Logger,
) SessionService {
	return &sessionService{
		state:         domain.SessionState{StreamType: domain.StreamTypeNone},
		analyticsRepo: analyticsRepo,
		capture:       capture,
		broadcaster:   broadcaster,
		recordingDir:  recordingDir,
		log:           log,
	}
}

func (s *sessionService) Start(ctx context.Context, streamType, videoPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Active {
		s.log.Warn("Stream already active")
		return apperrors.ErrStreamActive
	}

	switch streamType {
	case domain.StreamTypeVideo:
		if videoPath == "" {
			return apperrors.ErrBadRequest
		}
	case domain.StreamTypeWebcam:
		videoPath = ""
		// Device failure must leave the session inactive.
		if err := s.capture.Start(s.recordingDir); err != nil {
			s.log.Error("Failed to start webcam", "error", err)
			return err
		}
	default:
		return apperrors.ErrBadRequest
	}

	now := time.Now()
	s.state.Active = true
	s.state.StreamType = streamType
	s.state.VideoPath = videoPath
	s.state.StartTime = &now
	s.state.Viewers = 0

	s.logSampleLocked(ctx)
	s.log.Info("Stream started", "stream_type", streamType, "video_path", videoPath)
	return nil
}

func (s *sessionService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active {
		s.log.Warn("No active stream")
		return apperrors.ErrStreamInactive
	}

	s.state.Active = false
	s.state.Viewers = 0
	s.state.StartTime = nil
	s.state.StreamType = domain.StreamTypeNone
	s.state.VideoPath = ""
	s.viewers = nil

	s.capture.Stop()
	s.logSampleLocked(ctx)
	s.log.Info("Stream stopped")
	return nil
}

func (s *sessionService) ViewerJoined(ctx context.Context, viewer domain.ConnectedViewer) {
	s.mu.Lock()
	s.state.Viewers++
	s.state.TotalViews++

	found := false
	for _, v := range s.viewers {
		if v.ID == viewer.ID {
			found = true
			break
		}
	}
	if !found {
		s.viewers = append(s.viewers, viewer)
	}

	s.logSampleLocked(ctx)
	list := s.connectedLocked()
	s.mu.Unlock()

	s.log.Info("Viewer joined", "user_id", viewer.ID, "username", viewer.Username, "viewers", len(list))
	s.broadcaster.ToAll(EventUpdateUsers, list)
}

func (s *sessionService) ViewerLeft(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	removed := false
	for i, v := range s.viewers {
		if v.ID == userID {
			s.viewers = append(s.viewers[:i], s.viewers[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}

	if s.state.Viewers > 0 {
		s.state.Viewers--
	}
	s.logSampleLocked(ctx)
	list := s.connectedLocked()
	s.mu.Unlock()

	s.log.Info("Viewer left", "user_id", userID, "viewers", len(list))
	s.broadcaster.ToAll(EventUpdateUsers, list)
}

func (s *sessionService) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	if snapshot.StartTime != nil {
		snapshot.Uptime = int64(time.Since(*snapshot.StartTime).Seconds())
	}
	return snapshot
}

func (s *sessionService) ConnectedViewers() []domain.ConnectedViewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectedLocked()
}

func (s *sessionService) WebcamActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Active && s.state.StreamType == domain.StreamTypeWebcam
}

func (s *sessionService) connectedLocked() []domain.ConnectedViewer {
	list := make([]domain.ConnectedViewer, len(s.viewers))
	copy(list, s.viewers)
	return list
}

func (s *sessionService) logSampleLocked(ctx context.Context) {
	if err := s.analyticsRepo.LogViewerCount(ctx, s.state.Viewers); err != nil {
		s.log.Warn("Failed to log analytics sample", "error", err)
	}
}
