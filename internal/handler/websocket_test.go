package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"live_portal/internal/domain"
	"live_portal/internal/middleware"
	"live_portal/internal/service"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type wsAuthService struct {
	user *domain.User
}

func (s *wsAuthService) Register(ctx context.Context, username, email, password, confirmPassword, captchaToken string) (*domain.User, error) {
	return nil, apperrors.ErrBadRequest
}

func (s *wsAuthService) Login(ctx context.Context, username, password, captchaToken string) (*service.LoginResponse, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (s *wsAuthService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	if tokenString != "good-token" {
		return nil, apperrors.ErrInvalidToken
	}
	return s.user, nil
}

// wsSessionService records the context state seen when the departure is
// reported.
type wsSessionService struct {
	left chan error
}

func (s *wsSessionService) Start(ctx context.Context, streamType, videoPath string) error { return nil }
func (s *wsSessionService) Stop(ctx context.Context) error                                { return nil }
func (s *wsSessionService) ViewerJoined(ctx context.Context, viewer domain.ConnectedViewer) {}
func (s *wsSessionService) Snapshot() domain.SessionState              { return domain.SessionState{} }
func (s *wsSessionService) ConnectedViewers() []domain.ConnectedViewer { return nil }
func (s *wsSessionService) WebcamActive() bool                         { return false }

func (s *wsSessionService) ViewerLeft(ctx context.Context, userID uuid.UUID) {
	s.left <- ctx.Err()
}

type wsChatService struct {
	mu       sync.Mutex
	messages []string
}

func (s *wsChatService) Send(ctx context.Context, userID uuid.UUID, text string) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
	return &domain.ChatMessage{UserID: userID, Message: text}, nil
}

func (s *wsChatService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	return nil, nil
}

func (s *wsChatService) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func TestWebSocketDisconnectRecordsDeparture(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.FromZap(zaptest.NewLogger(t))

	user := &domain.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Role: domain.RoleViewer, IsActive: true}
	session := &wsSessionService{left: make(chan error, 1)}
	chat := &wsChatService{}
	hub := service.NewHub(log)
	h := NewWebSocketHandler(hub, chat, session, log)

	authMiddleware := middleware.NewAuthMiddleware(&wsAuthService{user: user}, log)
	router := gin.New()
	router.GET("/ws", authMiddleware.RequireAuth(), h.Handle)

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good-token"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	payload := map[string]interface{}{
		"event": service.EventSendMessage,
		"data":  map[string]string{"message": "salut"},
	}
	require.NoError(t, conn.WriteJSON(payload))
	require.NoError(t, conn.Close())

	select {
	case ctxErr := <-session.left:
		assert.NoError(t, ctxErr, "departure is recorded on a context that outlives the request")
	case <-time.After(2 * time.Second):
		t.Fatal("viewer departure was never recorded")
	}

	assert.Equal(t, []string{"salut"}, chat.sent())
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.FromZap(zaptest.NewLogger(t))

	h := NewWebSocketHandler(service.NewHub(log), &wsChatService{}, &wsSessionService{left: make(chan error, 1)}, log)
	authMiddleware := middleware.NewAuthMiddleware(&wsAuthService{}, log)
	router := gin.New()
	router.GET("/ws", authMiddleware.RequireAuth(), h.Handle)

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=bad-token"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if resp != nil {
		resp.Body.Close()
		assert.Equal(t, 401, resp.StatusCode)
	}
}
