package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"live_portal/internal/middleware"
	"live_portal/internal/service"
	"live_portal/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub            *service.Hub
	chatService    service.ChatService
	sessionService service.SessionService
	log            logger.Logger
}

func NewWebSocketHandler(hub *service.Hub, chatService service.ChatService, sessionService service.SessionService, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		chatService:    chatService,
		sessionService: sessionService,
		log:            log,
	}
}

type inboundMessage struct {
	Event string `json:"event"`
	Data  struct {
		Message string `json:"message"`
	} `json:"data"`
}

// Handle upgrades the connection and pumps events both ways until the
// client goes away. Auth runs before this via the token query fallback.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client, cleanup := h.hub.Register(user, conn)
	go client.WritePump()

	defer func() {
		cleanup()
		// The request context may already be canceled once the peer is
		// gone; the departure must still be recorded.
		h.sessionService.ViewerLeft(context.Background(), user.ID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Unexpected connection close", "user_id", user.ID, "error", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.log.Warn("Malformed client event", "user_id", user.ID, "error", err)
			continue
		}

		switch msg.Event {
		case service.EventSendMessage:
			if _, err := h.chatService.Send(c.Request.Context(), user.ID, msg.Data.Message); err != nil {
				h.log.Warn("Chat message rejected", "user_id", user.ID, "error", err)
			}
		default:
			h.log.Debug("Ignoring unknown client event", "event", msg.Event)
		}
	}
}
