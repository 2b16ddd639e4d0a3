package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"live_portal/internal/middleware"
	"live_portal/internal/service"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

const defaultHistoryLimit = 50

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

func (h *ChatHandler) Messages(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	messages, err := h.chatService.Recent(c.Request.Context(), user.ID, limit)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
