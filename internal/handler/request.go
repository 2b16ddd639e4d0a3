package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"live_portal/internal/domain"
	"live_portal/internal/middleware"
	"live_portal/internal/service"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type RequestHandler struct {
	workflowService service.WorkflowService
	sessionService  service.SessionService
	log             logger.Logger
}

func NewRequestHandler(workflowService service.WorkflowService, sessionService service.SessionService, log logger.Logger) *RequestHandler {
	return &RequestHandler{
		workflowService: workflowService,
		sessionService:  sessionService,
		log:             log,
	}
}

// Join records the viewer's intent to enter the live session. An already
// accepted viewer is admitted immediately; otherwise a request is either
// created or reported as pending.
func (h *RequestHandler) Join(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	outcome, err := h.workflowService.RequestJoin(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if outcome == service.JoinAccepted {
		h.sessionService.ViewerJoined(c.Request.Context(), domain.ConnectedViewer{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": outcome})
}

func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.workflowService.PendingRequests(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *RequestHandler) Resolve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}
	action := c.Param("action")

	if err := h.workflowService.ResolveRequest(c.Request.Context(), requestID, action); err != nil {
		h.log.Warn("Request resolution failed", "request_id", requestID, "action", action, "error", err)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
