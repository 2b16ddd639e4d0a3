package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"live_portal/internal/service"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// frameInterval paces the MJPEG stream at roughly 30 fps.
const frameInterval = 33 * time.Millisecond

type StreamHandler struct {
	sessionService service.SessionService
	mediaService   service.MediaService
	capture        service.CaptureController
	maxUploadBytes int64
	log            logger.Logger
}

func NewStreamHandler(
	sessionService service.SessionService,
	mediaService service.MediaService,
	capture service.CaptureController,
	maxUploadBytes int64,
	log logger.Logger,
) *StreamHandler {
	return &StreamHandler{
		sessionService: sessionService,
		mediaService:   mediaService,
		capture:        capture,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type ControlStreamRequest struct {
	Action     string `json:"action" binding:"required"`
	StreamType string `json:"stream_type"`
	VideoPath  string `json:"video_path"`
}

type ControlRecordingRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *StreamHandler) ControlStream(c *gin.Context) {
	var req ControlStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var err error
	switch req.Action {
	case "start":
		err = h.sessionService.Start(c.Request.Context(), req.StreamType, req.VideoPath)
	case "stop":
		err = h.sessionService.Stop(c.Request.Context())
	default:
		err = apperrors.ErrInvalidAction
	}
	if err != nil {
		h.log.Warn("Stream control failed", "action", req.Action, "error", err)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StreamHandler) ControlRecording(c *gin.Context) {
	var req ControlRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var err error
	switch req.Action {
	case "start":
		switch {
		case !h.capture.Opened():
			err = apperrors.ErrStreamInactive
		case h.capture.Recording():
			err = apperrors.ErrAlreadyRecording
		case !h.capture.StartRecording():
			// device open, nothing recording: the sink could not be created
			err = apperrors.ErrInternalServer
		}
	case "stop":
		if !h.capture.Recording() {
			err = apperrors.ErrNotRecording
		} else {
			h.capture.StopRecording()
		}
	default:
		err = apperrors.ErrInvalidAction
	}
	if err != nil {
		h.log.Warn("Recording control failed", "action", req.Action, "error", err)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Stream writes an MJPEG multipart body until the client disconnects or
// the webcam session ends.
func (h *StreamHandler) Stream(c *gin.Context) {
	if !h.sessionService.WebcamActive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrStreamInactive.Error()})
		return
	}

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	c.Header("Cache-Control", "no-cache")

	ctx := c.Request.Context()
	w := c.Writer
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !h.sessionService.WebcamActive() {
			return
		}

		frame, err := h.capture.ReadJPEG()
		if err != nil {
			h.log.Error("Frame read failed, ending stream", "error", err)
			return
		}

		if _, err := w.Write([]byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return
		}
		w.Flush()

		time.Sleep(frameInterval)
	}
}

func (h *StreamHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return
	}
	defer src.Close()

	stored, err := h.mediaService.SaveUpload(fileHeader.Filename, src)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	h.log.Info("Video uploaded", "filename", stored)
	c.Status(http.StatusNoContent)
}

func (h *StreamHandler) Videos(c *gin.Context) {
	videos, err := h.mediaService.ListVideos()
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// Stats is the public session snapshot polled by the landing page.
func (h *StreamHandler) Stats(c *gin.Context) {
	state := h.sessionService.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"active":          state.Active,
		"stream_type":     state.StreamType,
		"viewers":         state.Viewers,
		"total_views":     state.TotalViews,
		"uptime":          state.Uptime,
		"connected_users": h.sessionService.ConnectedViewers(),
	})
}
