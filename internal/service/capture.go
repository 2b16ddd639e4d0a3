package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// FrameSource is an open capture device delivering raw frames.
type FrameSource interface {
	Read() (image.Image, func(), error)
	Close() error
}

// DeviceOpener opens the physical device. Platform-specific; see
// capture_linux.go and capture_fallback.go.
type DeviceOpener func() (FrameSource, error)

// CaptureController is the exclusive owner of the one physical camera.
type CaptureController interface {
	Start(dir string) error
	Stop()
	StartRecording() bool
	StopRecording()
	Recording() bool
	Opened() bool
	ReadJPEG() ([]byte, error)
}

type captureController struct {
	mu        sync.Mutex
	opener    DeviceOpener
	source    FrameSource
	dir       string
	recording bool
	sink      io.WriteCloser
	log       logger.Logger
}

var (
	captureMu       sync.Mutex
	captureInstance CaptureController
)

// Capture returns the process-wide controller, creating it on first use.
// There is exactly one device handle per process; callers share it.
func Capture(log logger.Logger) CaptureController {
	captureMu.Lock()
	defer captureMu.Unlock()
	if captureInstance == nil {
		captureInstance = NewCaptureController(openDevice, log)
	}
	return captureInstance
}

// NewCaptureController builds a controller around an opener. Exposed so
// tests can substitute a fake device; production code goes through
// Capture.
func NewCaptureController(opener DeviceOpener, log logger.Logger) CaptureController {
	return &captureController{opener: opener, log: log}
}

// Start opens the device. No-op when already open.
func (c *captureController) Start(dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source != nil {
		return nil
	}

	source, err := c.opener()
	if err != nil {
		c.log.Error("Failed to open capture device", "error", err)
		return apperrors.ErrDeviceUnavailable
	}

	c.source = source
	c.dir = dir
	c.log.Info("Capture device opened", "recording_dir", dir)
	return nil
}

// Stop ends any recording, closes the device and releases everything.
// Idempotent.
func (c *captureController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *captureController) stopLocked() {
	c.stopRecordingLocked()
	if c.source != nil {
		if err := c.source.Close(); err != nil {
			c.log.Warn("Failed to close capture device", "error", err)
		}
		c.source = nil
		c.log.Info("Capture device closed")
	}
}

// StartRecording opens a timestamped sink under the recording dir and
// starts persisting every captured frame. Returns false when the device
// is not open or a recording is already running.
func (c *captureController) StartRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil || c.recording || c.dir == "" {
		return false
	}

	filename := fmt.Sprintf("recording_%s.mjpeg", time.Now().Format("20060102_150405"))
	path := filepath.Join(c.dir, filename)
	sink, err := os.Create(path)
	if err != nil {
		c.log.Error("Failed to create recording file", "error", err, "path", path)
		return false
	}

	c.sink = sink
	c.recording = true
	c.log.Info("Recording started", "path", path)
	return true
}

// StopRecording closes the sink. Idempotent.
func (c *captureController) StopRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRecordingLocked()
}

func (c *captureController) stopRecordingLocked() {
	if !c.recording {
		return
	}
	if c.sink != nil {
		if err := c.sink.Close(); err != nil {
			c.log.Warn("Failed to close recording file", "error", err)
		}
		c.sink = nil
	}
	c.recording = false
	c.log.Info("Recording stopped")
}

func (c *captureController) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

func (c *captureController) Opened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source != nil
}

// ReadJPEG captures one frame as encoded JPEG. While recording, the
// frame is also appended to the sink. A read failure closes the device
// so the caller's stream loop terminates.
func (c *captureController) ReadJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return nil, apperrors.ErrDeviceUnavailable
	}

	img, release, err := c.source.Read()
	if err != nil {
		c.log.Error("Failed to read frame, stopping capture", "error", err)
		c.stopLocked()
		return nil, err
	}
	if release != nil {
		defer release()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		c.log.Error("Failed to encode frame", "error", err)
		return nil, err
	}

	if c.recording && c.sink != nil {
		if _, err := c.sink.Write(buf.Bytes()); err != nil {
			c.log.Warn("Failed to write recording frame", "error", err)
		}
	}

	return buf.Bytes(), nil
}
