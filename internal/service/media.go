package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

var allowedVideoExtensions = []string{".mp4", ".avi", ".mkv"}

// MediaService stores uploaded broadcast videos on the local filesystem.
type MediaService interface {
	SaveUpload(filename string, src io.Reader) (string, error)
	ListVideos() ([]string, error)
}

type mediaService struct {
	dir string
	log logger.Logger
}

func NewMediaService(dir string, log logger.Logger) MediaService {
	return &mediaService{dir: dir, log: log}
}

func (s *mediaService) SaveUpload(filename string, src io.Reader) (string, error) {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || !hasAllowedExtension(filename) {
		return "", apperrors.ErrUnsupportedFormat
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Error("Failed to create upload directory", "error", err, "dir", s.dir)
		return "", err
	}

	stored := fmt.Sprintf("%d_%s", time.Now().Unix(), filename)
	path := filepath.Join(s.dir, stored)
	dst, err := os.Create(path)
	if err != nil {
		s.log.Error("Failed to create upload file", "error", err, "path", path)
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.log.Error("Failed to write upload", "error", err, "path", path)
		return "", err
	}

	s.log.Info("Video uploaded", "filename", stored)
	return stored, nil
}

func (s *mediaService) ListVideos() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		s.log.Error("Failed to read upload directory", "error", err, "dir", s.dir)
		return nil, err
	}

	videos := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasAllowedExtension(entry.Name()) {
			videos = append(videos, entry.Name())
		}
	}

	return videos, nil
}

func hasAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
