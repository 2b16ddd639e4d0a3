package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"live_portal/internal/config"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

// CaptchaService verifies a client's CAPTCHA response with the external
// verification endpoint. An empty secret disables the check entirely
// (development mode).
type CaptchaService interface {
	Verify(ctx context.Context, token string) error
}

type captchaService struct {
	cfg    config.CaptchaConfig
	client *http.Client
	log    logger.Logger
}

func NewCaptchaService(cfg config.CaptchaConfig, log logger.Logger) CaptchaService {
	return &captchaService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (s *captchaService) Verify(ctx context.Context, token string) error {
	if s.cfg.SecretKey == "" {
		return nil
	}
	if token == "" {
		return apperrors.ErrCaptchaFailed
	}

	form := url.Values{
		"secret":   {s.cfg.SecretKey},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Captcha verification request failed", "error", err)
		return apperrors.ErrCaptchaFailed
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.log.Error("Failed to decode captcha response", "error", err)
		return apperrors.ErrCaptchaFailed
	}
	if !result.Success {
		return apperrors.ErrCaptchaFailed
	}

	return nil
}
