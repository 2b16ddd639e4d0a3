package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	ErrInvalidAction     = errors.New("invalid action")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrCaptchaFailed     = errors.New("captcha verification failed")
	ErrRateLimited       = errors.New("too many requests")

	// State conflicts.
	ErrStreamActive     = errors.New("stream already active")
	ErrStreamInactive   = errors.New("no active stream")
	ErrAlreadyResolved  = errors.New("request already resolved")
	ErrAlreadyAdmin     = errors.New("user is already an admin")
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
	ErrAlreadyRead      = errors.New("notification already read")
	ErrNotAccepted      = errors.New("stream request not accepted")
	ErrPendingExists    = errors.New("pending request already exists")

	ErrDeviceUnavailable = errors.New("capture device unavailable")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrCaptchaFailed),
		errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrStreamActive),
		errors.Is(err, ErrStreamInactive),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrAlreadyAdmin),
		errors.Is(err, ErrAlreadyRecording),
		errors.Is(err, ErrNotRecording),
		errors.Is(err, ErrAlreadyRead),
		errors.Is(err, ErrNotAccepted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
