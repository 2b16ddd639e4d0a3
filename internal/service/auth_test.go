package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"live_portal/internal/config"
	"live_portal/internal/domain"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type fakeCaptcha struct {
	err error
}

func (c *fakeCaptcha) Verify(ctx context.Context, token string) error { return c.err }

func newAuthService(t *testing.T, users *fakeUserRepo, captcha CaptchaService) AuthService {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour}
	return NewAuthService(users, captcha, jwtCfg, logger.FromZap(zaptest.NewLogger(t)))
}

func TestAuthRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(t, users, &fakeCaptcha{})

	user, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "secret1", "secret1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized")
	assert.Equal(t, domain.RoleViewer, user.Role)
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	response, err := svc.Login(context.Background(), "alice", "secret1", "tok")
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, user.ID, response.User.ID)
}

func TestAuthRegisterValidation(t *testing.T) {
	tests := []struct {
		name            string
		username        string
		email           string
		password        string
		confirmPassword string
	}{
		{"empty username", "", "a@b.fr", "secret1", "secret1"},
		{"bad email", "alice", "not-an-email", "secret1", "secret1"},
		{"short password", "alice", "a@b.fr", "abc", "abc"},
		{"mismatched passwords", "alice", "a@b.fr", "secret1", "secret2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo()
			svc := newAuthService(t, users, &fakeCaptcha{})
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password, tt.confirmPassword, "tok")
			require.Error(t, err)
			assert.Empty(t, users.users)
		})
	}
}

func TestAuthRegisterCaptchaFailure(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(t, users, &fakeCaptcha{err: apperrors.ErrCaptchaFailed})

	_, err := svc.Register(context.Background(), "alice", "a@b.fr", "secret1", "secret1", "bad")
	require.ErrorIs(t, err, apperrors.ErrCaptchaFailed)
	assert.Empty(t, users.users)
}

func TestAuthLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := viewerUser()
	user.PasswordHash = string(hash)
	svc := newAuthService(t, newFakeUserRepo(user), &fakeCaptcha{})

	_, err = svc.Login(context.Background(), "alice", "wrong", "tok")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo(), &fakeCaptcha{})
	_, err := svc.Login(context.Background(), "ghost", "whatever", "tok")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthLoginInactiveUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := viewerUser()
	user.PasswordHash = string(hash)
	user.IsActive = false
	svc := newAuthService(t, newFakeUserRepo(user), &fakeCaptcha{})

	_, err = svc.Login(context.Background(), "alice", "secret1", "tok")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthValidateToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(t, users, &fakeCaptcha{})

	user, err := svc.Register(context.Background(), "alice", "a@b.fr", "secret1", "secret1", "tok")
	require.NoError(t, err)
	response, err := svc.Login(context.Background(), "alice", "secret1", "tok")
	require.NoError(t, err)

	resolved, err := svc.ValidateToken(context.Background(), response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
