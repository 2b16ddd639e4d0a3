package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"live_portal/internal/domain"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

func newNotificationService(t *testing.T, repo *fakeNotificationRepo) (NotificationService, *fakeBroadcaster) {
	t.Helper()
	broadcaster := &fakeBroadcaster{}
	svc := NewNotificationService(repo, broadcaster, logger.FromZap(zaptest.NewLogger(t)))
	return svc, broadcaster
}

func TestNotificationManageRead(t *testing.T) {
	userID := uuid.New()
	notification := &domain.Notification{ID: uuid.New(), UserID: userID}
	repo := newFakeNotificationRepo(notification)
	svc, broadcaster := newNotificationService(t, repo)

	require.NoError(t, svc.Manage(context.Background(), userID, notification.ID, NotificationActionRead))
	assert.True(t, notification.IsRead)

	require.Len(t, broadcaster.userCalls, 1)
	assert.Equal(t, userID, broadcaster.userCalls[0].UserID)
	assert.Equal(t, EventNotificationUpdated, broadcaster.userCalls[0].Event)
}

func TestNotificationManageReadTwice(t *testing.T) {
	userID := uuid.New()
	notification := &domain.Notification{ID: uuid.New(), UserID: userID, IsRead: true}
	repo := newFakeNotificationRepo(notification)
	svc, _ := newNotificationService(t, repo)

	err := svc.Manage(context.Background(), userID, notification.ID, NotificationActionRead)
	require.ErrorIs(t, err, apperrors.ErrAlreadyRead)
}

func TestNotificationManageDelete(t *testing.T) {
	userID := uuid.New()
	notification := &domain.Notification{ID: uuid.New(), UserID: userID}
	repo := newFakeNotificationRepo(notification)
	svc, _ := newNotificationService(t, repo)

	require.NoError(t, svc.Manage(context.Background(), userID, notification.ID, NotificationActionDelete))
	assert.Len(t, repo.deleted, 1)
}

func TestNotificationManageOwnershipEnforced(t *testing.T) {
	notification := &domain.Notification{ID: uuid.New(), UserID: uuid.New()}
	repo := newFakeNotificationRepo(notification)
	svc, broadcaster := newNotificationService(t, repo)

	err := svc.Manage(context.Background(), uuid.New(), notification.ID, NotificationActionRead)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.False(t, notification.IsRead)
	assert.Empty(t, broadcaster.userCalls)
}

func TestNotificationManageInvalidAction(t *testing.T) {
	svc, _ := newNotificationService(t, newFakeNotificationRepo())
	err := svc.Manage(context.Background(), uuid.New(), uuid.New(), "archive")
	require.ErrorIs(t, err, apperrors.ErrInvalidAction)
}

func TestNotificationManageNotFound(t *testing.T) {
	svc, _ := newNotificationService(t, newFakeNotificationRepo())
	err := svc.Manage(context.Background(), uuid.New(), uuid.New(), NotificationActionRead)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
