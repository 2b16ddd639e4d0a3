package service

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"live_portal/internal/domain"
	"live_portal/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(logger.FromZap(zaptest.NewLogger(t)))
}

func registerUser(t *testing.T, h *Hub, role string) (*HubClient, func()) {
	t.Helper()
	user := &domain.User{ID: uuid.New(), Username: "u-" + role, Email: role + "@example.com", Role: role}
	return h.Register(user, nil)
}

func receive(t *testing.T, c *HubClient) *Envelope {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return &env
	default:
		return nil
	}
}

func TestHubAdminRoomRouting(t *testing.T) {
	h := newTestHub(t)
	admin, adminCleanup := registerUser(t, h, domain.RoleAdmin)
	viewer, viewerCleanup := registerUser(t, h, domain.RoleViewer)
	defer adminCleanup()
	defer viewerCleanup()

	h.ToRoom(RoomAdmin, EventNewRequest, map[string]string{"username": "alice"})

	env := receive(t, admin)
	require.NotNil(t, env, "admin gets admin-room events")
	assert.Equal(t, EventNewRequest, env.Event)
	assert.Nil(t, receive(t, viewer), "viewer does not")
}

func TestHubEveryoneJoinsStreamRoom(t *testing.T) {
	h := newTestHub(t)
	admin, adminCleanup := registerUser(t, h, domain.RoleAdmin)
	viewer, viewerCleanup := registerUser(t, h, domain.RoleViewer)
	defer adminCleanup()
	defer viewerCleanup()

	h.ToRoom(RoomStream, EventNewMessage, map[string]string{"message": "hi"})

	require.NotNil(t, receive(t, admin))
	require.NotNil(t, receive(t, viewer))
}

func TestHubToUser(t *testing.T) {
	h := newTestHub(t)
	a, cleanupA := registerUser(t, h, domain.RoleViewer)
	b, cleanupB := registerUser(t, h, domain.RoleViewer)
	defer cleanupA()
	defer cleanupB()

	h.ToUser(a.UserID, EventNotificationUpdated, nil)

	require.NotNil(t, receive(t, a))
	assert.Nil(t, receive(t, b))
}

func TestHubFullBufferDoesNotBlockOthers(t *testing.T) {
	h := newTestHub(t)
	stuck, cleanupStuck := registerUser(t, h, domain.RoleViewer)
	healthy, cleanupHealthy := registerUser(t, h, domain.RoleViewer)
	defer cleanupStuck()
	defer cleanupHealthy()

	for i := 0; i < cap(stuck.Send); i++ {
		stuck.Send <- []byte("{}")
	}

	done := make(chan struct{})
	go func() {
		h.ToAll(EventUpdateUsers, nil)
		close(done)
	}()
	<-done

	require.NotNil(t, receive(t, healthy), "healthy client still gets the event")
}

func TestHubUnregister(t *testing.T) {
	h := newTestHub(t)
	_, adminCleanup := registerUser(t, h, domain.RoleAdmin)
	assert.Equal(t, 1, h.RoomSize(RoomAdmin))
	assert.Equal(t, 1, h.RoomSize(RoomStream))

	adminCleanup()
	assert.Equal(t, 0, h.RoomSize(RoomAdmin))
	assert.Equal(t, 0, h.RoomSize(RoomStream))

	// second cleanup is a no-op
	adminCleanup()
}
