package service

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"

	"live_portal/internal/domain"
	apperrors "live_portal/pkg/errors"
)

type broadcastCall struct {
	Room    string
	UserID  uuid.UUID
	Event   string
	Payload interface{}
}

type fakeBroadcaster struct {
	roomCalls []broadcastCall
	userCalls []broadcastCall
	allCalls  []broadcastCall
}

func (b *fakeBroadcaster) ToRoom(room, event string, payload interface{}) {
	b.roomCalls = append(b.roomCalls, broadcastCall{Room: room, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) ToUser(userID uuid.UUID, event string, payload interface{}) {
	b.userCalls = append(b.userCalls, broadcastCall{UserID: userID, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) ToAll(event string, payload interface{}) {
	b.allCalls = append(b.allCalls, broadcastCall{Event: event, Payload: payload})
}

type resolveCall struct {
	RequestID    uuid.UUID
	Status       string
	Notification *domain.Notification
}

type fakeRequestRepo struct {
	latest     *domain.StreamRequest
	latestErr  error
	byID       map[uuid.UUID]*domain.StreamRequest
	createErr  error
	created    []*domain.StreamRequest
	pending    []*domain.PendingRequest
	resolveErr error
	resolved   []resolveCall
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[uuid.UUID]*domain.StreamRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *domain.StreamRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, request)
	r.byID[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StreamRequest, error) {
	request, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return request, nil
}

func (r *fakeRequestRepo) LatestByUser(ctx context.Context, userID uuid.UUID) (*domain.StreamRequest, error) {
	if r.latestErr != nil {
		return nil, r.latestErr
	}
	if r.latest == nil {
		return nil, apperrors.ErrNotFound
	}
	return r.latest, nil
}

func (r *fakeRequestRepo) ListPending(ctx context.Context) ([]*domain.PendingRequest, error) {
	return r.pending, nil
}

func (r *fakeRequestRepo) ResolveAndNotify(ctx context.Context, requestID uuid.UUID, status string, notification *domain.Notification) error {
	if r.resolveErr != nil {
		return r.resolveErr
	}
	r.resolved = append(r.resolved, resolveCall{RequestID: requestID, Status: status, Notification: notification})
	if request, ok := r.byID[requestID]; ok {
		request.Status = status
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// Create and the getters copy, like a real repository scanning rows;
// callers mutating a returned user must not corrupt the stored one.
func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

func (r *fakeUserRepo) RecentLogins(ctx context.Context, limit int) ([]*domain.User, error) {
	return nil, nil
}

type fakeChatRepo struct {
	createErr error
	messages  []*domain.ChatMessage
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	message.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeChatRepo) RecentMessages(ctx context.Context, limit int) ([]*domain.ChatMessage, error) {
	if limit > len(r.messages) {
		limit = len(r.messages)
	}
	return r.messages[:limit], nil
}

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*domain.Notification
	marked        []uuid.UUID
	deleted       []uuid.UUID
}

func newFakeNotificationRepo(notifications ...*domain.Notification) *fakeNotificationRepo {
	r := &fakeNotificationRepo{notifications: make(map[uuid.UUID]*domain.Notification)}
	for _, n := range notifications {
		r.notifications[n.ID] = n
	}
	return r
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.notifications[notification.ID] = notification
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return n, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	n, ok := r.notifications[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	n.IsRead = true
	r.marked = append(r.marked, id)
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.notifications[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.notifications, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeAnalyticsRepo struct {
	samples []int
}

func (r *fakeAnalyticsRepo) LogViewerCount(ctx context.Context, viewers int) error {
	r.samples = append(r.samples, viewers)
	return nil
}

func (r *fakeAnalyticsRepo) TotalWatchTime(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeCapture struct {
	startErr     error
	startCalls   int
	stopCalls    int
	opened       bool
	recording    bool
	frame        []byte
	readErr      error
}

func (c *fakeCapture) Start(dir string) error {
	c.startCalls++
	if c.startErr != nil {
		return c.startErr
	}
	c.opened = true
	return nil
}

func (c *fakeCapture) Stop() {
	c.stopCalls++
	c.opened = false
	c.recording = false
}

func (c *fakeCapture) StartRecording() bool {
	if !c.opened || c.recording {
		return false
	}
	c.recording = true
	return true
}

func (c *fakeCapture) StopRecording() { c.recording = false }
func (c *fakeCapture) Recording() bool { return c.recording }
func (c *fakeCapture) Opened() bool    { return c.opened }

func (c *fakeCapture) ReadJPEG() ([]byte, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.frame, nil
}

type fakeFrameSource struct {
	img      image.Image
	readErr  error
	reads    int
	closed   bool
}

func newFakeFrameSource() *fakeFrameSource {
	return &fakeFrameSource{img: image.NewRGBA(image.Rect(0, 0, 8, 8))}
}

func (s *fakeFrameSource) Read() (image.Image, func(), error) {
	s.reads++
	if s.readErr != nil {
		return nil, nil, s.readErr
	}
	return s.img, func() {}, nil
}

func (s *fakeFrameSource) Close() error {
	s.closed = true
	return nil
}
